package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_DefaultsToJSON(t *testing.T) {
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("LOG_LEVEL", "")

	l := New()
	if _, ok := l.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected JSON formatter, got %T", l.Formatter)
	}
	if l.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level, got %v", l.GetLevel())
	}
}

func TestNew_TextFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")

	l := New()
	if _, ok := l.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected text formatter, got %T", l.Formatter)
	}
}

func TestNew_LevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	l := New()
	if l.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %v", l.GetLevel())
	}
}
