package interview

import (
	"errors"
	"testing"

	"github.com/quizmentor/quizmentor/internal/utils"
)

func TestRegistry_CreateGetEvict(t *testing.T) {
	r := NewRegistry()

	sess := r.Create(CreateParams{
		UserID:         "u1",
		CourseID:       "c1",
		CourseName:     "Distributed Systems",
		SelectedTopics: []string{RandomTopics},
		Topics:         []TopicSnapshot{{ID: "t1", Name: "Consensus"}},
		TargetRole:     &RoleSnapshot{ID: "r1", Name: "Backend Engineer", Level: 3},
	})
	if sess.ID == "" {
		t.Fatal("expected a generated session id")
	}
	if sess.Difficulty.Level() != LevelSenior {
		t.Errorf("expected level 3 from role, got %d", sess.Difficulty.Level())
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 live session, got %d", r.Len())
	}

	got, err := r.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != sess {
		t.Error("Get must return the same live session")
	}

	evicted, err := r.Evict(sess.ID)
	if err != nil {
		t.Fatalf("Evict failed: %v", err)
	}
	if evicted != sess {
		t.Error("Evict must return the removed session")
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}

	if _, err := r.Get(sess.ID); !errors.Is(err, utils.ErrNotFound) {
		t.Errorf("expected ErrNotFound after eviction, got %v", err)
	}
	if _, err := r.Evict(sess.ID); !errors.Is(err, utils.ErrNotFound) {
		t.Errorf("second eviction must report not found, got %v", err)
	}
}

func TestRegistry_DefaultDifficultyWithoutRole(t *testing.T) {
	r := NewRegistry()
	sess := r.Create(CreateParams{UserID: "u1", CourseID: "c1"})
	if sess.Difficulty.Level() != LevelMid {
		t.Errorf("expected default level 2, got %d", sess.Difficulty.Level())
	}
}

func TestSession_CurrentTopic(t *testing.T) {
	r := NewRegistry()
	sess := r.Create(CreateParams{UserID: "u1", CourseID: "c1"})

	if got := sess.CurrentTopic(); got != "" {
		t.Errorf("empty transcript: expected no topic, got %q", got)
	}

	sess.Append(Message{Role: RoleInterviewer, Content: "Tell me about Raft.", Topic: "consensus"})
	sess.Append(Message{Role: RoleUser, Content: "It elects a leader..."})
	if got := sess.CurrentTopic(); got != "consensus" {
		t.Errorf("expected consensus, got %q", got)
	}

	sess.Append(Message{Role: RoleInterviewer, Content: "How do vector clocks work?", Topic: "clocks"})
	if got := sess.CurrentTopic(); got != "clocks" {
		t.Errorf("expected clocks, got %q", got)
	}
}
