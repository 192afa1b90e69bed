package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestRequestLogger_LogsMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(RequestLogger(l))
	r.GET("/courses/:course_id", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/courses/c1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no log entry written")
	}
	if entry.Data["path"] != "/courses/:course_id" {
		t.Errorf("expected route template, got %v", entry.Data["path"])
	}
	if entry.Data["bytes"] != 2 {
		t.Errorf("expected 2 response bytes, got %v", entry.Data["bytes"])
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id response header")
	}
}

func TestRequestLogger_UnmatchedRouteFallsBackToURLPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(RequestLogger(l))

	req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no log entry written")
	}
	if entry.Data["path"] != "/no/such/route" {
		t.Errorf("expected raw URL path for unmatched route, got %v", entry.Data["path"])
	}
	if entry.Data["status"] != http.StatusNotFound {
		t.Errorf("expected 404, got %v", entry.Data["status"])
	}
}

func TestRequestLogger_KeepsCallerRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(RequestLogger(l))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "req-123" {
		t.Errorf("expected request id to round-trip, got %q", got)
	}
	if entry := hook.LastEntry(); entry == nil || entry.Data["request_id"] != "req-123" {
		t.Error("request id missing from log entry")
	}
}
