package interview

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizmentor/quizmentor/internal/utils"
)

// CreateParams carries the denormalized context captured at session start.
type CreateParams struct {
	UserID         string
	CourseID       string
	CourseName     string
	SelectedTopics []string
	Topics         []TopicSnapshot
	Persona        *PersonaSnapshot
	TargetRole     *RoleSnapshot
}

// Registry holds every live session in memory, keyed by session id. Entries
// exist only for the lifetime of the process; a restart loses active
// sessions, while terminated ones already sit in durable storage.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create builds a session with a fresh id, derives the starting difficulty
// from the target role, and stores it. It always succeeds.
func (r *Registry) Create(p CreateParams) *Session {
	now := time.Now().UTC()
	sess := &Session{
		ID:             uuid.NewString(),
		UserID:         p.UserID,
		CourseID:       p.CourseID,
		CourseName:     p.CourseName,
		SelectedTopics: p.SelectedTopics,
		Topics:         p.Topics,
		Persona:        p.Persona,
		TargetRole:     p.TargetRole,
		Difficulty:     NewTracker(LevelForRole(p.TargetRole)),
		Metrics:        NewMetrics(now),
		StartedAt:      now,
	}

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()
	return sess
}

// Get returns the live session, or utils.ErrNotFound for unknown ids so
// callers can tell an expired session from other failures.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return sess, nil
}

// Evict removes and returns the session. It is called exactly once, at
// termination, after the archive record has been written.
func (r *Registry) Evict(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	delete(r.sessions, id)
	return sess, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
