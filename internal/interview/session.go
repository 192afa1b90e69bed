package interview

import (
	"time"
)

// RandomTopics is the sentinel the learner sends instead of picking topics.
const RandomTopics = "random"

type MessageRole string

const (
	RoleInterviewer MessageRole = "interviewer"
	RoleUser        MessageRole = "user"
)

// Message is one transcript entry. Interviewer messages carry the topic the
// question belongs to; user messages carry the skipped flag.
type Message struct {
	Role      MessageRole `json:"role" bson:"role"`
	Content   string      `json:"content" bson:"content"`
	Topic     string      `json:"topic,omitempty" bson:"topic,omitempty"`
	Skipped   bool        `json:"skipped,omitempty" bson:"skipped,omitempty"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}

// TopicSnapshot is a topic as it looked when the session started. Snapshots
// are never refreshed: the interview stays consistent even if the course
// changes mid-session.
type TopicSnapshot struct {
	ID        string   `json:"id" bson:"id"`
	Name      string   `json:"name" bson:"name"`
	Subtopics []string `json:"subtopics,omitempty" bson:"subtopics,omitempty"`
}

type PersonaSnapshot struct {
	ID               string   `json:"id" bson:"id"`
	Name             string   `json:"name" bson:"name"`
	Style            string   `json:"style,omitempty" bson:"style,omitempty"`
	FocusAreas       []string `json:"focus_areas,omitempty" bson:"focus_areas,omitempty"`
	EvaluationWeight float64  `json:"evaluation_weight,omitempty" bson:"evaluation_weight,omitempty"`
}

type RoleSnapshot struct {
	ID           string   `json:"id" bson:"id"`
	Name         string   `json:"name" bson:"name"`
	Level        int      `json:"level,omitempty" bson:"level,omitempty"`
	BaseLevel    string   `json:"base_level,omitempty" bson:"base_level,omitempty"`
	Type         string   `json:"type,omitempty" bson:"type,omitempty"`
	Expectations string   `json:"expectations,omitempty" bson:"expectations,omitempty"`
	FocusTopics  []string `json:"focus_topics,omitempty" bson:"focus_topics,omitempty"`
}

// Session is a live interview. It only exists in the Active state: the
// terminated form (summary, ended_at) is the archive record built at End,
// so a half-terminated session is unrepresentable.
type Session struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	CourseID       string           `json:"course_id"`
	CourseName     string           `json:"course_name"`
	SelectedTopics []string         `json:"selected_topics"`
	Topics         []TopicSnapshot  `json:"topics"`
	Persona        *PersonaSnapshot `json:"persona,omitempty"`
	TargetRole     *RoleSnapshot    `json:"target_role,omitempty"`

	Difficulty *Tracker `json:"-"`
	Metrics    *Metrics `json:"metrics"`

	StartedAt time.Time `json:"started_at"`
	Messages  []Message `json:"messages"`
}

// Append adds one transcript entry, stamping it if the caller did not.
func (s *Session) Append(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	s.Messages = append(s.Messages, msg)
}

// CurrentTopic is the topic of the most recent interviewer message.
func (s *Session) CurrentTopic() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleInterviewer {
			return s.Messages[i].Topic
		}
	}
	return ""
}

// Transcript returns a copy of the message log.
func (s *Session) Transcript() []Message {
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}
