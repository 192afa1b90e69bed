package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quizmentor/quizmentor/internal/interview"
)

// InterviewRecord is the archived form of a terminated session. It is built
// exactly once, at the End transition, and written to Mongo before the live
// session leaves the registry.
type InterviewRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	UserID    string             `bson:"user_id" json:"user_id"`

	CourseID       string                     `bson:"course_id" json:"course_id"`
	CourseName     string                     `bson:"course_name" json:"course_name"`
	SelectedTopics []string                   `bson:"selected_topics" json:"selected_topics"`
	Topics         []interview.TopicSnapshot  `bson:"topics" json:"topics"`
	Persona        *interview.PersonaSnapshot `bson:"persona,omitempty" json:"persona,omitempty"`
	TargetRole     *interview.RoleSnapshot    `bson:"target_role,omitempty" json:"target_role,omitempty"`

	Messages []interview.Message `bson:"messages" json:"messages"`
	Summary  interview.Summary   `bson:"summary" json:"summary"`

	DifficultyLevel   int                    `bson:"difficulty_level" json:"difficulty_level"`
	DifficultyName    string                 `bson:"difficulty_name" json:"difficulty_name"`
	DifficultyHistory []interview.Adjustment `bson:"difficulty_history,omitempty" json:"difficulty_history,omitempty"`

	QuestionCount int            `bson:"question_count" json:"question_count"`
	SkippedCount  int            `bson:"skipped_count" json:"skipped_count"`
	SkipsPerTopic map[string]int `bson:"skips_per_topic,omitempty" json:"skips_per_topic,omitempty"`
	Duration      string         `bson:"duration" json:"duration"`

	StartedAt time.Time `bson:"started_at" json:"started_at"`
	EndedAt   time.Time `bson:"ended_at" json:"ended_at"`
}
