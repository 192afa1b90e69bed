package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type QuizQuestion struct {
	ID          string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CourseID    string          `gorm:"column:course_id;type:uuid;index" json:"course_id"`
	TopicID     string          `gorm:"column:topic_id;type:uuid;index" json:"topic_id"`
	Text        string          `gorm:"column:text;type:text" json:"text"`
	Choices     datatypes.JSON  `gorm:"column:choices;type:jsonb" json:"choices"`
	Answer      string          `gorm:"column:answer;type:text" json:"answer"`
	Explanation string          `gorm:"column:explanation;type:text" json:"explanation"`
	Difficulty  int             `gorm:"column:difficulty;type:integer;index" json:"difficulty"` // 1-4
	Embedding   pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"-"`
	CreatedAt   time.Time       `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (QuizQuestion) TableName() string { return "quiz_questions" }
