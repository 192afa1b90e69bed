package models

import (
	"time"

	"gorm.io/datatypes"
)

// PerformanceRecord is one scored activity: a finished interview or a quiz
// submission.
type PerformanceRecord struct {
	ID              string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID          string         `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	CourseID        string         `gorm:"column:course_id;type:uuid;index" json:"course_id"`
	Kind            string         `gorm:"column:kind;type:text" json:"kind"` // interview|quiz
	Score           float64        `gorm:"column:score;type:double precision" json:"score"`
	DifficultyLevel int            `gorm:"column:difficulty_level;type:integer" json:"difficulty_level"`
	QuestionCount   int            `gorm:"column:question_count;type:integer" json:"question_count"`
	SkippedCount    int            `gorm:"column:skipped_count;type:integer" json:"skipped_count"`
	DurationSeconds int64          `gorm:"column:duration_seconds;type:bigint" json:"duration_seconds"`
	Breakdown       datatypes.JSON `gorm:"column:breakdown;type:jsonb" json:"breakdown,omitempty"`
	TakenAt         time.Time      `gorm:"column:taken_at;type:timestamptz;index" json:"taken_at"`
}

func (PerformanceRecord) TableName() string { return "performance_records" }
