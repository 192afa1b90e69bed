package models

import (
	"time"

	"github.com/lib/pq"
)

type Course struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:text" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Course) TableName() string { return "courses" }

type Topic struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CourseID  string         `gorm:"column:course_id;type:uuid;index" json:"course_id"`
	Name      string         `gorm:"column:name;type:text" json:"name"`
	Subtopics pq.StringArray `gorm:"column:subtopics;type:text[]" json:"subtopics"`
	Position  int            `gorm:"column:position;type:integer" json:"position"`
}

func (Topic) TableName() string { return "topics" }
