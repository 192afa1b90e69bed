package models

import "github.com/lib/pq"

// Persona is an interviewer personality preset.
type Persona struct {
	ID               string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name             string         `gorm:"column:name;type:text" json:"name"`
	Style            string         `gorm:"column:style;type:text" json:"style"`
	FocusAreas       pq.StringArray `gorm:"column:focus_areas;type:text[]" json:"focus_areas"`
	EvaluationWeight float64        `gorm:"column:evaluation_weight;type:double precision" json:"evaluation_weight"`
}

func (Persona) TableName() string { return "personas" }

// TargetRole is the position the learner interviews for. Level 1-4 maps to
// Junior/Mid/Senior/Lead; BaseLevel is the legacy string form.
type TargetRole struct {
	ID           string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CourseID     *string        `gorm:"column:course_id;type:uuid;index" json:"course_id,omitempty"`
	Name         string         `gorm:"column:name;type:text" json:"name"`
	Level        int            `gorm:"column:level;type:integer" json:"level"`
	BaseLevel    string         `gorm:"column:base_level;type:text" json:"base_level"`
	Type         string         `gorm:"column:type;type:text" json:"type"`
	Expectations string         `gorm:"column:expectations;type:text" json:"expectations"`
	FocusTopics  pq.StringArray `gorm:"column:focus_topics;type:text[]" json:"focus_topics"`
}

func (TargetRole) TableName() string { return "target_roles" }
