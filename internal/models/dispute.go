package models

import (
	"time"

	"gorm.io/datatypes"
)

type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "open"
	DisputeResolved DisputeStatus = "resolved"
	DisputeRejected DisputeStatus = "rejected"
)

// Dispute is a learner's challenge against a question or its grading.
type Dispute struct {
	ID         string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     string         `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	QuestionID string         `gorm:"column:question_id;type:uuid;index" json:"question_id"`
	Reason     string         `gorm:"column:reason;type:text" json:"reason"`
	Context    datatypes.JSON `gorm:"column:context;type:jsonb" json:"context,omitempty"`
	Status     DisputeStatus  `gorm:"column:status;type:text;index" json:"status"`
	Resolution string         `gorm:"column:resolution;type:text" json:"resolution,omitempty"`

	AttachmentPath string `gorm:"column:attachment_path;type:text" json:"attachment_path,omitempty"`
	AttachmentName string `gorm:"column:attachment_name;type:text" json:"attachment_name,omitempty"`

	CreatedAt  time.Time  `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	ResolvedAt *time.Time `gorm:"column:resolved_at;type:timestamptz" json:"resolved_at,omitempty"`
}

func (Dispute) TableName() string { return "disputes" }
