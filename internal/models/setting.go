package models

import (
	"time"

	"gorm.io/datatypes"
)

type Setting struct {
	Key       string         `gorm:"column:key;type:text;primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"column:value;type:jsonb" json:"value"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }
