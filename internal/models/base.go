package models

import (
	"time"

	"gorm.io/gorm"
)

// Base contains common columns for all soft-deletable tables. IDs are
// auto-incremented so that insertion order doubles as the tie-breaker for
// rankings.
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
