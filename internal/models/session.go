package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session represents a completed work session
type Session struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID          string    `gorm:"not null;index" json:"user_id"`
	ProjectID       *string   `gorm:"index" json:"project_id"`
	Name            string    `gorm:"not null" json:"name"`
	WorkType        string    `gorm:"not null;index" json:"work_type"`
	StartTime       time.Time `gorm:"not null;index" json:"start_time"`
	EndTime         time.Time `gorm:"not null" json:"end_time"`
	DurationSeconds int       `gorm:"not null" json:"duration_seconds"`
	Notes           *string   `json:"notes"`

	// Relationships
	Project *Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"project,omitempty"`
}

// BeforeCreate assigns a UUID when the caller did not set one
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
