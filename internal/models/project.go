package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultProjectColor is used when a project is created without a color
const DefaultProjectColor = "#00E599"

// Project groups sessions. Projects are archived, never deleted
type Project struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID      string  `gorm:"not null;index" json:"user_id"`
	Name        string  `gorm:"not null" json:"name"`
	Description *string `json:"description"`
	Color       string  `gorm:"not null" json:"color"`
	IsArchived  bool    `gorm:"not null;default:false" json:"is_archived"`
}

// BeforeCreate assigns a UUID and the default color
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Color == "" {
		p.Color = DefaultProjectColor
	}
	return nil
}
