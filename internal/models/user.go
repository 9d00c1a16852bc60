package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that owns projects and sessions
type User struct {
	ID        string     `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`

	// Relationships
	Projects []Project `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Sessions []Session `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not set one
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
