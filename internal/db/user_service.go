package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/worktime/internal/models"
)

// CreateUserRequest holds the data needed to create a new user
type CreateUserRequest struct {
	Email        string
	Name         string
	PasswordHash string
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts a user, rejecting duplicate emails. The unique index on
// email decides, so two concurrent registrations cannot both succeed
func (s *Store) CreateUser(req CreateUserRequest) (*models.User, error) {
	user := models.User{
		Email:        NormalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: req.PasswordHash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetUserByEmail looks a user up by normalized email
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// TouchLastLogin records a successful login
func (s *Store) TouchLastLogin(user *models.User, at time.Time) error {
	user.LastLogin = &at
	return s.db.Model(user).Update("last_login", at).Error
}
