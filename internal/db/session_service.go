package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/worktime/internal/models"
)

const (
	// DefaultSessionLimit is the page size when the caller sends none
	DefaultSessionLimit = 50
	// MaxSessionLimit caps a single page
	MaxSessionLimit = 100
)

// CreateSessionRequest holds the data needed to persist a completed session
type CreateSessionRequest struct {
	UserID          string
	ProjectID       *string
	Name            string
	WorkType        string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int
	Notes           *string
}

// SessionQueryOptions pages and filters a session listing
type SessionQueryOptions struct {
	Limit    int
	Offset   int
	WorkType string
	From     *time.Time // inclusive lower bound on start_time
	To       *time.Time // inclusive upper bound on start_time
}

// CreateSession stores a completed session. A project, when given, must
// belong to the same user or ErrNotFound is returned
func (s *Store) CreateSession(req CreateSessionRequest) (*models.Session, error) {
	// If a project is given, verify it belongs to the user
	var project *models.Project
	if req.ProjectID != nil && *req.ProjectID != "" {
		p, err := s.GetProject(req.UserID, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		project = p
	} else {
		req.ProjectID = nil
	}

	session := models.Session{
		UserID:          req.UserID,
		ProjectID:       req.ProjectID,
		Name:            strings.TrimSpace(req.Name),
		WorkType:        strings.TrimSpace(req.WorkType),
		StartTime:       req.StartTime.UTC(),
		EndTime:         req.EndTime.UTC(),
		DurationSeconds: req.DurationSeconds,
		Notes:           trimmed(req.Notes),
	}

	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.Project = project

	return &session, nil
}

// ListSessions returns a page of the user's sessions, most recent first,
// with the owning project loaded
func (s *Store) ListSessions(userID string, opts SessionQueryOptions) ([]models.Session, error) {
	var sessions []models.Session

	if opts.Limit <= 0 {
		opts.Limit = DefaultSessionLimit
	}
	if opts.Limit > MaxSessionLimit {
		opts.Limit = MaxSessionLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	query := s.db.Where("user_id = ?", userID)
	if opts.WorkType != "" {
		query = query.Where("work_type = ?", opts.WorkType)
	}
	if opts.From != nil {
		query = query.Where("start_time >= ?", opts.From.UTC())
	}
	if opts.To != nil {
		query = query.Where("start_time <= ?", opts.To.UTC())
	}

	err := query.
		Preload("Project").
		Order("start_time DESC").
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// GetSession retrieves one of the user's sessions
func (s *Store) GetSession(userID, id string) (*models.Session, error) {
	var session models.Session
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).Preload("Project").First(&session).Error; err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

// DeleteSession hard deletes one of the user's sessions
func (s *Store) DeleteSession(userID, id string) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
