package db

import (
	"fmt"
	"strings"

	"github.com/balkashynov/worktime/internal/models"
)

// CreateProjectRequest holds the data needed to create a new project
type CreateProjectRequest struct {
	UserID      string
	Name        string
	Description *string
	Color       string
}

// UpdateProjectRequest is a partial update; nil fields are left alone
type UpdateProjectRequest struct {
	Name        *string
	Description *string
	Color       *string
	IsArchived  *bool
}

// CreateProject creates a new project for a user
func (s *Store) CreateProject(req CreateProjectRequest) (*models.Project, error) {
	project := models.Project{
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: trimmed(req.Description),
		Color:       req.Color,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return &project, nil
}

// ListProjects returns a user's projects, newest first
func (s *Store) ListProjects(userID string, includeArchived bool) ([]models.Project, error) {
	var projects []models.Project

	query := s.db.Where("user_id = ?", userID)
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}

	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

// GetProject retrieves one of the user's projects
func (s *Store) GetProject(userID, id string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&project).Error; err != nil {
		return nil, notFound(err)
	}
	return &project, nil
}

// UpdateProject applies a partial update to one of the user's projects
func (s *Store) UpdateProject(userID, id string, req UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetProject(userID, id)
	if err != nil {
		return nil, err
	}

	// Build the update set from the fields that were provided
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = trimmed(req.Description)
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.IsArchived != nil {
		updates["is_archived"] = *req.IsArchived
	}

	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	if err := s.db.Model(project).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetProject(userID, id)
}

// ArchiveProject marks a project archived. Projects are never hard deleted
func (s *Store) ArchiveProject(userID, id string) (*models.Project, error) {
	archived := true
	project, err := s.UpdateProject(userID, id, UpdateProjectRequest{IsArchived: &archived})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// trimmed trims an optional string, mapping blank to nil
func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
