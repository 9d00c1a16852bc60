package api

import (
	"time"

	"github.com/balkashynov/worktime/internal/models"
)

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type authResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

type projectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       string    `json:"color"`
	IsArchived  bool      `json:"isArchived"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// projectRef is the project summary embedded in a session
type projectRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type sessionResponse struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	WorkType        string      `json:"workType"`
	StartTime       time.Time   `json:"startTime"`
	EndTime         time.Time   `json:"endTime"`
	DurationSeconds int         `json:"durationSeconds"`
	ProjectID       *string     `json:"projectId"`
	Project         *projectRef `json:"project"`
	Notes           *string     `json:"notes"`
	CreatedAt       time.Time   `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.UTC(),
		LastLogin: u.LastLogin,
	}
}

func toProjectResponse(p *models.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
		IsArchived:  p.IsArchived,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

func toSessionResponse(s *models.Session) sessionResponse {
	resp := sessionResponse{
		ID:              s.ID,
		Name:            s.Name,
		WorkType:        s.WorkType,
		StartTime:       s.StartTime.UTC(),
		EndTime:         s.EndTime.UTC(),
		DurationSeconds: s.DurationSeconds,
		ProjectID:       s.ProjectID,
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt.UTC(),
	}
	if s.Project != nil {
		resp.Project = &projectRef{ID: s.Project.ID, Name: s.Project.Name, Color: s.Project.Color}
	}
	return resp
}
