package client

import "time"

// Requests use snake_case, responses camelCase

type wireProjectRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type wireSession struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	WorkType        string          `json:"workType"`
	StartTime       time.Time       `json:"startTime"`
	EndTime         time.Time       `json:"endTime"`
	DurationSeconds int             `json:"durationSeconds"`
	ProjectID       *string         `json:"projectId"`
	Project         *wireProjectRef `json:"project"`
	Notes           *string         `json:"notes"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type wireNewSession struct {
	Name            string  `json:"name"`
	WorkType        string  `json:"work_type"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationSeconds int     `json:"duration_seconds"`
	ProjectID       *string `json:"project_id,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type wireProject struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       string    `json:"color"`
	IsArchived  bool      `json:"isArchived"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type wireNewProject struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

type wireProjectUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	IsArchived  *bool   `json:"is_archived,omitempty"`
}

type wireAuth struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

func toSession(w wireSession) Session {
	s := Session{
		ID:              w.ID,
		Name:            w.Name,
		WorkType:        w.WorkType,
		StartTime:       w.StartTime,
		EndTime:         w.EndTime,
		DurationSeconds: w.DurationSeconds,
		ProjectID:       w.ProjectID,
		Notes:           w.Notes,
		CreatedAt:       w.CreatedAt,
	}
	if w.Project != nil {
		s.Project = &ProjectRef{ID: w.Project.ID, Name: w.Project.Name, Color: w.Project.Color}
		if s.ProjectID == nil {
			id := w.Project.ID
			s.ProjectID = &id
		}
	}
	return s
}

func fromNewSession(s NewSession) wireNewSession {
	return wireNewSession{
		Name:            s.Name,
		WorkType:        s.WorkType,
		StartTime:       s.StartTime.UTC().Format(time.RFC3339Nano),
		EndTime:         s.EndTime.UTC().Format(time.RFC3339Nano),
		DurationSeconds: s.DurationSeconds,
		ProjectID:       optional(s.ProjectID),
		Notes:           optional(s.Notes),
	}
}

func toProject(w wireProject) Project {
	return Project{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Color:       w.Color,
		IsArchived:  w.IsArchived,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func fromNewProject(p NewProject) wireNewProject {
	return wireNewProject{
		Name:        p.Name,
		Description: optional(p.Description),
		Color:       optional(p.Color),
	}
}

func fromProjectUpdate(u ProjectUpdate) wireProjectUpdate {
	return wireProjectUpdate{
		Name:        u.Name,
		Description: u.Description,
		Color:       u.Color,
		IsArchived:  u.IsArchived,
	}
}

func toAuthResult(w wireAuth) *AuthResult {
	return &AuthResult{Message: w.Message, Token: w.Token, User: w.User}
}

// optional maps "" to an omitted field
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
