package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/balkashynov/worktime/internal/db"
)

type createProjectRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitnil,hexcolor6"`
}

type updateProjectRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitnil,hexcolor6"`
	IsArchived  *bool   `json:"is_archived"`
}

var projectMessages = validationMessages{
	"name":        "Project name is required",
	"name.min":    "Project name cannot be empty",
	"color":       "Color must be a valid hex code",
	"is_archived": "is_archived must be a boolean",
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if errs := s.check(&req, projectMessages); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	color := ""
	if req.Color != nil {
		color = *req.Color
	}
	project, err := s.store.CreateProject(db.CreateProjectRequest{
		UserID:      userID(r),
		Name:        req.Name,
		Description: req.Description,
		Color:       color,
	})
	if err != nil {
		s.serverError(w, r, "Failed to create project", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Project created successfully",
		"project": toProjectResponse(project),
	})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") != "false"

	projects, err := s.store.ListProjects(userID(r), includeArchived)
	if err != nil {
		s.serverError(w, r, "Failed to get projects", err)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, toProjectResponse(&projects[i]))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects": out,
		"count":    len(out),
	})
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if errs := s.check(&req, projectMessages); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	project, err := s.store.UpdateProject(userID(r), chi.URLParam(r, "id"), db.UpdateProjectRequest{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		IsArchived:  req.IsArchived,
	})
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			writeError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, db.ErrNoUpdates):
			writeError(w, http.StatusBadRequest, "No updates provided")
		default:
			s.serverError(w, r, "Failed to update project", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Project updated successfully",
		"project": toProjectResponse(project),
	})
}

// handleArchiveProject serves DELETE. Projects are archived, never removed
func (s *Server) handleArchiveProject(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ArchiveProject(userID(r), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		s.serverError(w, r, "Failed to delete project", err)
		return
	}

	writeMessage(w, "Project archived successfully")
}
