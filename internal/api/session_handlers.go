package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/balkashynov/worktime/internal/db"
)

// durationTolerance is how far duration_seconds may drift from end - start
const durationTolerance = 2 * time.Second

type createSessionRequest struct {
	Name            string  `json:"name" validate:"required"`
	WorkType        string  `json:"work_type" validate:"required"`
	StartTime       string  `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime         string  `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationSeconds int     `json:"duration_seconds" validate:"min=1"`
	ProjectID       *string `json:"project_id" validate:"omitempty,uuid"`
	Notes           *string `json:"notes"`
}

var sessionMessages = validationMessages{
	"name":             "Session name is required",
	"work_type":        "Work type is required",
	"start_time":       "Valid start time is required",
	"end_time":         "Valid end time is required",
	"duration_seconds": "Duration must be a positive number",
	"project_id":       "Project ID must be a valid UUID",
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.WorkType = strings.TrimSpace(req.WorkType)
	if errs := s.check(&req, sessionMessages); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	// Formats were checked above
	start, _ := time.Parse(rfc3339, req.StartTime)
	end, _ := time.Parse(rfc3339, req.EndTime)
	if errs := checkSessionSpan(start, end, req.DurationSeconds); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	session, err := s.store.CreateSession(db.CreateSessionRequest{
		UserID:          userID(r),
		ProjectID:       req.ProjectID,
		Name:            req.Name,
		WorkType:        req.WorkType,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: req.DurationSeconds,
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Project not found or does not belong to you")
			return
		}
		s.serverError(w, r, "Failed to create session", err)
		return
	}

	s.metrics.sessionsCreated.Inc()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Session created successfully",
		"session": toSessionResponse(session),
	})
}

// checkSessionSpan enforces end > start and a duration that matches the span
func checkSessionSpan(start, end time.Time, durationSeconds int) []fieldError {
	if !end.After(start) {
		return []fieldError{{Field: "end_time", Message: "End time must be after start time"}}
	}
	drift := end.Sub(start) - time.Duration(durationSeconds)*time.Second
	if drift < 0 {
		drift = -drift
	}
	if drift > durationTolerance {
		return []fieldError{{Field: "duration_seconds", Message: "Duration must match the start and end time"}}
	}
	return nil
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	opts, errs := parseSessionQuery(r.URL.Query())
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	sessions, err := s.store.ListSessions(userID(r), opts)
	if err != nil {
		s.serverError(w, r, "Failed to get sessions", err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionResponse(&sessions[i]))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": out,
		"count":    len(out),
		"limit":    opts.Limit,
		"offset":   opts.Offset,
	})
}

// parseSessionQuery reads limit, offset, work_type, from and to
func parseSessionQuery(q url.Values) (db.SessionQueryOptions, []fieldError) {
	opts := db.SessionQueryOptions{Limit: db.DefaultSessionLimit}
	var errs []fieldError

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > db.MaxSessionLimit {
			errs = append(errs, fieldError{Field: "limit", Message: "Limit must be between 1 and 100"})
		} else {
			opts.Limit = limit
		}
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			errs = append(errs, fieldError{Field: "offset", Message: "Offset must be zero or more"})
		} else {
			opts.Offset = offset
		}
	}
	opts.WorkType = strings.TrimSpace(q.Get("work_type"))

	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{{"from", &opts.From}, {"to", &opts.To}} {
		raw := q.Get(bound.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs = append(errs, fieldError{Field: bound.name, Message: bound.name + " must be an RFC3339 timestamp"})
			continue
		}
		*bound.dst = &t
	}

	return opts, errs
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.GetSession(userID(r), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		s.serverError(w, r, "Failed to get session", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]sessionResponse{"session": toSessionResponse(session)})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSession(userID(r), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		s.serverError(w, r, "Failed to delete session", err)
		return
	}

	writeMessage(w, "Session deleted successfully")
}
