package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// fieldError is one entry of a 400 {"errors": [...]} body
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// decodeJSON decodes the request body. An empty body decodes as {}
func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func writeValidation(w http.ResponseWriter, errs []fieldError) {
	writeJSON(w, http.StatusBadRequest, map[string][]fieldError{"errors": errs})
}

// writeDecodeError reports a body that is not valid JSON for the request,
// naming the field when the decoder knows it
func writeDecodeError(w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		writeValidation(w, []fieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type),
		}})
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request body")
}

// serverError logs the cause and answers 500 with a summary only
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, summary string, err error) {
	s.log.WithError(err).
		WithField("request_id", middleware.GetReqID(r.Context())).
		Error(summary)
	writeError(w, http.StatusInternalServerError, summary)
}
