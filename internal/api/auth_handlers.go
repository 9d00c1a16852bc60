package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/balkashynov/worktime/internal/auth"
	"github.com/balkashynov/worktime/internal/db"
	"github.com/balkashynov/worktime/internal/models"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,bcryptmax"`
	Name     string `json:"name" validate:"required"`
}

var registerMessages = validationMessages{
	"email":              "Valid email is required",
	"password":           "Password must be at least 6 characters",
	"password.bcryptmax": "Password must be at most 72 characters",
	"name":               "Name is required",
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var loginMessages = validationMessages{
	"email":    "Valid email is required",
	"password": "Password is required",
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	req.Email = db.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if errs := s.check(&req, registerMessages); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.serverError(w, r, "Failed to register user", err)
		return
	}

	user, err := s.store.CreateUser(db.CreateUserRequest{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		s.serverError(w, r, "Failed to register user", err)
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.serverError(w, r, "Failed to register user", err)
		return
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	writeJSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		User:    toUserResponse(user),
		Token:   token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	req.Email = db.NormalizeEmail(req.Email)
	if errs := s.check(&req, loginMessages); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	user, err := s.store.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.rejectLogin(w)
			return
		}
		s.serverError(w, r, "Failed to login", err)
		return
	}

	// Same message for unknown email and wrong password
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.rejectLogin(w)
		return
	}

	if err := s.store.TouchLastLogin(user, s.now().UTC()); err != nil {
		s.serverError(w, r, "Failed to login", err)
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.serverError(w, r, "Failed to login", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		User:    toUserResponse(user),
		Token:   token,
	})
}

func (s *Server) rejectLogin(w http.ResponseWriter) {
	s.metrics.authFailures.WithLabelValues("invalid_credentials").Inc()
	writeError(w, http.StatusUnauthorized, "Invalid email or password")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(userID(r))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.serverError(w, r, "Failed to get user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(user)})
}

func (s *Server) issueToken(user *models.User) (string, error) {
	return auth.NewToken(s.cfg.JWTSecret, s.cfg.TokenTTL, user.ID, user.Email)
}
