package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/balkashynov/worktime/internal/auth"
	"github.com/balkashynov/worktime/internal/config"
	"github.com/balkashynov/worktime/internal/db"
)

// Server serves the worktime REST API
type Server struct {
	cfg      config.ServerConfig
	store    *db.Store
	log      *logrus.Logger
	validate *validator.Validate
	metrics  *metrics
	now      func() time.Time
}

func NewServer(cfg config.ServerConfig, store *db.Store, log *logrus.Logger) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		log:      log,
		validate: newValidator(),
		metrics:  newMetrics(),
		now:      time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.handler())
	r.Get("/api", s.handleInfo)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.authMiddleware).Get("/me", s.handleMe)
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)
		r.Get("/{id}", s.handleGetSession)
		r.Delete("/{id}", s.handleDeleteSession)
	})

	r.Route("/api/projects", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/", s.handleCreateProject)
		r.Get("/", s.handleListProjects)
		r.Put("/{id}", s.handleUpdateProject)
		r.Delete("/{id}", s.handleArchiveProject)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	now := s.now().UTC().Format(time.RFC3339)
	if err := s.store.Ping(); err != nil {
		s.log.WithError(err).Warn("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":    "unhealthy",
			"timestamp": now,
			"database":  "disconnected",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": now,
		"database":  "connected",
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "WorkTime API v1.0",
		"endpoints": map[string]string{
			"health":   "/health",
			"metrics":  "/metrics",
			"auth":     "/api/auth/*",
			"sessions": "/api/sessions",
			"projects": "/api/projects",
		},
	})
}

// requestLogger logs one line per request and feeds the request metrics
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		s.metrics.observeRequest(r.Method, route, status, elapsed)

		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     status,
			"bytes":      ww.BytesWritten(),
			"duration":   elapsed.String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("request")
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			s.metrics.authFailures.WithLabelValues("missing_token").Inc()
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := auth.ParseToken(s.cfg.JWTSecret, token)
		if err != nil {
			s.metrics.authFailures.WithLabelValues("invalid_token").Inc()
			s.log.WithError(err).Debug("rejected bearer token")
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

// userID returns the authenticated user id. Only valid behind authMiddleware
func userID(r *http.Request) string {
	if claims := claimsFromContext(r.Context()); claims != nil {
		return claims.UserID
	}
	return ""
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
