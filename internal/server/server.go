// Package server exposes the Second Brain services over a JSON REST API.
package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/raphaelgruber/secondbrain/internal/auth"
	"github.com/raphaelgruber/secondbrain/internal/metrics"
	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/raphaelgruber/secondbrain/internal/service"
)

// Deps are the collaborators a Server routes requests to.
type Deps struct {
	Auth        *service.AuthService
	Memories    *service.MemoryService
	Search      *service.SearchService
	Metrics     *metrics.Collector
	Logger      *slog.Logger
	CORSOrigins []string
}

// Server holds the HTTP handlers.
type Server struct {
	auth        *service.AuthService
	memories    *service.MemoryService
	search      *service.SearchService
	metrics     *metrics.Collector
	logger      *slog.Logger
	corsOrigins []string
}

// New creates a server from its dependencies.
func New(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		auth:        d.Auth,
		memories:    d.Memories,
		search:      d.Search,
		metrics:     d.Metrics,
		logger:      logger,
		corsOrigins: d.CORSOrigins,
	}
}

// Handler builds the router with all middleware and routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(LoggingMiddleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)
	r.Get("/stats", s.stats)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.signup)
			r.Post("/login", s.login)
			r.With(s.requireAuth).Get("/session", s.session)
			r.With(s.requireAuth).Post("/refresh", s.refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/memories", func(r chi.Router) {
				r.Get("/", s.listMemories)
				r.Post("/", s.createMemory)
				r.Get("/count", s.countMemories)
				r.Get("/{id}", s.getMemory)
				r.Put("/{id}", s.updateMemory)
				r.Delete("/{id}", s.deleteMemory)
			})

			r.Post("/ai/search", s.searchMemories)
		})
	})

	return r
}

// userID returns the id stored by requireAuth.
func userID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

// =============================================================================
// AUTH
// =============================================================================

type authResponse struct {
	User    models.User `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var input service.SignupInput
	if !decodeJSON(w, r, &input) {
		return
	}
	user, token, err := s.auth.Signup(r.Context(), input)
	if err != nil {
		s.handleError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token, Message: "Account created successfully"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}
	user, token, err := s.auth.Login(r.Context(), input)
	if err != nil {
		s.handleError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token, Message: "Logged in successfully"})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Session(r.Context(), userID(r))
	if err != nil {
		s.handleError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	token, err := s.auth.Refresh(r.Context(), userID(r))
	if err != nil {
		s.handleError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// =============================================================================
// MEMORIES
// =============================================================================

const memoryNotFound = "Memory not found"

func (s *Server) listMemories(w http.ResponseWriter, r *http.Request) {
	opts := models.ListOptions{Tag: strings.TrimSpace(r.URL.Query().Get("tag"))}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeValidation(w, []service.FieldError{{Field: "limit", Message: "limit must be a non-negative integer"}})
			return
		}
		opts.Limit = limit
	}

	memories, err := s.memories.List(r.Context(), userID(r), opts)
	if err != nil {
		s.handleError(w, r, err, memoryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, memories)
}

func (s *Server) createMemory(w http.ResponseWriter, r *http.Request) {
	var input models.MemoryInput
	if !decodeJSON(w, r, &input) {
		return
	}
	m, err := s.memories.Create(r.Context(), userID(r), input)
	if err != nil {
		s.handleError(w, r, err, memoryNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) countMemories(w http.ResponseWriter, r *http.Request) {
	n, err := s.memories.Count(r.Context(), userID(r))
	if err != nil {
		s.handleError(w, r, err, memoryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (s *Server) getMemory(w http.ResponseWriter, r *http.Request) {
	m, err := s.memories.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err, memoryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) updateMemory(w http.ResponseWriter, r *http.Request) {
	var patch models.MemoryPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	m, err := s.memories.Update(r.Context(), userID(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.handleError(w, r, err, memoryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) deleteMemory(w http.ResponseWriter, r *http.Request) {
	if err := s.memories.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.handleError(w, r, err, memoryNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SEARCH
// =============================================================================

func (s *Server) searchMemories(w http.ResponseWriter, r *http.Request) {
	var req service.SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := service.Validate(req); err != nil {
		s.handleError(w, r, err, memoryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.search.Search(r.Context(), userID(r), req.Query))
}
