package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/raphaelgruber/secondbrain/internal/service"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string               `json:"error"`
	Details []service.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeValidation(w http.ResponseWriter, fields []service.FieldError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Details: fields})
}

// decodeJSON reads a JSON request body into v. Malformed bodies are reported
// as a validation failure on the body itself.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeValidation(w, []service.FieldError{{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}})
		return false
	}
	return true
}

// handleError maps service errors to HTTP responses. notFound is the message
// used for models.ErrNotFound.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeValidation(w, validationErr.Fields)
	case errors.Is(err, models.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "User already exists with this email")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	default:
		s.logger.Error("request error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
