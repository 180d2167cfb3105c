// Package service implements the Second Brain use cases on top of a store:
// account signup and login, memory CRUD scoped to the owning user, and
// keyword search.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/raphaelgruber/secondbrain/internal/metrics"
	"github.com/raphaelgruber/secondbrain/internal/models"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore persists accounts.
type UserStore interface {
	InsertUser(ctx context.Context, u models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// MemoryStore persists memories. Every call is scoped to the owner's id and
// reports models.ErrNotFound for ids the owner does not have.
type MemoryStore interface {
	InsertMemory(ctx context.Context, userID string, m models.Memory) error
	ListMemories(ctx context.Context, userID string) ([]models.Memory, error)
	GetMemory(ctx context.Context, userID, id string) (models.Memory, error)
	UpdateMemory(ctx context.Context, userID string, m models.Memory) error
	DeleteMemory(ctx context.Context, userID, id string) error
	DeleteAllMemories(ctx context.Context, userID string) (int, error)
	CountMemories(ctx context.Context, userID string) (int, error)
}

// Store is implemented by both db.Client and localstore.Store.
type Store interface {
	UserStore
	MemoryStore
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks a struct's validate tags and returns a *ValidationError
// describing every failure.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	fields := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, FieldError{Field: e.Field(), Message: formatFieldError(e)})
	}
	return &ValidationError{Fields: fields}
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// timed records the duration and outcome of an operation.
func timed(m *metrics.Collector, op string, start time.Time, err error) {
	m.RecordTiming(op, time.Since(start), err)
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
