package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/secondbrain/internal/auth"
	"github.com/raphaelgruber/secondbrain/internal/metrics"
	"github.com/raphaelgruber/secondbrain/internal/models"
)

// SignupInput is the payload for creating an account.
type SignupInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// LoginInput is the payload for logging in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService handles accounts and tokens.
type AuthService struct {
	users   UserStore
	hasher  auth.PasswordHasher
	tokens  *auth.TokenIssuer
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users UserStore, hasher auth.PasswordHasher, tokens *auth.TokenIssuer, m *metrics.Collector, log *slog.Logger) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		metrics: m,
		logger:  orDefault(log),
	}
}

// Signup creates an account and returns it with a fresh token.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (user models.User, token string, err error) {
	defer func(start time.Time) { timed(s.metrics, metrics.OpAuth, start, err) }(time.Now())

	input.Name = strings.TrimSpace(input.Name)
	input.Email = models.NormalizeEmail(input.Email)
	if err := Validate(input); err != nil {
		return models.User{}, "", err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return models.User{}, "", err
	}

	user = models.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.InsertUser(ctx, user); err != nil {
		return models.User{}, "", err
	}

	token, _, err = s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, "", err
	}

	s.logger.Info("account created", "user", user.ID)
	return user, token, nil
}

// Login verifies credentials and returns the account with a fresh token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (user models.User, token string, err error) {
	defer func(start time.Time) { timed(s.metrics, metrics.OpAuth, start, err) }(time.Now())

	input.Email = models.NormalizeEmail(input.Email)
	if err := Validate(input); err != nil {
		return models.User{}, "", err
	}

	user, err = s.users.GetUserByEmail(ctx, input.Email)
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", err
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	token, _, err = s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	s.logger.Debug("login", "user", user.ID)
	return user, token, nil
}

// Session returns the account behind an authenticated user id.
func (s *AuthService) Session(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("session: %w", err)
	}
	return user, nil
}

// Refresh issues a new token for an existing account.
func (s *AuthService) Refresh(ctx context.Context, userID string) (string, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	token, _, err := s.tokens.Issue(userID)
	return token, err
}

// Authenticate validates a bearer token and returns its user id.
// Errors are auth.ErrMissingToken, auth.ErrInvalidToken or auth.ErrExpiredToken.
func (s *AuthService) Authenticate(token string) (string, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
