// Package client provides a REST client for the Second Brain server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/raphaelgruber/secondbrain/internal/service"
)

// ErrUnauthorized is returned for 401 and 403 responses.
var ErrUnauthorized = errors.New("not logged in or session expired")

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// Client is a REST client for the Second Brain server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for baseURL. token may be empty for the signup and
// login calls.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
	Details []service.FieldError
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
	}
	msgs := make([]string, len(e.Details))
	for i, d := range e.Details {
		msgs[i] = d.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(msgs, "; "))
}

// Unwrap lets callers match status classes with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return models.ErrNotFound
	}
	return nil
}

// do sends a JSON request and decodes a JSON response into result when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}
		var payload struct {
			Error   string               `json:"error"`
			Details []service.FieldError `json:"details"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Details = payload.Details
		}
		return apiErr
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// =============================================================================
// AUTH
// =============================================================================

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	User    models.User `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
}

// Signup creates an account.
func (c *Client) Signup(ctx context.Context, input service.SignupInput) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", input, &out)
	return out, err
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, input service.LoginInput) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", input, &out)
	return out, err
}

// Session returns the logged-in account.
func (c *Client) Session(ctx context.Context) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &out)
	return out, err
}

// Refresh returns a new token for the logged-in account.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/refresh", nil, &out)
	return out.Token, err
}

// =============================================================================
// MEMORIES
// =============================================================================

// CreateMemory stores a new memory.
func (c *Client) CreateMemory(ctx context.Context, input models.MemoryInput) (models.Memory, error) {
	var out models.Memory
	err := c.do(ctx, http.MethodPost, "/api/memories", input, &out)
	return out, err
}

// ListMemories returns memories newest first.
func (c *Client) ListMemories(ctx context.Context, opts models.ListOptions) ([]models.Memory, error) {
	q := url.Values{}
	if opts.Tag != "" {
		q.Set("tag", opts.Tag)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/api/memories"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []models.Memory
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMemory fetches one memory.
func (c *Client) GetMemory(ctx context.Context, id string) (models.Memory, error) {
	var out models.Memory
	err := c.do(ctx, http.MethodGet, "/api/memories/"+url.PathEscape(id), nil, &out)
	return out, err
}

// UpdateMemory applies a partial update.
func (c *Client) UpdateMemory(ctx context.Context, id string, patch models.MemoryPatch) (models.Memory, error) {
	var out models.Memory
	err := c.do(ctx, http.MethodPut, "/api/memories/"+url.PathEscape(id), patch, &out)
	return out, err
}

// DeleteMemory removes one memory.
func (c *Client) DeleteMemory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/memories/"+url.PathEscape(id), nil, nil)
}

// CountMemories returns how many memories the account has.
func (c *Client) CountMemories(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, http.MethodGet, "/api/memories/count", nil, &out)
	return out.Count, err
}

// Search runs a keyword search.
func (c *Client) Search(ctx context.Context, query string) (models.SearchResult, error) {
	var out models.SearchResult
	err := c.do(ctx, http.MethodPost, "/api/ai/search", service.SearchRequest{Query: query}, &out)
	return out, err
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
