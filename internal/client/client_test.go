package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raphaelgruber/secondbrain/internal/auth"
	"github.com/raphaelgruber/secondbrain/internal/localstore"
	"github.com/raphaelgruber/secondbrain/internal/metrics"
	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/raphaelgruber/secondbrain/internal/server"
	"github.com/raphaelgruber/secondbrain/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// startServer runs the real API against a temp SQLite store.
func startServer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	store, err := localstore.Open(ctx, filepath.Join(t.TempDir(), "api.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{Secret: "test", Issuer: "secondbrain", TTL: time.Hour})
	require.NoError(t, err)

	m := metrics.NewCollector()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := server.New(server.Deps{
		Auth:     service.NewAuthService(store, auth.NewPasswordHasher(bcrypt.MinCost), tokens, m, logger),
		Memories: service.NewMemoryService(store, m, logger),
		Search:   service.NewSearchService(store, m, logger),
		Metrics:  m,
		Logger:   logger,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	baseURL := startServer(t)

	anon := New(baseURL+"/", "")
	require.NoError(t, anon.Health(ctx))

	signup, err := anon.Signup(ctx, service.SignupInput{Name: "Cli User", Email: "cli@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Account created successfully", signup.Message)

	login, err := anon.Login(ctx, service.LoginInput{Email: "cli@example.com", Password: "secret1"})
	require.NoError(t, err)

	c := New(baseURL, login.Token)

	user, err := c.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, user.ID)

	refreshed, err := c.Refresh(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed)

	created, err := c.CreateMemory(ctx, models.MemoryInput{Title: "Python decorators", Content: "Wrap functions", Tags: []string{"python"}})
	require.NoError(t, err)
	_, err = c.CreateMemory(ctx, models.MemoryInput{Title: "Go interfaces", Content: "Implicit", Tags: []string{"go"}})
	require.NoError(t, err)

	tagged, err := c.ListMemories(ctx, models.ListOptions{Tag: "pyth"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, created.ID, tagged[0].ID)

	recent, err := c.ListMemories(ctx, models.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Go interfaces", recent[0].Title)

	title := "Python decorators explained"
	updated, err := c.UpdateMemory(ctx, created.ID, models.MemoryPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	got, err := c.GetMemory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)

	result, err := c.Search(ctx, "decorators")
	require.NoError(t, err)
	require.Len(t, result.References, 1)

	n, err := c.CountMemories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, c.DeleteMemory(ctx, created.ID))
	_, err = c.GetMemory(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()
	baseURL := startServer(t)

	_, err := New(baseURL, "").Session(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = New(baseURL, "forged").Session(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = New(baseURL, "").Signup(ctx, service.SignupInput{Name: "X", Email: "bad", Password: "1"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Validation failed", apiErr.Message)
	assert.Len(t, apiErr.Details, 3)
	assert.Contains(t, apiErr.Error(), "name must be at least 2 characters")
}

func TestAPIErrorWithoutJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer ts.Close()

	err := New(ts.URL, "").Health(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "502 Bad Gateway (HTTP 502)", apiErr.Error())
}

func TestCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "credentials.yaml")

	_, err := LoadCredentials(path)
	assert.ErrorIs(t, err, ErrNoCredentials)

	saved := Credentials{
		ServerURL: "http://localhost:3001",
		Token:     "tok",
		UserID:    "u1",
		Email:     "a@example.com",
		Name:      "A",
		SavedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, SaveCredentials(path, saved))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	require.NoError(t, DeleteCredentials(path))
	require.NoError(t, DeleteCredentials(path), "deleting twice is fine")
	_, err = LoadCredentials(path)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestLoadCredentialsWithoutToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://x\n"), 0o600))

	_, err := LoadCredentials(path)
	assert.ErrorIs(t, err, ErrNoCredentials)
}
