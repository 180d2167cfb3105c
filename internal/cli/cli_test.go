package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/raphaelgruber/secondbrain/internal/auth"
	"github.com/raphaelgruber/secondbrain/internal/client"
	"github.com/raphaelgruber/secondbrain/internal/localstore"
	"github.com/raphaelgruber/secondbrain/internal/metrics"
	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/raphaelgruber/secondbrain/internal/server"
	"github.com/raphaelgruber/secondbrain/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var savedID = regexp.MustCompile(`\(([0-9a-f-]{36})\)`)

// setupEnv points every file the CLI touches into a temp dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SECONDBRAIN_GUEST_DB", filepath.Join(dir, "guest.db"))
	t.Setenv("SECONDBRAIN_LOG_FILE", filepath.Join(dir, "cli.log"))
	t.Setenv("SECONDBRAIN_CREDENTIALS", filepath.Join(dir, "credentials.yaml"))

	orig := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = orig })
	return dir
}

// resetFlags restores every flag to its default so package-level flag vars
// do not leak between invocations.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI with args, feeding input to prompts.
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	// PersistentPostRun is skipped when RunE fails.
	if guest != nil {
		_ = guest.Close(context.Background())
		guest, store = nil, nil
	}
	if closeLog != nil {
		_ = closeLog()
		closeLog = nil
	}
	return out.String(), err
}

func mustRun(t *testing.T, input string, args ...string) string {
	t.Helper()
	out, err := run(t, input, args...)
	require.NoError(t, err, "secondbrain %s", strings.Join(args, " "))
	return out
}

func TestGuestFlow(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "", "--guest", "list")
	assert.Contains(t, out, "No memories found.")

	out = mustRun(t, "", "--guest", "add", "React hooks", "useEffect runs after render", "--tags", "react,frontend")
	assert.Contains(t, out, "React hooks")
	match := savedID.FindStringSubmatch(out)
	require.Len(t, match, 2)
	hooksID := match[1]

	mustRun(t, "", "-g", "add", "Python decorators", "Wrap a function", "-t", "python")

	out = mustRun(t, "", "--guest", "list")
	assert.Contains(t, out, "Memories (2):")
	assert.Less(t, strings.Index(out, "Python decorators"), strings.Index(out, "React hooks"), "newest first")

	out = mustRun(t, "", "--guest", "list", "--tag", "REACT")
	assert.Contains(t, out, "Memories (1):")
	assert.Contains(t, out, "#react #frontend")

	out = mustRun(t, "", "--guest", "show", hooksID)
	assert.Contains(t, out, "useEffect runs after render")

	out = mustRun(t, "", "--guest", "search", "react", "hooks")
	assert.Contains(t, out, "I found one relevant memory")
	assert.Contains(t, out, "References (1):")

	out = mustRun(t, "", "--guest", "update", hooksID, "--title", "React effects", "--tags", "")
	assert.Contains(t, out, "React effects")
	out = mustRun(t, "", "--guest", "show", hooksID)
	assert.NotContains(t, out, "#react")

	_, err := run(t, "", "--guest", "update", hooksID)
	assert.ErrorContains(t, err, "nothing to update")

	out = mustRun(t, "n\n", "--guest", "delete", hooksID)
	assert.Contains(t, out, "Cancelled.")
	assert.Contains(t, mustRun(t, "", "--guest", "count"), "2 memories")

	out = mustRun(t, "y\n", "--guest", "delete", hooksID)
	assert.Contains(t, out, "Deleted: React effects")

	_, err = run(t, "", "--guest", "show", hooksID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	out = mustRun(t, "", "--guest", "clear", "--force")
	assert.Contains(t, out, "Deleted 1 memories.")
	assert.Contains(t, mustRun(t, "", "--guest", "count"), "0 memories")
}

func TestImport(t *testing.T) {
	dir := setupEnv(t)

	notes := filepath.Join(dir, "go.md")
	require.NoError(t, os.WriteFile(notes, []byte("---\ntags: [go]\n---\n# Go Notes\n\n## Interfaces\nImplicit.\n\n## Errors\nWrap them.\n"), 0o600))
	empty := filepath.Join(dir, "empty.md")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	out := mustRun(t, "", "--guest", "import", "--dry-run", notes)
	assert.Contains(t, out, "Would add: Go Notes")
	assert.Contains(t, mustRun(t, "", "--guest", "count"), "0 memories")

	out = mustRun(t, "", "--guest", "import", "--sections", "--tags", "reading,Go", notes, empty)
	assert.Contains(t, out, "Skipped:")
	assert.Contains(t, out, "Imported 2 memories from 2 files.")

	out = mustRun(t, "", "--guest", "list", "--tag", "reading")
	assert.Contains(t, out, "Go Notes: Interfaces")
	assert.Contains(t, out, "Go Notes: Errors")
	assert.Contains(t, out, "#go #reading")
	assert.NotContains(t, out, "#Go")

	_, err := run(t, "", "--guest", "import", filepath.Join(dir, "missing.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestModeAnnotations(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"account command in guest mode", []string{"--guest", "whoami"}, "not available in guest mode"},
		{"guest command without guest", []string{"clear", "--force"}, "only works in guest mode"},
		{"memory command without login", []string{"list"}, "not logged in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

// startServer runs the real API against a temp SQLite store.
func startServer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	db, err := localstore.Open(ctx, filepath.Join(t.TempDir(), "api.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{Secret: "test", Issuer: "secondbrain", TTL: time.Hour})
	require.NoError(t, err)

	m := metrics.NewCollector()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := server.New(server.Deps{
		Auth:     service.NewAuthService(db, auth.NewPasswordHasher(bcrypt.MinCost), tokens, m, log),
		Memories: service.NewMemoryService(db, m, log),
		Search:   service.NewSearchService(db, m, log),
		Metrics:  m,
		Logger:   log,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestAccountFlow(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("SECONDBRAIN_SERVER_URL", startServer(t))

	out := mustRun(t, "secret1\n", "signup", "--name", "Ada Lovelace", "--email", "Ada@Example.com")
	assert.Contains(t, out, "ada@example.com")

	creds, err := client.LoadCredentials(filepath.Join(dir, "credentials.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, creds.Token)
	assert.Equal(t, "Ada Lovelace", creds.Name)

	out = mustRun(t, "", "whoami")
	assert.Contains(t, out, "Ada Lovelace <ada@example.com>")

	mustRun(t, "", "add", "Deep work", "Block mornings for focus", "--tags", "productivity")
	out = mustRun(t, "", "search", "focus")
	assert.Contains(t, out, "Deep work")
	assert.Contains(t, mustRun(t, "", "count"), "1 memories")

	assert.Contains(t, mustRun(t, "", "refresh"), "Session renewed.")

	assert.Contains(t, mustRun(t, "", "logout"), "Logged out.")
	_, err = run(t, "", "list")
	assert.ErrorContains(t, err, "not logged in")

	out = mustRun(t, "ada@example.com\nsecret1\n", "login")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, mustRun(t, "", "list"), "Deep work")

	_, err = run(t, "wrong-password\n", "login", "--email", "ada@example.com")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestRenderAnswer(t *testing.T) {
	answer := "✅ Found it\n\n📝 Title\n• first\n💡 hint"
	got := defaultTheme.renderAnswer(answer)

	for _, part := range []string{"Found it", "Title", "first", "hint"} {
		assert.Contains(t, got, part)
	}
	assert.Equal(t, 5, len(strings.Split(got, "\n")))
}

func TestRenderTags(t *testing.T) {
	assert.Empty(t, defaultTheme.renderTags(nil))
	assert.Contains(t, defaultTheme.renderTags([]string{"go", "cli"}), "#go #cli")
}
