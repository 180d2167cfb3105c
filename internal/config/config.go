// Package config loads Second Brain settings from the environment.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageSurrealDB = "surrealdb"
	StorageSQLite    = "sqlite"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	ServerPort  string
	CORSOrigins []string

	// Storage selection
	Storage string

	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// SQLite files
	SQLitePath  string
	GuestDBPath string

	// Auth
	JWTSecret  string
	JWTIssuer  string
	TokenTTL   time.Duration
	BcryptCost int

	// CLI
	ServerURL       string
	CredentialsFile string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() Config {
	_ = godotenv.Load()

	dataDir := defaultDataDir()

	return Config{
		ServerPort:  getEnv("PORT", "3001"),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),

		Storage: strings.ToLower(getEnv("SECONDBRAIN_STORAGE", StorageSurrealDB)),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "secondbrain"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "memories"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		SQLitePath:  getEnv("SECONDBRAIN_SQLITE_PATH", filepath.Join(dataDir, "secondbrain.db")),
		GuestDBPath: getEnv("SECONDBRAIN_GUEST_DB", filepath.Join(dataDir, "guest.db")),

		JWTSecret:  getEnv("JWT_SECRET", "development-secret-change-in-production"),
		JWTIssuer:  getEnv("JWT_ISSUER", "secondbrain"),
		TokenTTL:   parseDuration(getEnv("JWT_TTL", "168h"), 7*24*time.Hour),
		BcryptCost: parseInt(getEnv("BCRYPT_COST", "12"), 12),

		ServerURL:       getEnv("SECONDBRAIN_SERVER_URL", "http://localhost:3001"),
		CredentialsFile: getEnv("SECONDBRAIN_CREDENTIALS", filepath.Join(dataDir, "credentials.yaml")),

		LogFile:  getEnv("SECONDBRAIN_LOG_FILE", filepath.Join(os.TempDir(), "secondbrain.log")),
		LogLevel: parseLogLevel(getEnv("SECONDBRAIN_LOG_LEVEL", "INFO")),
	}
}

// defaultDataDir returns ~/.secondbrain, or a relative data dir when the
// home directory is unknown.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "data"
	}
	return filepath.Join(home, ".secondbrain")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
