// Package localstore keeps accounts and memories in a single SQLite file.
// The CLI uses it for guest mode and the server can use it instead of
// SurrealDB for single-node deployments.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed account and memory store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates the database file (and its directory) if needed and runs
// migrations.
func Open(ctx context.Context, path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "sqlite")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, logger: log}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info("database ready", "path", path)
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		createAccountsTable,
		createMemoriesTable,
		createMemoriesOwnerIndex,
	}

	for i, migration := range migrations {
		if _, err := s.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("run migration %d: %w", i+1, err)
		}
	}
	s.logger.Debug("migrations complete", "count", len(migrations))
	return nil
}

// Close closes the database.
func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

// Wipe deletes all accounts and memories.
func (s *Store) Wipe(ctx context.Context) error {
	s.logger.Warn("wiping all data from database")
	for _, table := range []string{"memories", "accounts"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

const createAccountsTable = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL
);`

// Owners are not foreign keys: guest mode stores memories for a user id
// that has no account row.
const createMemoriesTable = `
CREATE TABLE IF NOT EXISTS memories (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '[]', -- JSON array
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);`

const createMemoriesOwnerIndex = `
CREATE INDEX IF NOT EXISTS memories_user_created ON memories (user_id, created_at);`

// Timestamps are stored as unix nanoseconds.
func toUnix(t time.Time) int64 { return t.UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
