package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/raphaelgruber/secondbrain/internal/models"
)

// InsertUser stores a new account. A taken email yields models.ErrEmailTaken.
func (s *Store) InsertUser(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, models.NormalizeEmail(u.Email), u.PasswordHash, toUnix(u.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("insert user: %w", models.ErrEmailTaken)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail looks up an account by (case-insensitive) email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at FROM accounts WHERE email = ?`,
		models.NormalizeEmail(email))
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetUserByID looks up an account by id.
func (s *Store) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at FROM accounts WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		u       models.User
		created int64
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	u.CreatedAt = fromUnix(created)
	return u, nil
}
