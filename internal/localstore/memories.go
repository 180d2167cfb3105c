package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/raphaelgruber/secondbrain/internal/models"
)

const memoryColumns = `id, title, content, tags, created_at, updated_at`

// InsertMemory stores m as owned by userID.
func (s *Store) InsertMemory(ctx context.Context, userID string, m models.Memory) error {
	tags, err := encodeTags(m.Tags)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memories (id, user_id, title, content, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, userID, m.Title, m.Content, tags, toUnix(m.CreatedAt), toUnix(m.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

// ListMemories returns all of userID's memories, newest first.
func (s *Store) ListMemories(ctx context.Context, userID string) ([]models.Memory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+memoryColumns+` FROM memories
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	memories := []models.Memory{}
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("list memories: %w", err)
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	return memories, nil
}

// GetMemory returns a single memory owned by userID.
func (s *Store) GetMemory(ctx context.Context, userID, id string) (models.Memory, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+memoryColumns+` FROM memories WHERE id = ? AND user_id = ?`, id, userID)
	m, err := scanMemory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Memory{}, models.ErrNotFound
	}
	if err != nil {
		return models.Memory{}, fmt.Errorf("get memory: %w", err)
	}
	return m, nil
}

// UpdateMemory overwrites the mutable fields of m. The creation time and
// owner are left untouched.
func (s *Store) UpdateMemory(ctx context.Context, userID string, m models.Memory) error {
	tags, err := encodeTags(m.Tags)
	if err != nil {
		return fmt.Errorf("update memory: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE memories SET title = ?, content = ?, tags = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		m.Title, m.Content, tags, toUnix(m.UpdatedAt), m.ID, userID)
	if err != nil {
		return fmt.Errorf("update memory: %w", err)
	}
	return requireAffected(res)
}

// DeleteMemory removes one memory owned by userID.
func (s *Store) DeleteMemory(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	return requireAffected(res)
}

// DeleteAllMemories removes every memory owned by userID and returns how many
// were deleted.
func (s *Store) DeleteAllMemories(ctx context.Context, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete all memories: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all memories: %w", err)
	}
	return int(n), nil
}

// CountMemories returns the number of memories owned by userID.
func (s *Store) CountMemories(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count memories: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMemory(row scanner) (models.Memory, error) {
	var (
		m                models.Memory
		tags             string
		created, updated int64
	)
	if err := row.Scan(&m.ID, &m.Title, &m.Content, &tags, &created, &updated); err != nil {
		return models.Memory{}, err
	}
	if err := json.Unmarshal([]byte(tags), &m.Tags); err != nil {
		return models.Memory{}, fmt.Errorf("decode tags of %s: %w", m.ID, err)
	}
	m.Tags = models.NormalizeTags(m.Tags)
	m.CreatedAt = fromUnix(created)
	m.UpdatedAt = fromUnix(updated)
	return m, nil
}

func encodeTags(tags []string) (string, error) {
	b, err := json.Marshal(models.NormalizeTags(tags))
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
