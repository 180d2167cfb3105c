package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// accountRecord is the stored shape of a models.User.
type accountRecord struct {
	ID           surrealmodels.RecordID `json:"id"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	PasswordHash string                 `json:"password_hash"`
	CreatedAt    time.Time              `json:"created_at"`
}

func (r accountRecord) toUser() (models.User, error) {
	id, err := models.RecordIDString(r.ID)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:           id,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}, nil
}

// memoryRecord is the stored shape of a models.Memory.
type memoryRecord struct {
	ID        surrealmodels.RecordID `json:"id"`
	UserID    string                 `json:"user_id"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Tags      []string               `json:"tags"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func (r memoryRecord) toMemory() (models.Memory, error) {
	id, err := models.RecordIDString(r.ID)
	if err != nil {
		return models.Memory{}, err
	}
	return models.Memory{
		ID:        id,
		Title:     r.Title,
		Content:   r.Content,
		Tags:      models.NormalizeTags(r.Tags),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// firstResult returns the rows of the first statement, or nil.
func firstResult[T any](results *[]surrealdb.QueryResult[[]T]) []T {
	if results == nil || len(*results) == 0 {
		return nil
	}
	return (*results)[0].Result
}

// =============================================================================
// ACCOUNTS
// =============================================================================

// InsertUser stores a new account. A taken email yields models.ErrEmailTaken.
func (c *Client) InsertUser(ctx context.Context, u models.User) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE type::record("account", $id) CONTENT {
			name: $name,
			email: $email,
			password_hash: $password_hash,
			created_at: $created_at
		}
	`, map[string]any{
		"id":            u.ID,
		"name":          u.Name,
		"email":         models.NormalizeEmail(u.Email),
		"password_hash": u.PasswordHash,
		"created_at":    u.CreatedAt,
	})
	if err = wrapQueryError(err); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return fmt.Errorf("insert user: %w", models.ErrEmailTaken)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail looks up an account by (case-insensitive) email.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	results, err := surrealdb.Query[[]accountRecord](ctx, c.db, `
		SELECT * FROM account WHERE email = $email LIMIT 1
	`, map[string]any{"email": models.NormalizeEmail(email)})
	if err != nil {
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return singleUser(firstResult(results))
}

// GetUserByID looks up an account by id.
func (c *Client) GetUserByID(ctx context.Context, id string) (models.User, error) {
	results, err := surrealdb.Query[[]accountRecord](ctx, c.db, `
		SELECT * FROM type::record("account", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return singleUser(firstResult(results))
}

func singleUser(rows []accountRecord) (models.User, error) {
	if len(rows) == 0 {
		return models.User{}, models.ErrNotFound
	}
	return rows[0].toUser()
}

// =============================================================================
// MEMORIES
// =============================================================================

// InsertMemory stores m as owned by userID.
func (c *Client) InsertMemory(ctx context.Context, userID string, m models.Memory) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE type::record("memory", $id) CONTENT {
			user_id: $user_id,
			title: $title,
			content: $content,
			tags: $tags,
			created_at: $created_at,
			updated_at: $updated_at
		}
	`, map[string]any{
		"id":         m.ID,
		"user_id":    userID,
		"title":      m.Title,
		"content":    m.Content,
		"tags":       models.NormalizeTags(m.Tags),
		"created_at": m.CreatedAt,
		"updated_at": m.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert memory: %w", wrapQueryError(err))
	}
	return nil
}

// ListMemories returns all of userID's memories, newest first.
func (c *Client) ListMemories(ctx context.Context, userID string) ([]models.Memory, error) {
	results, err := surrealdb.Query[[]memoryRecord](ctx, c.db, `
		SELECT * FROM memory WHERE user_id = $user_id ORDER BY created_at DESC
	`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}

	rows := firstResult(results)
	memories := make([]models.Memory, 0, len(rows))
	for _, r := range rows {
		m, err := r.toMemory()
		if err != nil {
			return nil, fmt.Errorf("list memories: %w", err)
		}
		memories = append(memories, m)
	}
	return memories, nil
}

// GetMemory returns a single memory owned by userID.
func (c *Client) GetMemory(ctx context.Context, userID, id string) (models.Memory, error) {
	results, err := surrealdb.Query[[]memoryRecord](ctx, c.db, `
		SELECT * FROM type::record("memory", $id) WHERE user_id = $user_id
	`, map[string]any{"id": id, "user_id": userID})
	if err != nil {
		return models.Memory{}, fmt.Errorf("get memory: %w", err)
	}

	rows := firstResult(results)
	if len(rows) == 0 {
		return models.Memory{}, models.ErrNotFound
	}
	return rows[0].toMemory()
}

// UpdateMemory overwrites the mutable fields of m. The creation time and
// owner are left untouched.
func (c *Client) UpdateMemory(ctx context.Context, userID string, m models.Memory) error {
	results, err := surrealdb.Query[[]memoryRecord](ctx, c.db, `
		UPDATE type::record("memory", $id) SET
			title = $title,
			content = $content,
			tags = $tags,
			updated_at = $updated_at
		WHERE user_id = $user_id
		RETURN AFTER
	`, map[string]any{
		"id":         m.ID,
		"user_id":    userID,
		"title":      m.Title,
		"content":    m.Content,
		"tags":       models.NormalizeTags(m.Tags),
		"updated_at": m.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("update memory: %w", wrapQueryError(err))
	}
	if len(firstResult(results)) == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteMemory removes one memory owned by userID.
func (c *Client) DeleteMemory(ctx context.Context, userID, id string) error {
	// RETURN BEFORE yields the deleted row, so an empty result means nothing matched
	results, err := surrealdb.Query[[]memoryRecord](ctx, c.db, `
		DELETE type::record("memory", $id) WHERE user_id = $user_id RETURN BEFORE
	`, map[string]any{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	if len(firstResult(results)) == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteAllMemories removes every memory owned by userID and returns how many
// were deleted.
func (c *Client) DeleteAllMemories(ctx context.Context, userID string) (int, error) {
	results, err := surrealdb.Query[[]memoryRecord](ctx, c.db, `
		DELETE memory WHERE user_id = $user_id RETURN BEFORE
	`, map[string]any{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("delete all memories: %w", err)
	}
	return len(firstResult(results)), nil
}

// CountMemories returns the number of memories owned by userID.
func (c *Client) CountMemories(ctx context.Context, userID string) (int, error) {
	results, err := surrealdb.Query[[]struct {
		Count int `json:"count"`
	}](ctx, c.db, `
		SELECT count() AS count FROM memory WHERE user_id = $user_id GROUP ALL
	`, map[string]any{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("count memories: %w", err)
	}

	rows := firstResult(results)
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}
