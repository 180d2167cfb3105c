package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/secondbrain/internal/metrics"
	"github.com/raphaelgruber/secondbrain/internal/models"
)

// MemoryService handles memory CRUD for a single owner per call.
type MemoryService struct {
	store   MemoryStore
	metrics *metrics.Collector
	logger  *slog.Logger
	now     func() time.Time
}

// NewMemoryService creates a new memory service.
func NewMemoryService(store MemoryStore, m *metrics.Collector, log *slog.Logger) *MemoryService {
	return &MemoryService{
		store:   store,
		metrics: m,
		logger:  orDefault(log),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create validates input and stores a new memory for userID.
func (s *MemoryService) Create(ctx context.Context, userID string, input models.MemoryInput) (_ models.Memory, err error) {
	if err := Validate(input); err != nil {
		return models.Memory{}, err
	}
	defer func(start time.Time) { timed(s.metrics, metrics.OpStoreWrite, start, err) }(time.Now())

	now := s.now()
	m := models.Memory{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Content:   input.Content,
		Tags:      models.NormalizeTags(input.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertMemory(ctx, userID, m); err != nil {
		return models.Memory{}, err
	}

	s.logger.Debug("memory created", "user", userID, "memory", m.ID)
	return m, nil
}

// List returns userID's memories newest first, filtered by opts.
func (s *MemoryService) List(ctx context.Context, userID string, opts models.ListOptions) (_ []models.Memory, err error) {
	defer func(start time.Time) { timed(s.metrics, metrics.OpStoreRead, start, err) }(time.Now())

	all, err := s.store.ListMemories(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.Memory, 0, len(all))
	for _, m := range all {
		if models.HasTagContaining(m, opts.Tag) {
			out = append(out, m)
		}
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

// Get returns one memory owned by userID.
func (s *MemoryService) Get(ctx context.Context, userID, id string) (_ models.Memory, err error) {
	defer func(start time.Time) { timed(s.metrics, metrics.OpStoreRead, start, err) }(time.Now())
	return s.store.GetMemory(ctx, userID, id)
}

// Update applies a partial update and refreshes UpdatedAt.
func (s *MemoryService) Update(ctx context.Context, userID, id string, patch models.MemoryPatch) (_ models.Memory, err error) {
	if err := Validate(patch); err != nil {
		return models.Memory{}, err
	}
	defer func(start time.Time) { timed(s.metrics, metrics.OpStoreWrite, start, err) }(time.Now())

	current, err := s.store.GetMemory(ctx, userID, id)
	if err != nil {
		return models.Memory{}, err
	}

	updated := patch.Apply(current)
	updated.UpdatedAt = s.now()
	if err := s.store.UpdateMemory(ctx, userID, updated); err != nil {
		return models.Memory{}, fmt.Errorf("update memory %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes one memory owned by userID.
func (s *MemoryService) Delete(ctx context.Context, userID, id string) (err error) {
	defer func(start time.Time) { timed(s.metrics, metrics.OpStoreWrite, start, err) }(time.Now())
	return s.store.DeleteMemory(ctx, userID, id)
}

// Count returns how many memories userID has.
func (s *MemoryService) Count(ctx context.Context, userID string) (_ int, err error) {
	defer func(start time.Time) { timed(s.metrics, metrics.OpStoreRead, start, err) }(time.Now())
	return s.store.CountMemories(ctx, userID)
}

// Clear deletes every memory userID has and returns how many were removed.
func (s *MemoryService) Clear(ctx context.Context, userID string) (_ int, err error) {
	defer func(start time.Time) { timed(s.metrics, metrics.OpStoreWrite, start, err) }(time.Now())

	n, err := s.store.DeleteAllMemories(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("memories cleared", "user", userID, "count", n)
	return n, nil
}
