package cli

import (
	"context"
	"log/slog"

	"github.com/raphaelgruber/secondbrain/internal/client"
	"github.com/raphaelgruber/secondbrain/internal/localstore"
	"github.com/raphaelgruber/secondbrain/internal/metrics"
	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/raphaelgruber/secondbrain/internal/service"
)

// GuestUserID owns every memory in guest mode.
const GuestUserID = "guest"

// backend is what the memory commands talk to: the server in remote mode or
// a local SQLite file in guest mode.
type backend interface {
	CreateMemory(ctx context.Context, input models.MemoryInput) (models.Memory, error)
	ListMemories(ctx context.Context, opts models.ListOptions) ([]models.Memory, error)
	GetMemory(ctx context.Context, id string) (models.Memory, error)
	UpdateMemory(ctx context.Context, id string, patch models.MemoryPatch) (models.Memory, error)
	DeleteMemory(ctx context.Context, id string) error
	CountMemories(ctx context.Context) (int, error)
	Search(ctx context.Context, query string) (models.SearchResult, error)
}

var _ backend = (*client.Client)(nil)
var _ backend = (*guestBackend)(nil)

// guestBackend runs the services in-process against a local store.
type guestBackend struct {
	store    *localstore.Store
	memories *service.MemoryService
	search   *service.SearchService
}

func openGuest(ctx context.Context, path string, logger *slog.Logger) (*guestBackend, error) {
	store, err := localstore.Open(ctx, path, logger)
	if err != nil {
		return nil, err
	}
	m := metrics.NewCollector()
	return &guestBackend{
		store:    store,
		memories: service.NewMemoryService(store, m, logger),
		search:   service.NewSearchService(store, m, logger),
	}, nil
}

func (g *guestBackend) CreateMemory(ctx context.Context, input models.MemoryInput) (models.Memory, error) {
	return g.memories.Create(ctx, GuestUserID, input)
}

func (g *guestBackend) ListMemories(ctx context.Context, opts models.ListOptions) ([]models.Memory, error) {
	return g.memories.List(ctx, GuestUserID, opts)
}

func (g *guestBackend) GetMemory(ctx context.Context, id string) (models.Memory, error) {
	return g.memories.Get(ctx, GuestUserID, id)
}

func (g *guestBackend) UpdateMemory(ctx context.Context, id string, patch models.MemoryPatch) (models.Memory, error) {
	return g.memories.Update(ctx, GuestUserID, id, patch)
}

func (g *guestBackend) DeleteMemory(ctx context.Context, id string) error {
	return g.memories.Delete(ctx, GuestUserID, id)
}

func (g *guestBackend) CountMemories(ctx context.Context) (int, error) {
	return g.memories.Count(ctx, GuestUserID)
}

func (g *guestBackend) Search(ctx context.Context, query string) (models.SearchResult, error) {
	return g.search.Search(ctx, GuestUserID, query), nil
}

// Clear deletes every guest memory.
func (g *guestBackend) Clear(ctx context.Context) (int, error) {
	return g.memories.Clear(ctx, GuestUserID)
}

func (g *guestBackend) Close(ctx context.Context) error {
	return g.store.Close(ctx)
}
