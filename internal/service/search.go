package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/raphaelgruber/secondbrain/internal/metrics"
	"github.com/raphaelgruber/secondbrain/internal/models"
	"github.com/raphaelgruber/secondbrain/internal/search"
)

// SearchRequest is the payload of a search call.
type SearchRequest struct {
	Query string `json:"query" validate:"max=500"`
}

// SearchService runs keyword search over a user's own memories.
type SearchService struct {
	store   MemoryStore
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(store MemoryStore, m *metrics.Collector, log *slog.Logger) *SearchService {
	return &SearchService{store: store, metrics: m, logger: orDefault(log)}
}

// Search answers query from userID's memories. It never fails: a store
// error is logged and turned into an apology answer.
func (s *SearchService) Search(ctx context.Context, userID, query string) models.SearchResult {
	if strings.TrimSpace(query) == "" {
		return search.Search(nil, query)
	}

	start := time.Now()
	corpus, err := s.store.ListMemories(ctx, userID)
	s.metrics.RecordTiming(metrics.OpStoreRead, time.Since(start), err)
	if err != nil {
		s.logger.Error("search corpus read failed", "user", userID, "error", err)
		return search.Apology(query)
	}

	result := search.Search(corpus, query)
	s.metrics.RecordSearch(time.Since(start), len(result.References))

	s.logger.Debug("search",
		"user", userID,
		"query", query,
		"corpus", len(corpus),
		"references", len(result.References),
		"duration_ms", time.Since(start).Milliseconds())
	return result
}
