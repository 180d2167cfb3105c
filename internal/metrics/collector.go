// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	Failures  int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration

	// Result counts (only for search)
	TotalResults int64
	MaxResults   int64
	EmptyResults int64
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	Failures    int64   `json:"failures"`
	TotalTimeMs int64   `json:"totalTimeMs"`
	AvgTimeMs   float64 `json:"avgTimeMs"`
	MinTimeMs   int64   `json:"minTimeMs"`
	MaxTimeMs   int64   `json:"maxTimeMs"`

	// Result stats (nil if not applicable)
	AvgResults   *float64 `json:"avgResults,omitempty"`
	MaxResults   *int64   `json:"maxResults,omitempty"`
	EmptyResults *int64   `json:"emptyResults,omitempty"`
}

// Snapshot represents the full server statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64            `json:"uptimeSeconds"`
	Search        *OperationSnapshot `json:"search,omitempty"`
	StoreRead     *OperationSnapshot `json:"storeRead,omitempty"`
	StoreWrite    *OperationSnapshot `json:"storeWrite,omitempty"`
	Auth          *OperationSnapshot `json:"auth,omitempty"`
}

// Operation names for the collector.
const (
	OpSearch     = "search"
	OpStoreRead  = "store_read"
	OpStoreWrite = "store_write"
	OpAuth       = "auth"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe. A nil *Collector discards everything.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

func (m *OperationMetrics) observe(duration time.Duration, err error) {
	m.Count++
	m.TotalTime += duration
	if err != nil {
		m.Failures++
	}
	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordTiming records timing and outcome for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getOrCreate(op).observe(duration, err)
}

// RecordSearch records timing and the number of candidates found for a search.
func (c *Collector) RecordSearch(duration time.Duration, results int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(OpSearch)
	m.observe(duration, nil)

	n := int64(results)
	m.TotalResults += n
	if n > m.MaxResults {
		m.MaxResults = n
	}
	if n == 0 {
		m.EmptyResults++
	}
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics, includeResults bool) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	snap := &OperationSnapshot{
		Count:       m.Count,
		Failures:    m.Failures,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}

	if includeResults {
		avg := float64(m.TotalResults) / float64(m.Count)
		maxResults := m.MaxResults
		empty := m.EmptyResults
		snap.AvgResults = &avg
		snap.MaxResults = &maxResults
		snap.EmptyResults = &empty
	}

	return snap
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Search:        snapshotOp(c.ops[OpSearch], true),
		StoreRead:     snapshotOp(c.ops[OpStoreRead], false),
		StoreWrite:    snapshotOp(c.ops[OpStoreWrite], false),
		Auth:          snapshotOp(c.ops[OpAuth], false),
	}
}
