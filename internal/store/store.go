// Package store implements the Telemetry Store (§4.1): the sole owner of
// all telemetry state, mediating concurrent reads, writes, and
// subscriptions behind one readers-writer lock. The shape is carried over
// from the teacher's DuckDBStore (a struct holding one sync.RWMutex guarding
// all tables, InsertSpans/InsertLogs/InsertMetrics under Lock(), queries
// under RLock()) with the SQL-backed engine swapped for bounded in-process
// slices and maps, per §9's "Shared mutable core" design note.
package store

import (
	"sync"

	"github.com/otelscope/otelscope/internal/model"
	"github.com/otelscope/otelscope/internal/notifier"
)

// DefaultMaxItems is the default per-table FIFO capacity (§6).
const DefaultMaxItems = 1000

// Store is the concurrent, capacity-bounded, versioned in-memory database
// for traces, logs, and metrics.
type Store struct {
	maxItems int
	hub      *notifier.Hub

	mu         sync.RWMutex
	traces     map[[16]byte]*model.TraceGroup
	traceOrder [][16]byte // FIFO order of trace group insertion

	logs []model.LogRecord

	metrics []model.MetricDataPoint
}

// New creates an empty store bounded by maxItems entries per table. A
// non-positive maxItems falls back to DefaultMaxItems.
func New(maxItems int) *Store {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Store{
		maxItems: maxItems,
		hub:      notifier.NewHub(),
		traces:   make(map[[16]byte]*model.TraceGroup),
	}
}

// Subscribe returns a live change subscription (§4.1, §4.6).
func (s *Store) Subscribe(bufSize int) *notifier.Subscription {
	return s.hub.Subscribe(bufSize)
}

// Notifier exposes the store's broadcast hub directly, for consumers like
// websocket.Bridge that subscribe on their own terms rather than through
// Subscribe's single-subscription helper.
func (s *Store) Notifier() *notifier.Hub {
	return s.hub
}

// MaxItems reports the configured per-table capacity.
func (s *Store) MaxItems() int {
	return s.maxItems
}
