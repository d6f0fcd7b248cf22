package store

import (
	"github.com/otelscope/otelscope/internal/model"
	"github.com/otelscope/otelscope/internal/timeutil"
)

// SpanBatch is one decoded OTLP trace batch reduced to the spans this
// store cares about, each already tagged with its owning trace id.
type SpanBatch struct {
	TraceID [16]byte
	Span    model.Span
}

// InsertSpans locates or creates each batch entry's trace group, appends
// its span, bumps the group's version exactly once per affected group,
// and publishes one TracesAdded event listing every affected trace id and
// its new version (§4.1).
func (s *Store) InsertSpans(batch []SpanBatch) {
	if len(batch) == 0 {
		return
	}

	now := timeutil.NowNS()
	versions := make(map[[16]byte]uint64, len(batch))

	s.mu.Lock()
	touched := make(map[[16]byte]bool)
	for _, entry := range batch {
		group, ok := s.traces[entry.TraceID]
		if !ok {
			group = &model.TraceGroup{TraceID: entry.TraceID, FirstSeenNS: now}
			s.traces[entry.TraceID] = group
			s.traceOrder = append(s.traceOrder, entry.TraceID)
			s.evictTraceGroupsLocked()
		}
		group.Spans = append(group.Spans, entry.Span)
		group.LastUpdateNS = now
		if !touched[entry.TraceID] {
			touched[entry.TraceID] = true
			group.Version++
		}
		versions[entry.TraceID] = group.Version
	}
	s.mu.Unlock()

	s.hub.Publish(TracesAdded{Versions: versions})
}

// evictTraceGroupsLocked must be called with s.mu held for writing. It
// evicts from the head of the FIFO while the number of trace-group index
// entries exceeds maxItems, discarding the evicted group's spans
// atomically with its index entry (§3 invariant).
func (s *Store) evictTraceGroupsLocked() {
	evictWhileOver(s.maxItems,
		func() int { return len(s.traceOrder) },
		func() {
			oldest := s.traceOrder[0]
			s.traceOrder = s.traceOrder[1:]
			delete(s.traces, oldest)
		},
	)
}

// TraceGroupView is a snapshot of one trace group at the moment
// SnapshotTraces was called.
type TraceGroupView struct {
	TraceID      [16]byte
	Spans        []model.Span
	Version      uint64
	FirstSeenNS  int64
	LastUpdateNS int64
}

// SnapshotTraces returns a consistent point-in-time view: a slice of
// cloned trace groups (id, version, spans), in FIFO (group insertion) order
// (§4.1, §4.2 step 4's "group insertion order then span order within a
// group").
func (s *Store) SnapshotTraces() []TraceGroupView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]TraceGroupView, 0, len(s.traceOrder))
	for _, id := range s.traceOrder {
		g := s.traces[id]
		spans := make([]model.Span, len(g.Spans))
		copy(spans, g.Spans)
		views = append(views, TraceGroupView{
			TraceID:      g.TraceID,
			Spans:        spans,
			Version:      g.Version,
			FirstSeenNS:  g.FirstSeenNS,
			LastUpdateNS: g.LastUpdateNS,
		})
	}
	return views
}

// TraceGroupByID returns a snapshot of a single trace group, if present.
func (s *Store) TraceGroupByID(id [16]byte) (TraceGroupView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.traces[id]
	if !ok {
		return TraceGroupView{}, false
	}
	spans := make([]model.Span, len(g.Spans))
	copy(spans, g.Spans)
	return TraceGroupView{
		TraceID:      g.TraceID,
		Spans:        spans,
		Version:      g.Version,
		FirstSeenNS:  g.FirstSeenNS,
		LastUpdateNS: g.LastUpdateNS,
	}, true
}

// TraceCount reports the number of live trace groups, used by tests and
// the /health endpoint.
func (s *Store) TraceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.traceOrder)
}
