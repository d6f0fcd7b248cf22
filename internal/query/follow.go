package query

import (
	"context"
	"errors"

	"github.com/otelscope/otelscope/internal/model"
	"github.com/otelscope/otelscope/internal/sqlengine"
	"github.com/otelscope/otelscope/internal/store"
)

// FollowMode selects how trace deltas are reported; logs and metrics always
// report newly appended rows regardless of mode (§4.4).
type FollowMode int

const (
	// ModeNewSpansOnly, the default, emits only the spans appended to a
	// trace group since the last frame.
	ModeNewSpansOnly FollowMode = iota
	// ModeFullGroup re-emits every span of a trace group whenever its
	// version advances.
	ModeFullGroup
)

// FrameKind distinguishes a stream's initial snapshot from its subsequent
// incremental deltas.
type FrameKind int

const (
	FrameSnapshot FrameKind = iota
	FrameDelta
)

// Frame is one unit sent on a Follow channel. Err is set, with Result nil,
// exactly once as the final frame when the subscription lagged.
type Frame struct {
	Kind   FrameKind
	Result *sqlengine.Result
	Err    error
}

// ErrLagged marks a Follow stream's final frame when its subscriber fell
// behind the notifier and was disconnected (§7 "Backpressure").
var ErrLagged = errors.New("query: follow subscriber lagged and was disconnected")

// Follow streams an initial snapshot frame followed by post-filtered
// incremental deltas for sql's target table (§4.4). The returned channel is
// closed when ctx is canceled or when the subscriber lags; callers should
// always drain until closed or cancel ctx to release the subscription.
func (svc *Service) Follow(ctx context.Context, sql string, mode FollowMode) (<-chan Frame, error) {
	stmt, err := sqlengine.Parse(sql)
	if err != nil {
		return nil, err
	}

	var pc *sqlengine.EvalCtx
	if stmt.Where != nil {
		schema, ok := sqlengine.Tables[stmt.Table]
		if !ok {
			_, err = sqlengine.ResolveColumns(stmt)
			return nil, err
		}
		pc, err = sqlengine.Prepare(stmt.Where, schema)
		if err != nil {
			return nil, err
		}
	}

	columns, err := sqlengine.ResolveColumns(stmt)
	if err != nil {
		return nil, err
	}

	initial, err := sqlengine.ExecuteStatement(ctx, svc.store, stmt)
	if err != nil {
		return nil, err
	}

	sub := svc.store.Subscribe(svc.followBufferSize)
	out := make(chan Frame, 1)

	tr := newTraceTracker(svc.store, mode)
	if stmt.Table == "traces" {
		// Seed the tracker with the groups the snapshot already covered so
		// the first delta carries only what changes after it.
		for _, g := range svc.store.SnapshotTraces() {
			tr.lastVersion[g.TraceID] = g.Version
			tr.lastSpanCount[g.TraceID] = len(g.Spans)
		}
	}

	go func() {
		defer close(out)
		defer sub.Close()

		select {
		case out <- Frame{Kind: FrameSnapshot, Result: initial}:
		case <-ctx.Done():
			return
		}

		logs := newFIFOTracker(func() int { return len(svc.store.SnapshotLogs()) })
		metrics := newFIFOTracker(func() int { return len(svc.store.SnapshotMetrics()) })
		if stmt.Table == "logs" {
			logs.sync()
		}
		if stmt.Table == "metrics" {
			metrics.sync()
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.Lagged():
				select {
				case out <- Frame{Err: ErrLagged}:
				case <-ctx.Done():
				}
				return
			case evt, ok := <-sub.Events():
				if !ok {
					select {
					case <-sub.Lagged():
						select {
						case out <- Frame{Err: ErrLagged}:
						case <-ctx.Done():
						}
					default:
					}
					return
				}

				var delta *sqlengine.Result
				switch stmt.Table {
				case "traces":
					if _, ok := evt.(store.TracesAdded); ok {
						delta = tr.delta(columns, stmt.Where, pc)
					}
				case "logs":
					if _, ok := evt.(store.LogsAdded); ok {
						newRecs := logs.newLogs(svc.store)
						rows := make([]sqlengine.Row, len(newRecs))
						for i, r := range newRecs {
							rows[i] = sqlengine.NewLogRow(r)
						}
						delta = sqlengine.ProjectFiltered("logs", columns, rows, stmt.Where, pc)
					}
				case "metrics":
					if _, ok := evt.(store.MetricsAdded); ok {
						newPts := metrics.newMetrics(svc.store)
						rows := make([]sqlengine.Row, len(newPts))
						for i, p := range newPts {
							rows[i] = sqlengine.NewMetricRow(p)
						}
						delta = sqlengine.ProjectFiltered("metrics", columns, rows, stmt.Where, pc)
					}
				}
				if delta == nil || len(delta.Rows) == 0 {
					continue
				}
				select {
				case out <- Frame{Kind: FrameDelta, Result: delta}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// traceTracker keeps the per-trace-group version and emitted-span-count
// needed to compute either new-spans-only or full-group deltas, pruning
// entries for trace ids the store has since evicted (§4.4 "Follow mode
// handles eviction transparently").
type traceTracker struct {
	store         *store.Store
	mode          FollowMode
	lastVersion   map[[16]byte]uint64
	lastSpanCount map[[16]byte]int
}

func newTraceTracker(s *store.Store, mode FollowMode) *traceTracker {
	return &traceTracker{
		store:         s,
		mode:          mode,
		lastVersion:   make(map[[16]byte]uint64),
		lastSpanCount: make(map[[16]byte]int),
	}
}

func (t *traceTracker) delta(columns []string, where sqlengine.Expr, pc *sqlengine.EvalCtx) *sqlengine.Result {
	groups := t.store.SnapshotTraces()
	present := make(map[[16]byte]bool, len(groups))

	var rows []sqlengine.Row
	for _, g := range groups {
		present[g.TraceID] = true
		if lastVer, known := t.lastVersion[g.TraceID]; known && g.Version == lastVer {
			continue
		}

		switch t.mode {
		case ModeFullGroup:
			for _, sp := range g.Spans {
				rows = append(rows, sqlengine.NewTraceRow(g, sp))
			}
		default:
			start := t.lastSpanCount[g.TraceID]
			if start > len(g.Spans) {
				start = 0
			}
			for _, sp := range g.Spans[start:] {
				rows = append(rows, sqlengine.NewTraceRow(g, sp))
			}
		}
		t.lastVersion[g.TraceID] = g.Version
		t.lastSpanCount[g.TraceID] = len(g.Spans)
	}

	for id := range t.lastVersion {
		if !present[id] {
			delete(t.lastVersion, id)
			delete(t.lastSpanCount, id)
		}
	}

	return sqlengine.ProjectFiltered("traces", columns, rows, where, pc)
}

// fifoTracker tracks how many entries of an append-only FIFO table have
// already been emitted, for logs and metrics deltas.
type fifoTracker struct {
	lastLen int
	count   func() int
}

func newFIFOTracker(count func() int) *fifoTracker {
	return &fifoTracker{count: count}
}

func (f *fifoTracker) sync() {
	f.lastLen = f.count()
}

func (f *fifoTracker) newLogs(s *store.Store) []model.LogRecord {
	all := s.SnapshotLogs()
	if len(all) < f.lastLen {
		f.lastLen = len(all)
		return nil
	}
	fresh := all[f.lastLen:]
	f.lastLen = len(all)
	return fresh
}

func (f *fifoTracker) newMetrics(s *store.Store) []model.MetricDataPoint {
	all := s.SnapshotMetrics()
	if len(all) < f.lastLen {
		f.lastLen = len(all)
		return nil
	}
	fresh := all[f.lastLen:]
	f.lastLen = len(all)
	return fresh
}
