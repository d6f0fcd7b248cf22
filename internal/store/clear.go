package store

import "github.com/otelscope/otelscope/internal/model"

// Clear drops all entries for each selected kind and publishes one
// Cleared event per kind (§4.1). It returns the number of entries removed
// per kind, generalizing the teacher's internal/deleter.Scope (a single
// scope at a time) to the plural `clear(kinds)` the spec calls for.
func (s *Store) Clear(kinds []Kind) map[Kind]int {
	removed := make(map[Kind]int, len(kinds))
	var published []Kind

	s.mu.Lock()
	for _, kind := range kinds {
		switch kind {
		case KindTraces:
			removed[KindTraces] = len(s.traceOrder)
			s.traces = make(map[[16]byte]*model.TraceGroup)
			s.traceOrder = nil
			published = append(published, KindTraces)
		case KindLogs:
			removed[KindLogs] = len(s.logs)
			s.logs = nil
			published = append(published, KindLogs)
		case KindMetrics:
			removed[KindMetrics] = len(s.metrics)
			s.metrics = nil
			published = append(published, KindMetrics)
		}
	}
	s.mu.Unlock()

	for _, kind := range published {
		s.hub.Publish(Cleared{Kind: kind})
	}

	return removed
}
