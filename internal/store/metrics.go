package store

import "github.com/otelscope/otelscope/internal/model"

// InsertMetrics appends each flattened data point to the metrics FIFO,
// evicting from the head while length exceeds maxItems, and publishes
// MetricsAdded (§4.1).
func (s *Store) InsertMetrics(points []model.MetricDataPoint) {
	if len(points) == 0 {
		return
	}

	s.mu.Lock()
	s.metrics = append(s.metrics, points...)
	evictWhileOver(s.maxItems,
		func() int { return len(s.metrics) },
		func() { s.metrics = s.metrics[1:] },
	)
	s.mu.Unlock()

	s.hub.Publish(MetricsAdded{Count: len(points)})
}

// SnapshotMetrics returns a consistent point-in-time, insertion-ordered
// copy of the metrics table.
func (s *Store) SnapshotMetrics() []model.MetricDataPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.MetricDataPoint, len(s.metrics))
	copy(out, s.metrics)
	return out
}

// MetricCount reports the current number of retained metric data points.
func (s *Store) MetricCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.metrics)
}
