package store

import "github.com/otelscope/otelscope/internal/model"

// InsertLogs appends each log record to the logs FIFO, evicting from the
// head while length exceeds maxItems, and publishes LogsAdded with the
// count appended (§4.1).
func (s *Store) InsertLogs(records []model.LogRecord) {
	if len(records) == 0 {
		return
	}

	s.mu.Lock()
	s.logs = append(s.logs, records...)
	evictWhileOver(s.maxItems,
		func() int { return len(s.logs) },
		func() { s.logs = s.logs[1:] },
	)
	s.mu.Unlock()

	s.hub.Publish(LogsAdded{Count: len(records)})
}

// SnapshotLogs returns a consistent point-in-time, insertion-ordered copy
// of the logs table.
func (s *Store) SnapshotLogs() []model.LogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LogRecord, len(s.logs))
	copy(out, s.logs)
	return out
}

// LogCount reports the current number of retained log records.
func (s *Store) LogCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}
