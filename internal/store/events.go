package store

// The concrete event kinds published through the notifier after a write
// section releases the store's lock (§4.1, §4.6). Consumers re-read the
// store under a snapshot to obtain content; events carry only identifying
// deltas. Each implements notifier.Event.

// TracesAdded lists the trace ids touched by one insert batch and their
// version after the batch (§4.1, §4.6).
type TracesAdded struct {
	Versions map[[16]byte]uint64
}

// LogsAdded reports how many log records one insert batch appended.
type LogsAdded struct {
	Count int
}

// MetricsAdded reports how many metric data points one insert batch
// appended.
type MetricsAdded struct {
	Count int
}

// Cleared reports that all entries of one kind were dropped by Clear.
type Cleared struct {
	Kind Kind
}

func (TracesAdded) IsEvent()  {}
func (LogsAdded) IsEvent()    {}
func (MetricsAdded) IsEvent() {}
func (Cleared) IsEvent()      {}
