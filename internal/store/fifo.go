package store

// evictWhileOver calls evict() until count() <= limit. Shared by the
// logs, metrics, and trace-group FIFOs so the capacity/eviction rule in
// §3 ("strict FIFO eviction by insertion order") is expressed once.
func evictWhileOver(limit int, count func() int, evict func()) {
	if limit <= 0 {
		return
	}
	for count() > limit {
		evict()
	}
}
