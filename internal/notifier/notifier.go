// Package notifier implements the multi-producer, multi-consumer broadcast
// bus described in §4.6: per-subscriber bounded buffers, no data copies in
// the event payload, and a "lagged" disconnect for subscribers that fall
// behind. Generalized from the teacher's internal/websocket.Hub (register/
// unregister/broadcast goroutine loop) to carry typed events instead of
// marshaled JSON websocket frames.
package notifier

import "sync"

// Event is the marker interface implemented by every event kind the store
// publishes (store.TracesAdded, store.LogsAdded, store.MetricsAdded,
// store.Cleared). Kept here, rather than in package store, so that the
// notifier has no dependency on package store.
type Event interface {
	IsEvent()
}

// Hub broadcasts events to live subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewHub creates an empty broadcast hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new subscription with the given buffer size. The
// spec recommends at least 64 frames of buffer per follow stream (§6); the
// caller chooses the size so different consumers (follow streams, the
// local websocket tail) can size independently.
func (h *Hub) Subscribe(bufSize int) *Subscription {
	if bufSize <= 0 {
		bufSize = 64
	}
	sub := &Subscription{
		hub:    h,
		events: make(chan Event, bufSize),
		lagged: make(chan struct{}),
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Publish sends an event to every live subscriber. A subscriber whose
// buffer is full is disconnected with its Lagged channel closed rather
// than having the event silently dropped (§7 "Backpressure").
func (h *Hub) Publish(evt Event) {
	h.mu.RLock()
	var toDrop []*Subscription
	for sub := range h.subs {
		select {
		case sub.events <- evt:
		default:
			toDrop = append(toDrop, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range toDrop {
		h.disconnect(sub, true)
	}
}

func (h *Hub) disconnect(sub *Subscription, lagged bool) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()
	if !ok {
		return
	}
	if lagged {
		sub.closeLagged()
	}
	close(sub.events)
}

// SubscriberCount reports the number of live subscriptions, used by
// tests and diagnostics.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Subscription is a single subscriber's view of the event stream.
type Subscription struct {
	hub        *Hub
	events     chan Event
	lagged     chan struct{}
	laggedOnce sync.Once
}

// Events returns the channel of incoming events. It is closed when the
// subscription is unsubscribed or disconnected for lagging.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Lagged returns a channel that is closed exactly once, when this
// subscription's buffer overflowed and it was disconnected.
func (s *Subscription) Lagged() <-chan struct{} {
	return s.lagged
}

func (s *Subscription) closeLagged() {
	s.laggedOnce.Do(func() { close(s.lagged) })
}

// Close unsubscribes, releasing the hub's reference. Safe to call more
// than once and safe to call after a lagged disconnect.
func (s *Subscription) Close() {
	s.hub.disconnect(s, false)
}
