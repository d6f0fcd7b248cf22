package websocket

import (
	"context"

	"github.com/otelscope/otelscope/internal/notifier"
	"github.com/otelscope/otelscope/internal/store"
	"github.com/otelscope/otelscope/internal/timeutil"
)

// Bridge subscribes hub's upstream notifier and fans trace, log and metric
// additions out to connected websocket clients as a typed Message, giving
// the dashboard a read-only live tail without going through a Follow query.
// Cleared events are not forwarded. It runs until ctx is canceled or its
// subscription lags.
func Bridge(ctx context.Context, hub *Hub, upstream *notifier.Hub) {
	sub := upstream.Subscribe(64)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Lagged():
			return
		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			if msg, ok := messageForEvent(evt); ok {
				hub.Broadcast(msg)
			}
		}
	}
}

func messageForEvent(evt notifier.Event) (Message, bool) {
	switch e := evt.(type) {
	case store.TracesAdded:
		// JSON cannot encode [16]byte map keys, so send hex trace ids.
		versions := make(map[string]uint64, len(e.Versions))
		for id, v := range e.Versions {
			versions[timeutil.EncodeTraceID(id)] = v
		}
		return NewTracesMessage(versions), true
	case store.LogsAdded:
		return NewLogsMessage(e), true
	case store.MetricsAdded:
		return NewMetricsMessage(e), true
	default:
		return Message{}, false
	}
}
