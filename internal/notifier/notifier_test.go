package notifier

import "testing"

type fakeEvent struct{ n int }

func (fakeEvent) IsEvent() {}

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	h := NewHub()
	a := h.Subscribe(4)
	b := h.Subscribe(4)

	h.Publish(fakeEvent{1})

	for _, sub := range []*Subscription{a, b} {
		select {
		case evt := <-sub.Events():
			if fe, ok := evt.(fakeEvent); !ok || fe.n != 1 {
				t.Errorf("unexpected event %#v", evt)
			}
		default:
			t.Error("expected event to be delivered")
		}
	}
}

func TestSlowSubscriberIsDisconnectedAsLagged(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(1)

	h.Publish(fakeEvent{1}) // fills the buffer
	h.Publish(fakeEvent{2}) // buffer full -> disconnect

	select {
	case <-sub.Lagged():
	default:
		t.Fatal("expected subscriber to be disconnected as lagged")
	}

	if h.SubscriberCount() != 0 {
		t.Errorf("expected subscriber removed from hub, count=%d", h.SubscriberCount())
	}
}

func TestCloseUnsubscribesWithoutLagging(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(4)
	sub.Close()

	select {
	case <-sub.Lagged():
		t.Error("expected no lagged signal on a normal close")
	default:
	}

	if h.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", h.SubscriberCount())
	}
}
