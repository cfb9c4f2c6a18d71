package bus

import (
	"sync"
	"testing"
	"time"
)

func TestSubscribePublish(t *testing.T) {
	const topic = "test.subscribe"

	var mu sync.Mutex
	var got []Event
	done := make(chan struct{}, 1)

	id := Subscribe(topic, func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
		done <- struct{}{}
	})
	defer Unsubscribe(id)

	Publish(topic, SentEvent{ResponseID: "r1", Destination: "chat1"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("events = %d, want 1", len(got))
	}
	ev := got[0]
	if ev.Topic != topic {
		t.Errorf("topic = %q", ev.Topic)
	}
	sent, ok := ev.Data.(SentEvent)
	if !ok || sent.ResponseID != "r1" || sent.Destination != "chat1" {
		t.Errorf("payload = %#v", ev.Data)
	}
	if ev.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestUnsubscribe(t *testing.T) {
	const topic = "test.unsubscribe"

	id := Subscribe(topic, func(Event) {})
	if CountSubscribers(topic) != 1 {
		t.Fatalf("subscribers = %d, want 1", CountSubscribers(topic))
	}

	if !Unsubscribe(id) {
		t.Error("Unsubscribe returned false for a live subscription")
	}
	if CountSubscribers(topic) != 0 {
		t.Errorf("subscribers = %d after unsubscribe", CountSubscribers(topic))
	}
	if Unsubscribe(id) {
		t.Error("Unsubscribe returned true for a removed subscription")
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	// Must not block or panic.
	Publish("test.nobody", "payload")
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	const topic = "test.panic"

	done := make(chan struct{}, 1)

	id1 := Subscribe(topic, func(Event) { panic("boom") })
	id2 := Subscribe(topic, func(Event) { done <- struct{}{} })
	defer Unsubscribe(id1)
	defer Unsubscribe(id2)

	Publish(topic, nil)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler not invoked after sibling panic")
	}
}
