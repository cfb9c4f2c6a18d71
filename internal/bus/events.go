// Package bus provides a small in-process pub/sub event bus.
package bus

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/Akuma-real/memegate/internal/logging"
)

// Event topics published by memegate components.
const (
	// TopicMessageSent fires after a reply has been delivered by the transport.
	// Payload: SentEvent.
	TopicMessageSent = "message.sent"

	// TopicEmotionsReloaded fires after the emotion override file was re-read.
	TopicEmotionsReloaded = "emotions.reloaded"

	// TopicMemesIngested fires after an upload batch was saved.
	// Payload: IngestedEvent.
	TopicMemesIngested = "memes.ingested"
)

// SentEvent is the payload for TopicMessageSent.
type SentEvent struct {
	ResponseID  string // correlation id minted when the response was produced
	Destination string // channel-specific destination the text went to
}

// IngestedEvent is the payload for TopicMemesIngested.
type IngestedEvent struct {
	Category string
	Saved    int
}

// Event represents a notification broadcast to subscribers.
type Event struct {
	Topic     string
	Data      any
	Timestamp time.Time
}

// Handler processes an event (no return value - fire and forget)
type Handler func(Event)

// SubscriptionID uniquely identifies an event subscription
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

var (
	subscriptions   = make(map[string][]subscription)
	subscriptionsMu sync.RWMutex

	nextSubscriptionID uint64
)

// Subscribe registers a handler for an event topic.
// Returns a SubscriptionID that can be used to unsubscribe.
func Subscribe(topic string, handler Handler) SubscriptionID {
	id := SubscriptionID(atomic.AddUint64(&nextSubscriptionID, 1))

	subscriptionsMu.Lock()
	defer subscriptionsMu.Unlock()

	subscriptions[topic] = append(subscriptions[topic], subscription{
		id:      id,
		handler: handler,
	})

	L_debug("bus: subscribed", "topic", topic, "subscriptionID", id)
	return id
}

// Unsubscribe removes a subscription by its ID.
// Returns true if the subscription was found and removed.
func Unsubscribe(id SubscriptionID) bool {
	subscriptionsMu.Lock()
	defer subscriptionsMu.Unlock()

	for topic, subs := range subscriptions {
		for i, sub := range subs {
			if sub.id == id {
				subscriptions[topic] = append(subs[:i], subs[i+1:]...)
				if len(subscriptions[topic]) == 0 {
					delete(subscriptions, topic)
				}
				return true
			}
		}
	}
	return false
}

// Publish broadcasts an event to all subscribers of the topic.
// Handlers are called asynchronously in separate goroutines; a panicking
// handler is recovered so it cannot take down the event pipeline.
func Publish(topic string, data any) {
	event := Event{
		Topic:     topic,
		Data:      data,
		Timestamp: time.Now(),
	}

	subscriptionsMu.RLock()
	subs := subscriptions[topic]
	// Copy slice to avoid holding lock during handler execution
	subsCopy := make([]subscription, len(subs))
	copy(subsCopy, subs)
	subscriptionsMu.RUnlock()

	if len(subsCopy) == 0 {
		L_trace("bus: published (no subscribers)", "topic", topic)
		return
	}

	L_debug("bus: published", "topic", topic, "subscribers", len(subsCopy))

	for _, sub := range subsCopy {
		go func(s subscription) {
			defer func() {
				if r := recover(); r != nil {
					L_error("bus: handler panic", "topic", topic, "subscriptionID", s.id, "panic", r)
				}
			}()
			s.handler(event)
		}(sub)
	}
}

// CountSubscribers returns the number of subscribers for a topic
func CountSubscribers(topic string) int {
	subscriptionsMu.RLock()
	defer subscriptionsMu.RUnlock()

	return len(subscriptions[topic])
}
