package core

import (
	"sync"
	"time"
)

type EventType string

const (
	EventPoolModelLoaded EventType = "pool_model_loaded"
	EventPoolModelFailed EventType = "pool_model_failed"
	EventPoolLoaded      EventType = "pool_loaded"
)

// Event reports progress while a model pool loads. Done and Total count models.
type Event struct {
	Type    EventType `json:"type"`
	ModelID string    `json:"modelId,omitempty"`
	Err     string    `json:"error,omitempty"`
	Done    int       `json:"done"`
	Total   int       `json:"total"`
	Time    time.Time `json:"time"`
}

const subscriberBuffer = 64

// EventBus fans events out to subscribers. A subscriber that falls behind misses events
// rather than stalling the emitter.
type EventBus struct {
	subscribers map[EventType][]chan Event
	mutex       sync.RWMutex
	closed      bool
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
	}
}

// Subscribe returns a channel receiving every event of the given types, or of all pool
// event types when none are given.
func (eb *EventBus) Subscribe(types ...EventType) <-chan Event {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if eb.closed {
		close(ch)
		return ch
	}
	if len(types) == 0 {
		types = []EventType{EventPoolModelLoaded, EventPoolModelFailed, EventPoolLoaded}
	}
	for _, t := range types {
		eb.subscribers[t] = append(eb.subscribers[t], ch)
	}
	return ch
}

// Unsubscribe removes ch from every type it was subscribed to and closes it
func (eb *EventBus) Unsubscribe(ch <-chan Event) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	var found chan Event
	for t, subs := range eb.subscribers {
		kept := subs[:0]
		for _, c := range subs {
			if (<-chan Event)(c) == ch {
				found = c
				continue
			}
			kept = append(kept, c)
		}
		eb.subscribers[t] = kept
	}
	if found != nil {
		close(found)
	}
}

// Emit is safe on a nil bus
func (eb *EventBus) Emit(event Event) {
	if eb == nil {
		return
	}
	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	eb.mutex.RLock()
	defer eb.mutex.RUnlock()
	if eb.closed {
		return
	}
	for _, ch := range eb.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close closes every subscriber channel once, however many types it subscribed to
func (eb *EventBus) Close() {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true

	seen := make(map[chan Event]bool)
	for _, subs := range eb.subscribers {
		for _, ch := range subs {
			if !seen[ch] {
				seen[ch] = true
				close(ch)
			}
		}
	}
	eb.subscribers = make(map[EventType][]chan Event)
}

func (eb *EventBus) SubscriberCount(eventType EventType) int {
	eb.mutex.RLock()
	defer eb.mutex.RUnlock()
	return len(eb.subscribers[eventType])
}
