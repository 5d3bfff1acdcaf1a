package events

import (
	"sync"
	"time"
)

// Topics published by the meeting watcher.
const (
	TopicMeetingOpened = "meeting.window.opened"
	TopicMeetingClosed = "meeting.window.closed"
)

// Event is a lightweight in-process notification about an appointment's
// meeting window.
type Event struct {
	Type          string
	AppointmentID int64
	DoctorID      int64
	At            time.Time
}

// Handler reacts to an event.
type Handler func(Event)

// Bus provides in-process pub/sub. Handlers run synchronously on the
// publisher's goroutine; subscribers decide their own concurrency.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[topic] = append(b.subscribers[topic], handler)
}

// Publish notifies subscribers of the event's topic.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.At.IsZero() {
		event.At = time.Now()
	}

	for _, handler := range handlers {
		handler(event)
	}
}
