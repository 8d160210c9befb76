package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// subscriberBuffer is how many undelivered events a slow client may hold
// before further events for it are dropped.
const subscriberBuffer = 16

// Event is one message pushed to the browsers of a user.
type Event struct {
	Name string
	Data interface{}
}

// WriteTo writes the event in text/event-stream framing.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event data: %w", err)
	}
	n, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, payload)
	return int64(n), err
}

// Hub fans events out to every open stream of a user.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream for userID. The returned cleanup closes the
// channel and must be called exactly once.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan Event]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[userID], ch)
			close(ch)
			if len(h.subscribers[userID]) == 0 {
				delete(h.subscribers, userID)
			}
		})
	}

	return ch, cleanup
}

// Publish never blocks. It returns how many streams received the event.
func (h *Hub) Publish(userID string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[userID] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// SubscriberCount returns the number of open streams of a user.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// TotalSubscribers returns the number of open streams across all users.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
