package message

import (
	"sync"

	model "github.com/zhouzirui/hello-fullstack/backend/internal/model/message"
)

// Hub fans out message updates. Each subscriber only keeps the latest
// value, so a slow reader never blocks a writer.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan model.Message]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan model.Message]struct{})}
}

// Subscribe returns a channel of updates and a func that closes it.
func (h *Hub) Subscribe() (<-chan model.Message, func()) {
	ch := make(chan model.Message, 1)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers m to every subscriber, replacing any undelivered value.
func (h *Hub) Publish(m model.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- m:
			continue
		default:
		}
		// Drop the stale value and retry once.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- m:
		default:
		}
	}
}

// Len reports the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
