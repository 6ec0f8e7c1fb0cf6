package events

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the default channel buffer size for subscribers.
const DefaultBufferSize = 100

// Router fans events out from the controller to any number of subscribers.
// Emit never blocks: the controller runs on the UI loop and must not stall
// behind a slow sink.
type Router struct {
	subscribers []chan Event
	bufferSize  int
	mu          sync.RWMutex
	closed      bool
	dropped     atomic.Int64
}

// NewRouter creates a new event router with the specified default buffer size.
// If bufferSize is 0 or negative, DefaultBufferSize is used.
func NewRouter(bufferSize int) *Router {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Router{
		bufferSize: bufferSize,
	}
}

// Emit publishes an event to all subscribers. If a subscriber's channel is
// full the event is dropped for that subscriber and counted.
// Emit is safe to call concurrently and after Close (becomes a no-op).
func (r *Router) Emit(event Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	for _, ch := range r.subscribers {
		select {
		case ch <- event:
		default:
			r.dropped.Add(1)
			slog.Warn("event dropped: subscriber channel full",
				"event_type", event.Type(),
				"source", event.Source(),
			)
		}
	}
}

// Dropped returns how many deliveries were dropped because a subscriber
// was full.
func (r *Router) Dropped() int64 {
	return r.dropped.Load()
}

// Subscribe returns a channel with the router's default buffer size.
// The returned channel is closed when the router is closed.
func (r *Router) Subscribe() <-chan Event {
	return r.SubscribeBuffered(r.bufferSize)
}

// SubscribeBuffered returns a channel with the specified buffer size.
func (r *Router) SubscribeBuffered(size int) <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, size)
	r.subscribers = append(r.subscribers, ch)
	return ch
}

// Close closes all subscriber channels. Later Emit calls are no-ops and
// later Subscribe calls return closed channels. Close is idempotent.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.closed = true
	for _, ch := range r.subscribers {
		close(ch)
	}
	r.subscribers = nil
}
