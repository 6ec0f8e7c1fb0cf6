package testutil

import (
	"context"
	"sync"
)

// GatedRefresher is a refresh operation that blocks until released, so tests
// can observe the controller while a refresh is in flight. It counts calls
// and returns Err once released.
type GatedRefresher struct {
	mu      sync.Mutex
	calls   int
	Err     error
	gate    chan struct{}
	started chan struct{}
}

// NewGatedRefresher returns a refresher whose calls block until Release.
func NewGatedRefresher() *GatedRefresher {
	return &GatedRefresher{
		gate:    make(chan struct{}),
		started: make(chan struct{}, 16),
	}
}

// Refresh records the call and waits for Release or ctx.
func (g *GatedRefresher) Refresh(ctx context.Context) error {
	g.mu.Lock()
	g.calls++
	err := g.Err
	g.mu.Unlock()

	select {
	case g.started <- struct{}{}:
	default:
	}

	select {
	case <-g.gate:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Started is signalled each time Refresh is entered.
func (g *GatedRefresher) Started() <-chan struct{} {
	return g.started
}

// Release unblocks every pending and future call. It must be called once.
func (g *GatedRefresher) Release() {
	close(g.gate)
}

// Calls returns how many times Refresh was invoked.
func (g *GatedRefresher) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
