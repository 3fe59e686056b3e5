package api

import (
	"context"
	"sync"
)

// refreshGate makes the token refresh single-flight. The first caller
// that hits an expired credential runs the refresh; everyone arriving
// while it is in flight waits on the same outcome instead of starting a
// second refresh. Waiters are woken in arrival order so the requests
// queued behind the refresh resume in their original issuance order.
type refreshGate struct {
	mu      sync.Mutex
	waiters []chan error
	active  bool
}

// Do runs fn, coalescing concurrent calls into one execution whose
// result every caller shares.
func (g *refreshGate) Do(ctx context.Context, fn func(context.Context) error) error {
	g.mu.Lock()
	if g.active {
		ch := make(chan error, 1)
		g.waiters = append(g.waiters, ch)
		g.mu.Unlock()

		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	g.active = true
	g.mu.Unlock()

	err := fn(ctx)

	g.mu.Lock()
	waiters := g.waiters
	g.waiters = nil
	g.active = false
	g.mu.Unlock()

	// FIFO wakeup; channels are buffered so a caller that already gave
	// up on its context cannot block the others.
	for _, ch := range waiters {
		ch <- err
	}

	return err
}
