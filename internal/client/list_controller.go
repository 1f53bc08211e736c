package client

import (
	"context"
	"sync"
	"time"
)

// RefreshInterval is the fixed period of the background re-fetch that
// keeps a filtered grid approximately live.
const RefreshInterval = 5 * time.Second

// ListController implements the grid data-fetch discipline: every refresh
// cancels the still-pending previous fetch before issuing a new one, so a
// slow stale response can never overwrite a fresher result. Cancelled
// fetches are not errors and touch neither the applied result nor the
// loading flag. An independent fixed-period timer re-triggers the same
// cancel-then-fetch sequence.
//
// The fetch closure reads whatever filter inputs the caller owns; call
// Refresh after changing them.
type ListController[R any] struct {
	fetch   func(ctx context.Context) (R, error)
	apply   func(R)
	onError func(error)

	mu       sync.Mutex
	root     context.Context
	stop     context.CancelFunc
	inflight context.CancelFunc
	gen      int
	loading  bool
	wg       sync.WaitGroup
}

// NewListController wires fetch to apply. onError may be nil; it receives
// every non-cancellation fetch failure.
func NewListController[R any](
	fetch func(ctx context.Context) (R, error),
	apply func(R),
	onError func(error),
) *ListController[R] {
	return &ListController[R]{fetch: fetch, apply: apply, onError: onError}
}

// Start issues the initial fetch and begins the background refresh timer.
func (c *ListController[R]) Start(ctx context.Context) {
	c.mu.Lock()
	if c.root != nil {
		c.mu.Unlock()
		return
	}
	root, stop := context.WithCancel(ctx)
	c.root = root
	c.stop = stop
	c.mu.Unlock()

	c.Refresh()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-root.Done():
				return
			case <-ticker.C:
				c.Refresh()
			}
		}
	}()
}

// Stop cancels the refresh timer and any in-flight fetch and waits for
// both to unwind. No apply runs after Stop returns.
func (c *ListController[R]) Stop() {
	c.mu.Lock()
	stop := c.stop
	c.root, c.stop = nil, nil
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
	c.wg.Wait()
}

// Refresh cancels the pending fetch, if any, and issues a new one. Call it
// whenever a filter input changes; the background timer calls it too.
func (c *ListController[R]) Refresh() {
	c.mu.Lock()
	if c.root == nil || c.root.Err() != nil {
		c.mu.Unlock()
		return
	}
	if c.inflight != nil {
		c.inflight()
	}
	fetchCtx, cancel := context.WithCancel(c.root)
	c.inflight = cancel
	c.gen++
	gen := c.gen
	c.loading = true
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		result, err := c.fetch(fetchCtx)

		// apply/onError run under the lock so results land strictly in
		// issue order; the callbacks must not call back into the
		// controller.
		c.mu.Lock()
		defer c.mu.Unlock()

		// A superseded fetch must not touch anything: not the result,
		// not the loading flag, and it is not an error either.
		if gen != c.gen || fetchCtx.Err() != nil {
			return
		}
		c.loading = false
		c.inflight = nil

		if err != nil {
			if c.onError != nil {
				c.onError(err)
			}
			return
		}
		c.apply(result)
	}()
}

// Loading reports whether the latest (non-superseded) fetch is still
// pending.
func (c *ListController[R]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
