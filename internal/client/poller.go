package client

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// Default jitter window between polls.
const (
	DefaultJitterMin = 3 * time.Second
	DefaultJitterMax = 5 * time.Second
)

// Poller repeatedly invokes a refresh callback with a jittered delay drawn
// uniformly from [min, max) before each call. The next delay is scheduled
// only after the previous call returns, so a slow callback postpones —
// never overlaps — the following one. Stop (or cancelling the Start
// context) tears down the chain immediately: pending waits are abandoned
// and no callback fires afterwards.
type Poller struct {
	cb      func(ctx context.Context) error
	min     time.Duration
	max     time.Duration
	onError func(error)

	mu     sync.Mutex
	rng    *rand.Rand
	cancel context.CancelFunc
	done   chan struct{}
}

// PollerOption customizes a Poller.
type PollerOption func(*Poller)

// WithJitter overrides the [min, max) delay window.
func WithJitter(min, max time.Duration) PollerOption {
	return func(p *Poller) {
		p.min = min
		p.max = max
	}
}

// WithOnError receives every non-cancellation callback error. Without it
// errors are silently dropped, matching a dashboard that just shows the
// previous data until the next poll succeeds.
func WithOnError(fn func(error)) PollerOption {
	return func(p *Poller) { p.onError = fn }
}

// WithPollerRand pins the jitter source for deterministic tests.
func WithPollerRand(rng *rand.Rand) PollerOption {
	return func(p *Poller) { p.rng = rng }
}

// NewPoller creates a Poller around cb. The callback must honor its
// context; it receives a context cancelled at teardown.
func NewPoller(cb func(ctx context.Context) error, opts ...PollerOption) *Poller {
	p := &Poller{
		cb:  cb,
		min: DefaultJitterMin,
		max: DefaultJitterMax,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the polling chain. Calling Start on a running Poller is
// a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(runCtx, p.done)
}

// Stop cancels pending waits and the in-flight callback, then waits for
// the chain to wind down. Safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(p.jitter())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		// ctx may have been cancelled between the timer firing and this
		// point; never invoke the callback after teardown.
		if ctx.Err() != nil {
			return
		}

		if err := p.cb(ctx); err != nil && !errors.Is(err, context.Canceled) {
			if p.onError != nil {
				p.onError(err)
			}
		}

		timer.Reset(p.jitter())
	}
}

func (p *Poller) jitter() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	span := p.max - p.min
	if span <= 0 {
		return p.min
	}
	return p.min + time.Duration(p.rng.Int63n(int64(span)))
}
