package client

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerFiresWithinJitterWindow(t *testing.T) {
	const min, max = 10 * time.Millisecond, 30 * time.Millisecond

	var mu sync.Mutex
	var times []time.Time

	p := NewPoller(
		func(ctx context.Context) error {
			mu.Lock()
			times = append(times, time.Now())
			mu.Unlock()
			return nil
		},
		WithJitter(min, max),
		WithPollerRand(rand.New(rand.NewSource(1))),
	)

	start := time.Now()
	p.Start(context.Background())
	time.Sleep(150 * time.Millisecond)
	p.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, times)

	// every gap, including the first, respects the lower bound; upper
	// bound gets slack for scheduler delay.
	prev := start
	for _, ts := range times {
		gap := ts.Sub(prev)
		assert.GreaterOrEqual(t, gap, min)
		assert.Less(t, gap, max+50*time.Millisecond)
		prev = ts
	}
}

func TestPollerStopPreventsFurtherCalls(t *testing.T) {
	var calls atomic.Int32

	p := NewPoller(
		func(ctx context.Context) error {
			calls.Add(1)
			return nil
		},
		WithJitter(5*time.Millisecond, 10*time.Millisecond),
	)

	p.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	p.Stop()

	after := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "callback fired after Stop")
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := NewPoller(func(ctx context.Context) error { return nil })
	p.Start(context.Background())
	p.Stop()
	p.Stop()
}

func TestPollerStartWhileRunningIsNoop(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(
		func(ctx context.Context) error {
			calls.Add(1)
			return nil
		},
		WithJitter(5*time.Millisecond, 6*time.Millisecond),
	)

	ctx := context.Background()
	p.Start(ctx)
	p.Start(ctx)
	time.Sleep(40 * time.Millisecond)
	p.Stop()

	// a second chain would roughly double the rate.
	assert.LessOrEqual(t, calls.Load(), int32(10))
}

func TestPollerNoOverlap(t *testing.T) {
	var active, maxActive atomic.Int32

	p := NewPoller(
		func(ctx context.Context) error {
			n := active.Add(1)
			if n > maxActive.Load() {
				maxActive.Store(n)
			}
			time.Sleep(15 * time.Millisecond)
			active.Add(-1)
			return nil
		},
		WithJitter(time.Millisecond, 2*time.Millisecond),
	)

	p.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	p.Stop()

	assert.Equal(t, int32(1), maxActive.Load(), "callbacks overlapped")
}

func TestPollerReportsErrorsButSwallowsCancellation(t *testing.T) {
	boom := errors.New("boom")
	var reported []error
	var mu sync.Mutex

	first := true
	p := NewPoller(
		func(ctx context.Context) error {
			if first {
				first = false
				return boom
			}
			return context.Canceled
		},
		WithJitter(5*time.Millisecond, 6*time.Millisecond),
		WithOnError(func(err error) {
			mu.Lock()
			reported = append(reported, err)
			mu.Unlock()
		}),
	)

	p.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], boom)
}

func TestPollerContextCancelTearsDown(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(
		func(ctx context.Context) error {
			calls.Add(1)
			return nil
		},
		WithJitter(5*time.Millisecond, 6*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load())

	p.Stop()
}
