package session

import (
	"context"
	"sync"

	"github.com/merolabs/meroview-backend/internal/model"
)

// Bus is the cross-client broadcast channel. Envelopes are wake-up signals
// only: subscribers re-read the relevant KV keys instead of trusting the
// payload, because not every transport delivers payloads reliably.
type Bus interface {
	Publish(ctx context.Context, env model.SyncEnvelope) error
	// Subscribe registers a handler and returns its cancel func. The
	// handler may be invoked from any goroutine, including for the
	// publisher's own envelopes.
	Subscribe(handler func(model.SyncEnvelope)) (cancel func())
}

// MemoryBus is the in-process Bus used by a single binary and by tests.
type MemoryBus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(model.SyncEnvelope)
}

// NewMemoryBus creates an empty MemoryBus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[int]func(model.SyncEnvelope))}
}

// Publish delivers env synchronously to every subscriber.
func (b *MemoryBus) Publish(_ context.Context, env model.SyncEnvelope) error {
	b.mu.Lock()
	handlers := make([]func(model.SyncEnvelope), 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(env)
	}
	return nil
}

// Subscribe registers handler until the returned cancel func runs.
func (b *MemoryBus) Subscribe(handler func(model.SyncEnvelope)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// MemoryKV is the in-process KV used by a single binary and by tests.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (kv *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *MemoryKV) Set(_ context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}

func (kv *MemoryKV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}
