package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/pixload/source"
)

// GatedStore wraps a Store and holds every Open until the gate is released.
// It records the order in which opens were requested.
type GatedStore struct {
	inner source.Store

	mu     sync.Mutex
	opened []string
	gate   chan struct{}
	once   sync.Once
	notify chan struct{}
}

// NewGatedStore creates a closed gate over inner.
func NewGatedStore(inner source.Store) *GatedStore {
	return &GatedStore{
		inner:  inner,
		gate:   make(chan struct{}),
		notify: make(chan struct{}, 1),
	}
}

// Open records name and waits for Release or ctx.
func (s *GatedStore) Open(ctx context.Context, name string) (source.Blob, error) {
	s.mu.Lock()
	s.opened = append(s.opened, name)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}

	select {
	case <-s.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.inner.Open(ctx, name)
}

// Release opens the gate for all current and future calls.
func (s *GatedStore) Release() {
	s.once.Do(func() { close(s.gate) })
}

// Opened returns the names passed to Open, in call order.
func (s *GatedStore) Opened() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.opened...)
}

// Notify is signalled after each Open call is recorded.
func (s *GatedStore) Notify() <-chan struct{} {
	return s.notify
}

// CountingStore wraps a Store and counts opens per name.
type CountingStore struct {
	inner source.Store

	mu     sync.Mutex
	counts map[string]int
}

// NewCountingStore creates a CountingStore over inner.
func NewCountingStore(inner source.Store) *CountingStore {
	return &CountingStore{inner: inner, counts: make(map[string]int)}
}

// Open counts and forwards.
func (s *CountingStore) Open(ctx context.Context, name string) (source.Blob, error) {
	s.mu.Lock()
	s.counts[name]++
	s.mu.Unlock()
	return s.inner.Open(ctx, name)
}

// Count returns how often name was opened.
func (s *CountingStore) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[name]
}
