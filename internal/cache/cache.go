package cache

import (
	"context"
	"sync"
	"time"
)

// Package cache provides a small in-process read-through cache with per-call
// TTLs. It is injected rather than module-global so tests can control time
// and invalidation deterministically.

// Loader produces a fresh value for a cache key.
type Loader[T any] func(ctx context.Context) (T, error)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// TTL is a concurrency-safe read-through cache. The zero value is not usable;
// construct with New.
type TTL[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	now     func() time.Time
}

// New returns an empty cache using wall-clock time.
func New[T any]() *TTL[T] {
	return &TTL[T]{
		entries: make(map[string]entry[T]),
		now:     time.Now,
	}
}

// NewWithClock returns a cache whose notion of time is supplied by now.
// Intended for tests.
func NewWithClock[T any](now func() time.Time) *TTL[T] {
	return &TTL[T]{
		entries: make(map[string]entry[T]),
		now:     now,
	}
}

// GetOrLoad returns the cached value for key when it is still fresh, otherwise
// invokes load, stores the result for ttl, and returns it. Load errors are not
// cached.
func (c *TTL[T]) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load Loader[T]) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	// The load runs outside the lock; concurrent misses may load more than
	// once, last writer wins. Acceptable for the cheap reads cached here.
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = entry[T]{value: v, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return v, nil
}

// Invalidate drops the cached value for key, if any.
func (c *TTL[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
