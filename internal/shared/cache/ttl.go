package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is an in-process, time-expiring cache for small, recomputable
// lookups (customer group membership, variant facet values). Reads are
// concurrent-safe; racing writes are harmless since values are
// idempotent recomputations. The clock is injected so expiry is
// testable.
type TTL[K comparable, V any] struct {
	clock   clockwork.Clock
	mu      sync.RWMutex
	entries map[K]ttlEntry[V]
}

// NewTTL creates an empty cache using the given clock. A nil clock
// falls back to the real one.
func NewTTL[K comparable, V any](clock clockwork.Clock) *TTL[K, V] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TTL[K, V]{
		clock:   clock,
		entries: make(map[K]ttlEntry[V]),
	}
}

// GetOrCompute returns the cached value for key, or runs compute and
// caches its result for ttl. Errors from compute are returned without
// caching.
func (c *TTL[K, V]) GetOrCompute(key K, ttl time.Duration, compute func() (V, error)) (V, error) {
	now := c.clock.Now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.expiresAt) {
		return entry.value, nil
	}

	value, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = ttlEntry[V]{value: value, expiresAt: now.Add(ttl)}
	c.mu.Unlock()

	return value, nil
}

// Invalidate drops the entry for key.
func (c *TTL[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear drops all entries.
func (c *TTL[K, V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[K]ttlEntry[V])
	c.mu.Unlock()
}
