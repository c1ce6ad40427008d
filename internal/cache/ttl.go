// Package cache provides the response cache tier (§4.5): a generic
// key/value TTL cache used for the similar-titles and trending-list
// caches, plus a dedicated multi-representation cache for the home
// endpoint's precomputed raw/gzip/brotli bodies.
package cache

import (
	"sync"
	"time"
)

// TTL is a generic mutex-protected map[key]value cache with a single,
// cache-wide expiry. Eviction is purely lazy: a Get past its entry's TTL
// reports a miss but the stale entry isn't removed until the next Set for
// that key, matching §4.5 ("Eviction is purely lazy via TTL").
type TTL[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[K]ttlEntry[V]
}

type ttlEntry[V any] struct {
	value   V
	expires time.Time
}

// NewTTL creates a cache whose entries expire ttl after being Set.
func NewTTL[K comparable, V any](ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{ttl: ttl, entries: make(map[K]ttlEntry[V])}
}

// Get returns the cached value for key if present and unexpired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expires) {
		return zero, false
	}
	return e.value, true
}

// Set stores value for key, resetting its TTL.
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = ttlEntry[V]{value: value, expires: time.Now().Add(c.ttl)}
}

// Len reports the number of entries currently held, expired or not —
// exposed for metrics (cache size gauges), not for eviction decisions.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
