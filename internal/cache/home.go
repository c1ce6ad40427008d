package cache

import (
	"sync"
	"time"
)

// HomeEntry carries every representation of one composed home response
// behind a single mutex, per §9's "cache entries carrying multiple
// representations" design note: the object itself plus its precomputed
// raw JSON, gzip, and brotli bodies, so a cache hit never needs to
// re-serialize or re-compress.
type HomeEntry[T any] struct {
	Object T
	Raw    []byte
	Gzip   []byte
	Brotli []byte
}

type homeSlot[T any] struct {
	entry   HomeEntry[T]
	expires time.Time
}

// Home is the per-lang_tag home response cache (§4.4.1 "Home-response
// cache", TTL 90 minutes).
type Home[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]homeSlot[T]
}

// NewHome creates a home cache whose entries expire ttl after being Set.
func NewHome[T any](ttl time.Duration) *Home[T] {
	return &Home[T]{ttl: ttl, entries: make(map[string]homeSlot[T])}
}

// Get returns the cached entry for langTag if present and unexpired.
func (h *Home[T]) Get(langTag string) (HomeEntry[T], bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var zero HomeEntry[T]
	s, ok := h.entries[langTag]
	if !ok || time.Now().After(s.expires) {
		return zero, false
	}
	return s.entry, true
}

// Set stores entry for langTag, resetting its TTL.
func (h *Home[T]) Set(langTag string, entry HomeEntry[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[langTag] = homeSlot[T]{entry: entry, expires: time.Now().Add(h.ttl)}
}
