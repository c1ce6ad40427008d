package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// PerIP rate-limits inbound requests by client IP using one x/time/rate
// Limiter per address, with an eviction rule: once the map grows past
// 20000 entries it is cleared wholesale rather than tracked per-entry,
// trading precision for a hard memory ceiling under an address-spoofing
// flood.
type PerIP struct {
	mu    sync.Mutex
	rps   float64
	burst int
	seen  map[string]*rate.Limiter
}

// NewPerIP creates a per-IP limiter allowing rps requests/second per
// address with burst as the token cap. A non-positive rps or burst
// disables limiting (Allow always returns true).
func NewPerIP(rps float64, burst int) *PerIP {
	return &PerIP{rps: rps, burst: burst, seen: make(map[string]*rate.Limiter)}
}

// Allow reports whether ip may make a request now, deducting a token if
// so.
func (p *PerIP) Allow(ip string) bool {
	if p.rps <= 0 || p.burst <= 0 {
		return true
	}

	p.mu.Lock()
	lim, ok := p.seen[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(p.rps), p.burst)
		p.seen[ip] = lim
		p.evictIfHuge()
	}
	p.mu.Unlock()

	return lim.Allow()
}

// evictIfHuge clears the whole map once it grows past a size that would
// otherwise let an IP-spoofing flood grow memory unbounded. Must be
// called with mu held.
func (p *PerIP) evictIfHuge() {
	if len(p.seen) > 20000 {
		p.seen = make(map[string]*rate.Limiter)
	}
}
