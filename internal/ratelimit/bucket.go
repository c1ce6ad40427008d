// Package ratelimit provides the two rate limiters the catalog needs: a
// dual foreground/background token bucket guarding outbound Provider
// calls, and a per-IP limiter guarding inbound requests.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket is a classic mutex-protected token bucket: tokens refill
// continuously at rate per second up to capacity, and Acquire blocks
// (respecting ctx) until enough tokens are available. It intentionally
// predates x/time/rate's Limiter — the Provider client needs to hold two
// of these (foreground, background) and choose between them per call,
// which doesn't map cleanly onto a single rate.Limiter.
type TokenBucket struct {
	mu       sync.Mutex
	rate     float64
	capacity float64
	tokens   float64
	last     time.Time
}

// NewTokenBucket creates a bucket that refills at rate tokens/second up to
// capacity. A non-positive rate makes Acquire a no-op (unlimited).
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	return &TokenBucket{
		rate:     rate,
		capacity: capacity,
		tokens:   capacity,
		last:     time.Now(),
	}
}

// Acquire blocks until n tokens are available, or ctx is done. A
// non-positive rate always returns immediately.
func (b *TokenBucket) Acquire(ctx context.Context, n float64) error {
	if b.rate <= 0 {
		return nil
	}
	for {
		wait, ok := b.tryAcquire(n)
		if ok {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAcquire refills the bucket for elapsed time, then either deducts n
// and reports success, or reports how long the caller must wait for n
// tokens to accumulate.
func (b *TokenBucket) tryAcquire(n float64) (wait time.Duration, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if dt := now.Sub(b.last); dt > 0 {
		b.tokens = min(b.capacity, b.tokens+dt.Seconds()*b.rate)
		b.last = now
	}
	if b.tokens >= n {
		b.tokens -= n
		return 0, true
	}
	need := (n - b.tokens) / b.rate
	return time.Duration(need * float64(time.Second)), false
}

// ProviderBuckets splits a total outbound rate into a foreground bucket
// (interactive reads: title pages, search) and a background bucket
// (backfill), so bulk backfill traffic can never starve foreground
// requests. The foreground share is capped at rps-1 (when rps allows it)
// to guarantee the background bucket gets something whenever one is
// requested.
func ProviderBuckets(rps, foregroundRPS float64) (fg, bg *TokenBucket) {
	fgRate := foregroundRPS
	if rps > 1 {
		fgRate = min(fgRate, rps-1)
	} else {
		fgRate = rps
	}
	bgRate := rps - fgRate
	if bgRate < 0 {
		bgRate = 0
	}

	fg = NewTokenBucket(fgRate, max(1, fgRate))
	if bgRate > 0 {
		bg = NewTokenBucket(bgRate, max(1, bgRate))
	}
	return fg, bg
}
