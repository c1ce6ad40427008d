package assembler

import (
	"log/slog"

	"github.com/vmunix/catalogd/internal/backfill"
	"github.com/vmunix/catalogd/internal/cache"
	"github.com/vmunix/catalogd/internal/locale"
	"github.com/vmunix/catalogd/internal/metrics"
	"github.com/vmunix/catalogd/internal/provider"
	"github.com/vmunix/catalogd/internal/store"
)

// Assembler composes every §4.4 response from the store, the Provider
// client, and the backfill scheduler. It holds the caches each endpoint
// consults before doing any work.
type Assembler struct {
	store    *store.Store
	provider *provider.Client
	backfill *backfill.Scheduler
	log      *slog.Logger
	metrics  *metrics.Metrics

	homeCache     *cache.Home[Home]
	similarCache  *cache.TTL[similarKey, []Card]
	trendingCache *cache.TTL[trendingKey, []provider.TrendingItem]
	logoCache     *cache.TTL[logoKey, string]
}

type similarKey struct {
	Kind    string
	ID      int64
	LangTag string
}

type trendingKey struct {
	Window string
}

type logoKey struct {
	LogosJSON string
	Lang      string
}

// Deps bundles the collaborators New needs. The cache TTLs are not part of
// Deps; New always uses the 90-minute home and 3-day similar windows.
type Deps struct {
	Store    *store.Store
	Provider *provider.Client
	Backfill *backfill.Scheduler
	Metrics  *metrics.Metrics
	Log      *slog.Logger
}

// New constructs an Assembler with the spec's default cache TTLs.
func New(d Deps) *Assembler {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{
		store:         d.Store,
		provider:      d.Provider,
		backfill:      d.Backfill,
		metrics:       d.Metrics,
		log:           log.With("component", "assembler"),
		homeCache:     cache.NewHome[Home](homeCacheTTL),
		similarCache:  cache.NewTTL[similarKey, []Card](similarCacheTTL),
		trendingCache: cache.NewTTL[trendingKey, []provider.TrendingItem](trendingCacheTTL),
		logoCache:     cache.NewTTL[logoKey, string](logoCacheTTL),
	}
}

// recordCache records a cache hit or miss for tier, nil-safe for
// assemblers built without a metrics registry (tests, or a deployment
// that doesn't scrape /metrics).
func (a *Assembler) recordCache(tier string, hit bool) {
	if a.metrics == nil {
		return
	}
	if hit {
		a.metrics.CacheHits.WithLabelValues(tier).Inc()
	} else {
		a.metrics.CacheMisses.WithLabelValues(tier).Inc()
	}
}

// scheduleBackfill is a nil-safe convenience wrapper: assemblers built
// without a scheduler (tests, or a Provider-less deployment) simply never
// schedule anything.
func (a *Assembler) scheduleBackfill(kind store.MediaKind, id int64, loc locale.Locale, full bool) {
	if a.backfill == nil {
		return
	}
	a.backfill.Schedule(kind, id, loc.Tag(), full)
}
