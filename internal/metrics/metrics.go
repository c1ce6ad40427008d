// Package metrics exposes the catalog API's Prometheus instrumentation:
// request counters/histograms by route, cache hit/miss counters per tier,
// and backfill queue depth. This is ambient instrumentation the spec
// doesn't name directly (§1 scopes the HTTP framing layer out) but that
// the rest of the retrieval pack carries alongside every HTTP surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors registered against a single registry, so
// tests can construct an isolated instance instead of fighting over the
// global default registry.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	BackfillScheduled *prometheus.CounterVec
	BackfillDropped   *prometheus.CounterVec
	BackfillQueueSize prometheus.GaugeFunc

	ProviderRequests *prometheus.CounterVec
}

// New creates a fresh registry and registers every collector against it.
// queueSize is polled lazily by the backfill queue depth gauge.
func New(queueSize func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	m := &Metrics{
		Registry: reg,
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total HTTP requests by route and status class.",
		}, []string{"route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request duration by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		CacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Cache hits by tier.",
		}, []string{"tier"}),
		CacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Cache misses by tier.",
		}, []string{"tier"}),
		BackfillScheduled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_backfill_scheduled_total",
			Help: "Backfill tasks submitted to the worker pool, by media kind.",
		}, []string{"kind"}),
		BackfillDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_backfill_dropped_total",
			Help: "Backfill submissions dropped by reason (recent, inflight, queue_full).",
		}, []string{"reason"}),
		ProviderRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_provider_requests_total",
			Help: "Outbound Provider requests by bucket and outcome.",
		}, []string{"bucket", "outcome"}),
	}
	if queueSize != nil {
		m.BackfillQueueSize = f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "catalog_backfill_queue_depth",
			Help: "Current number of backfill tasks queued or in flight.",
		}, queueSize)
	}
	return m
}

// Handler returns the /metrics scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
