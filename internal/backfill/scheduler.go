package backfill

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vmunix/catalogd/internal/metrics"
	"github.com/vmunix/catalogd/internal/provider"
	"github.com/vmunix/catalogd/internal/store"
)

// Key identifies one unit of backfill work: an entity, the locale it was
// requested in, and whether the caller wants a minimal card-enrichment
// pass or the full title-detail enrichment (§4.3).
type Key struct {
	Kind    store.MediaKind
	ID      int64
	LangTag string
	Full    bool
}

// Config bounds the scheduler's asynchronous work, per §4.3's defaults.
type Config struct {
	Workers    int
	QueueLimit int
	TTL        time.Duration
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{Workers: 8, QueueLimit: 2000, TTL: 10 * time.Minute}
}

// Scheduler deduplicates and runs backfill tasks on a bounded worker pool.
// recent and inflight share one mutex, per §5: the critical sections are
// short lookups and map writes, never I/O.
type Scheduler struct {
	cfg      Config
	store    *store.Store
	provider *provider.Client
	log      *slog.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	recent   map[Key]time.Time
	inflight map[Key]struct{}

	work chan Key
	wg   sync.WaitGroup

	now func() time.Time
}

// New creates a Scheduler. The work channel is created here, so Schedule
// is safe to call before Start: submissions wait in the buffered channel
// (up to QueueLimit) and run once Start launches the worker pool.
func New(st *store.Store, p *provider.Client, cfg Config, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueLimit < 1 {
		cfg.QueueLimit = 1
	}
	return &Scheduler{
		cfg:      cfg,
		store:    st,
		provider: p,
		log:      log.With("component", "backfill"),
		recent:   make(map[Key]time.Time),
		inflight: make(map[Key]struct{}),
		work:     make(chan Key, cfg.QueueLimit),
		now:      time.Now,
	}
}

// Start launches the worker pool. ctx cancellation stops workers from
// picking up new tasks, but per §5 an already-dequeued task always runs to
// completion.
func (s *Scheduler) Start(ctx context.Context) {
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
}

// Wait blocks until all workers have exited (used by graceful shutdown,
// after the caller has stopped feeding Schedule and cancelled ctx).
func (s *Scheduler) Wait() { s.wg.Wait() }

// SetMetrics attaches the registry Schedule records submissions and drops
// against. Safe to call before or after Start; nil-safe if never called.
func (s *Scheduler) SetMetrics(m *metrics.Metrics) { s.metrics = m }

func (s *Scheduler) recordDrop(reason string) {
	if s.metrics != nil {
		s.metrics.BackfillDropped.WithLabelValues(reason).Inc()
	}
}

// QueueDepth reports the number of keys currently queued or running,
// polled by the backfill queue depth gauge (internal/metrics).
func (s *Scheduler) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

// Schedule submits (kind, id, langTag, full) for background enrichment if,
// and only if, it hasn't been submitted within the TTL window and isn't
// already queued or running (§4.3 steps 1-4). It never blocks the caller
// and never returns an error: a full queue or a recent duplicate is
// silently dropped, matching the read path's rule that backfill never
// affects the response being served.
func (s *Scheduler) Schedule(kind store.MediaKind, id int64, langTag string, full bool) {
	key := Key{Kind: kind, ID: id, LangTag: langTag, Full: full}

	s.mu.Lock()
	if last, ok := s.recent[key]; ok && s.now().Sub(last) < s.cfg.TTL {
		s.mu.Unlock()
		s.recordDrop("recent")
		return
	}
	s.recent[key] = s.now()
	if _, busy := s.inflight[key]; busy {
		s.mu.Unlock()
		s.recordDrop("inflight")
		return
	}
	if len(s.inflight) >= s.cfg.QueueLimit {
		s.mu.Unlock()
		s.log.Debug("backfill queue full, dropping", "key", key)
		s.recordDrop("queue_full")
		return
	}
	s.inflight[key] = struct{}{}
	s.mu.Unlock()

	select {
	case s.work <- key:
		if s.metrics != nil {
			s.metrics.BackfillScheduled.WithLabelValues(string(key.Kind)).Inc()
		}
	default:
		// Channel buffer (sized to QueueLimit) is full even though our
		// inflight bookkeeping said there was room; drop rather than block.
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
		s.recordDrop("queue_full")
	}
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-s.work:
			if !ok {
				return
			}
			s.run(ctx, key)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, key Key) {
	defer func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}()

	lang, region := splitLangTag(key.LangTag)
	parts, err := Detect(s.store, key.Kind, key.ID, lang, region, key.Full)
	if err != nil {
		s.log.Warn("backfill: detect failed", "key", key, "error", err)
		return
	}
	if parts == nil {
		return
	}

	if err := s.execute(context.WithoutCancel(ctx), key, lang, region, parts); err != nil {
		s.log.Debug("backfill: task short-circuited", "key", key, "error", err)
	}
}

// splitLangTag recovers lang/region from a composed "lang" or
// "lang-REGION" tag, the inverse of locale.Locale.Tag, by splitting at the
// first '-'.
func splitLangTag(tag string) (lang, region string) {
	for i := 0; i < len(tag); i++ {
		if tag[i] == '-' {
			return tag[:i], tag[i+1:]
		}
	}
	return tag, ""
}
