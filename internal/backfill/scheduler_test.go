package backfill

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vmunix/catalogd/internal/provider"
	"github.com/vmunix/catalogd/internal/ratelimit"
	"github.com/vmunix/catalogd/internal/store"
)

func TestScheduleDedupesBeforeWorkersDrainQueue(t *testing.T) {
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	fg, bg := ratelimit.ProviderBuckets(1000, 500)
	p := provider.New("key", fg, bg)
	sched := New(s, p, Config{Workers: 1, QueueLimit: 10, TTL: time.Hour}, nil)

	sched.Schedule(store.KindMovie, 1, "en", false)
	sched.Schedule(store.KindMovie, 1, "en", false)
	sched.Schedule(store.KindMovie, 1, "en", false)

	require.Len(t, sched.work, 1, "a key already recent/inflight must not be queued twice")
}

func TestScheduleRunsExactlyOneProviderFetchForDuplicateSubmissions(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// One task fetches the base record and then its translations;
		// count only the base-record fetch, once per task.
		if r.URL.Path == "/movie/1" {
			atomic.AddInt32(&calls, 1)
		}
		w.Write([]byte(`{"id":1,"title":"Example"}`))
	}))
	t.Cleanup(srv.Close)

	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	fg, bg := ratelimit.ProviderBuckets(1000, 500)
	p := provider.New("key", fg, bg, provider.WithBaseURL(srv.URL))
	sched := New(s, p, Config{Workers: 2, QueueLimit: 10, TTL: time.Hour}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)

	for i := 0; i < 5; i++ {
		sched.Schedule(store.KindMovie, 1, "en", false)
	}

	require.Eventually(t, func() bool {
		mv, err := s.GetMovie(1)
		return err == nil && mv.Title == "Example"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	sched.Wait()
	require.Equal(t, int32(1), atomic.LoadInt32(&calls), "duplicate submissions within the TTL window must trigger at most one Provider fetch")
}

func TestScheduleDropsWhenQueueFull(t *testing.T) {
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	fg, bg := ratelimit.ProviderBuckets(1000, 500)
	p := provider.New("key", fg, bg)
	sched := New(s, p, Config{Workers: 1, QueueLimit: 1, TTL: time.Hour}, nil)

	sched.Schedule(store.KindMovie, 1, "en", false)
	sched.Schedule(store.KindMovie, 2, "en", false)

	require.Len(t, sched.work, 1, "a second distinct key must be dropped once inflight is at QueueLimit")
}
