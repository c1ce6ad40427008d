package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmunix/catalogd/internal/assembler"
	"github.com/vmunix/catalogd/internal/config"
	"github.com/vmunix/catalogd/internal/store"
)

func newRateLimitedServer(t *testing.T, rps, burst float64) *Server {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	asm := assembler.New(assembler.Deps{Store: s})
	return New(Deps{
		Assembler: asm,
		RateLimit: config.RateLimitConfig{RPS: rps, Burst: burst},
		CORS:      config.CORSConfig{AllowLocalhost: true},
	})
}

func TestRateLimitRejectsOverBurstWith429(t *testing.T) {
	srv := newRateLimitedServer(t, 1, 1)

	doGet := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.RemoteAddr = "203.0.113.9:1234"
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, r)
		return rec
	}

	first := doGet()
	require.Equal(t, http.StatusOK, first.Code)

	second := doGet()
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestRateLimitTracksEachIPIndependently(t *testing.T) {
	srv := newRateLimitedServer(t, 1, 1)

	doGet := func(ip string) int {
		r := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, r)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, doGet("203.0.113.1"))
	require.Equal(t, http.StatusOK, doGet("203.0.113.2"))
}

func TestRateLimitAppliesToOptionsPreflight(t *testing.T) {
	srv := newRateLimitedServer(t, 1, 1)

	doOptions := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodOptions, "/v1/home", nil)
		r.RemoteAddr = "203.0.113.9:1234"
		r.Header.Set("Origin", "http://localhost")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, r)
		return rec
	}

	first := doOptions()
	require.Equal(t, http.StatusNoContent, first.Code, "first preflight within burst still gets CORS's 204")

	second := doOptions()
	require.Equal(t, http.StatusTooManyRequests, second.Code, "a rate-limited client must not get a free 204 on preflight")
	require.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	require.Equal(t, "203.0.113.5", clientIP(r))
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	require.Equal(t, "10.0.0.1", clientIP(r))
}
