package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmunix/catalogd/internal/config"
)

func newCORSServer(t *testing.T, cfg config.CORSConfig) *Server {
	t.Helper()
	srv := newTestServer(t)
	srv.cors = cfg
	return srv
}

func TestCORSEchoesAllowedLocalhostOrigin(t *testing.T) {
	srv := newCORSServer(t, config.CORSConfig{AllowLocalhost: true})
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Values("Vary"), "Origin")
}

func TestCORSRejectsUnlistedOrigin(t *testing.T) {
	srv := newCORSServer(t, config.CORSConfig{AllowHosts: map[string]bool{"example.com": true}})
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.org")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowsHTTPSAllowListedHost(t *testing.T) {
	srv := newCORSServer(t, config.CORSConfig{AllowHosts: map[string]bool{"example.com": true}})
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsPlainHTTPAllowListedHost(t *testing.T) {
	srv := newCORSServer(t, config.CORSConfig{AllowHosts: map[string]bool{"example.com": true}})
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSOptionsPreflightReturns204(t *testing.T) {
	srv := newCORSServer(t, config.CORSConfig{AllowLocalhost: true})
	req := httptest.NewRequest(http.MethodOptions, "/v1/home", nil)
	req.Header.Set("Origin", "http://localhost")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}
