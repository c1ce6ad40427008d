// Package httpapi is the catalog's HTTP surface (§6): route registration,
// CORS, security headers, per-IP rate limiting, and content negotiation
// sit here, on top of the assembler's pure response composition.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/vmunix/catalogd/internal/assembler"
	"github.com/vmunix/catalogd/internal/config"
	"github.com/vmunix/catalogd/internal/metrics"
	"github.com/vmunix/catalogd/internal/ratelimit"
)

// Server holds the collaborators every handler needs: the assembler for
// response composition, the per-IP limiter, CORS/compression policy, and
// the metrics registry.
type Server struct {
	asm     *assembler.Assembler
	limiter *ratelimit.PerIP
	cors    config.CORSConfig
	compress config.CompressionConfig
	metrics *metrics.Metrics
	log     *slog.Logger
}

// Deps bundles Server's collaborators.
type Deps struct {
	Assembler   *assembler.Assembler
	RateLimit   config.RateLimitConfig
	CORS        config.CORSConfig
	Compression config.CompressionConfig
	Metrics     *metrics.Metrics
	Log         *slog.Logger
}

// New constructs a Server ready to have its routes registered.
func New(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		asm:      d.Assembler,
		limiter:  ratelimit.NewPerIP(d.RateLimit.RPS, int(d.RateLimit.Burst)),
		cors:     d.CORS,
		compress: d.Compression,
		metrics:  d.Metrics,
		log:      log.With("component", "httpapi"),
	}
}

// Handler builds the full mux with every middleware layer applied, in the
// teacher's logRequests-wraps-everything style (cmd/arrgod/server.go):
// logging outermost, then security headers, rate limiting, CORS, and
// finally routing. Rate limiting sits outside CORS so a rate-limited
// client gets 429 on an OPTIONS preflight too, instead of CORS's 204
// short-circuit reaching the client before the per-IP bucket is checked.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	var h http.Handler = mux
	h = s.corsMiddleware(h)
	h = s.rateLimit(h)
	h = securityHeaders(h)
	h = s.logRequests(h)
	return h
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ping", handlePing)
	mux.HandleFunc("GET /health", handlePing)
	mux.HandleFunc("GET /v1/home", s.handleHome)
	mux.HandleFunc("GET /v1/titles/{id}", s.handleTitle)
	mux.HandleFunc("GET /v1/browse/{tab}/{page}", s.handleBrowse)
	mux.HandleFunc("GET /v1/search", s.handleSearch)
	mux.HandleFunc("GET /v1/search/{query}", s.handleSearch)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("/", handleNotFound)
}

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown route")
}
