package httpapi

import (
	"net/http"
	"time"
)

// statusRecorder captures the status code a handler wrote, the way
// cmd/arrgod/server.go's logRequests does.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		if s.metrics != nil {
			s.metrics.RequestsTotal.WithLabelValues(r.Pattern, statusClass(wrapped.status)).Inc()
			s.metrics.RequestDuration.WithLabelValues(r.Pattern).Observe(time.Since(start).Seconds())
		}
	})
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
