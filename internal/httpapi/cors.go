package httpapi

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// corsMiddleware implements §6's CORS policy: the request Origin is
// echoed back, with Vary: Origin, only when (a) localhost is explicitly
// allowed and the origin host is a loopback address, or (b) the origin
// host is on the configured allow-list and the origin scheme is https.
// OPTIONS requests always get a 204 preflight response.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")

		if origin := r.Header.Get("Origin"); origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept-Language")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())

	if s.cors.AllowLocalhost && isLoopbackHost(host) {
		return true
	}
	return u.Scheme == "https" && s.cors.AllowHosts[host]
}

func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
