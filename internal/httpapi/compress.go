package httpapi

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// acceptsEncoding reports whether the request's Accept-Encoding header
// lists enc, or whether the request looks like it's arriving through a
// reverse proxy that already terminated compression negotiation
// upstream (X-Forwarded-For present) — §6's "or appears behind a proxy".
func acceptsEncoding(r *http.Request, enc string) bool {
	if strings.Contains(r.Header.Get("Accept-Encoding"), enc) {
		return true
	}
	return enc == "gzip" && r.Header.Get("X-Forwarded-For") != ""
}

func gzipBytes(raw []byte) []byte {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(raw); err != nil {
		return nil
	}
	if err := gw.Close(); err != nil {
		return nil
	}
	return buf.Bytes()
}

func brotliBytes(raw []byte, quality int) []byte {
	var buf bytes.Buffer
	bw := brotli.NewWriterLevel(&buf, quality)
	if _, err := bw.Write(raw); err != nil {
		return nil
	}
	if err := bw.Close(); err != nil {
		return nil
	}
	return buf.Bytes()
}

// writeCompressed marshals data to JSON and gzips it on the fly when the
// client advertises support, per §6: "other endpoints compress on the fly
// when the client advertises gzip or appears behind a proxy."
func (s *Server) writeCompressed(w http.ResponseWriter, r *http.Request, code int, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if s.compress.ForceGzip || acceptsEncoding(r, "gzip") {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(code)
		_, _ = w.Write(gzipBytes(raw))
		return
	}
	w.WriteHeader(code)
	_, _ = w.Write(raw)
}
