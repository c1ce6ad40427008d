package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vmunix/catalogd/internal/assembler"
	"github.com/vmunix/catalogd/internal/locale"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func requestLocale(r *http.Request) locale.Locale {
	return locale.Pick(r.URL.Query(), r.Header.Get("Accept-Language"))
}

// handleHome serves /v1/home, preferring the assembler's precomputed
// compressed bodies (§6 "home endpoint chooses gzip or brotli ... using
// precomputed bodies").
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	loc := requestLocale(r)
	tag := loc.Tag()

	if raw, gz, br, ok := s.asm.HomeBytes(tag); ok {
		s.writeHomeBytes(w, r, raw, gz, br)
		return
	}

	home, err := s.asm.Home(r.Context(), loc, nil)
	if err != nil {
		s.log.Error("home: compose failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to compose home")
		return
	}

	raw, err := json.Marshal(home)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to encode home")
		return
	}
	gz := gzipBytes(raw)
	br := brotliBytes(raw, s.compress.BrotliQuality)
	s.asm.SetHomeBytes(tag, raw, gz, br)
	s.writeHomeBytes(w, r, raw, gz, br)
}

func (s *Server) writeHomeBytes(w http.ResponseWriter, r *http.Request, raw, gz, br []byte) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case acceptsEncoding(r, "br") && len(br) > 0:
		w.Header().Set("Content-Encoding", "br")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(br)
	case (s.compress.ForceGzip || acceptsEncoding(r, "gzip")) && len(gz) > 0:
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(gz)
	default:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
	}
}

// handleTitle serves /v1/titles/{id}.
func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "invalid title id")
		return
	}

	title, err := s.asm.Title(r.Context(), id, requestLocale(r))
	if err != nil {
		if errors.Is(err, assembler.ErrTitleNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "title not found")
			return
		}
		s.log.Error("title: compose failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to compose title")
		return
	}
	s.writeCompressed(w, r, http.StatusOK, title)
}

// handleBrowse serves /v1/browse/{tab}/{page}.
func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	tab := r.PathValue("tab")
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "invalid page")
		return
	}

	page_, err := s.asm.Browse(tab, page, requestLocale(r))
	if err != nil {
		if errors.Is(err, assembler.ErrUnknownTab) || errors.Is(err, assembler.ErrBadPage) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		s.log.Error("browse: compose failed", "tab", tab, "page", page, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to compose browse page")
		return
	}
	s.writeCompressed(w, r, http.StatusOK, page_)
}

// handleSearch serves both /v1/search and /v1/search/{query}.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")
	if query == "" {
		query = r.URL.Query().Get("q")
	}

	result, err := s.asm.Search(r.Context(), query, requestLocale(r))
	if err != nil {
		s.log.Error("search: compose failed", "query", query, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to compose search")
		return
	}
	s.writeCompressed(w, r, http.StatusOK, result)
}
