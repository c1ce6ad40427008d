package backfill

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vmunix/catalogd/internal/provider"
	"github.com/vmunix/catalogd/internal/ratelimit"
	"github.com/vmunix/catalogd/internal/store"
)

// TestFetchLogosKeysLanguageAgnosticImagesAsUnd verifies that an image
// with no iso_639_1 is filed under the "und" key pickLogo's priority path
// actually probes, not the literal string "null".
func TestFetchLogosKeysLanguageAgnosticImagesAsUnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/movie/1/images" && r.URL.Query().Get("include_image_language") != "":
			w.Write([]byte(`{"logos":[{"file_path":"/de.png","iso_639_1":"de"},{"file_path":"/agnostic.png","iso_639_1":""}]}`))
		case r.URL.Path == "/movie/1/images":
			w.Write([]byte(`{"logos":[{"file_path":"/fr.png","iso_639_1":"fr"},{"file_path":"/de-dup.png","iso_639_1":"de"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.UpsertMovie(&store.Movie{ID: 1, Title: "Example"}))

	fg, bg := ratelimit.ProviderBuckets(1000, 500)
	p := provider.New("key", fg, bg, provider.WithBaseURL(srv.URL))
	sched := New(s, p, Config{Workers: 1, QueueLimit: 10, TTL: time.Hour}, nil)

	tx, err := s.Begin()
	require.NoError(t, err)
	key := Key{Kind: store.KindMovie, ID: 1, LangTag: "de", Full: false}
	require.NoError(t, sched.fetchLogos(context.Background(), tx, key, "movie", "de"))
	require.NoError(t, tx.Commit())

	mv, err := s.GetMovie(1)
	require.NoError(t, err)
	require.Contains(t, mv.Logos, `"und":"/agnostic.png"`)
	require.Contains(t, mv.Logos, `"de":"/de.png"`, "first-seen de image wins over the unfiltered fallback's duplicate")
	require.Contains(t, mv.Logos, `"fr":"/fr.png"`)
	require.NotContains(t, mv.Logos, "null", "language-agnostic images must never be keyed under the literal string \"null\"")
}

// TestFetchTranslationsSkipsEmptyLanguageOrRegionCodes verifies translation
// entries missing either code are discarded rather than upserted under an
// empty lang or region key.
func TestFetchTranslationsSkipsEmptyLanguageOrRegionCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"translations":[
			{"iso_639_1":"","iso_3166_1":"DE","data":{"title":"Should Be Skipped (no lang)"}},
			{"iso_639_1":"de","iso_3166_1":"","data":{"title":"Should Be Skipped (no region)"}},
			{"iso_639_1":"de","iso_3166_1":"DE","data":{"title":"Deutscher Film"}}
		]}`))
	}))
	t.Cleanup(srv.Close)

	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.UpsertMovie(&store.Movie{ID: 1, Title: "Example"}))

	fg, bg := ratelimit.ProviderBuckets(1000, 500)
	p := provider.New("key", fg, bg, provider.WithBaseURL(srv.URL))
	sched := New(s, p, Config{Workers: 1, QueueLimit: 10, TTL: time.Hour}, nil)

	tx, err := s.Begin()
	require.NoError(t, err)
	key := Key{Kind: store.KindMovie, ID: 1, LangTag: "de-DE", Full: false}
	require.NoError(t, sched.fetchTranslations(context.Background(), tx, key, "movie"))
	require.NoError(t, tx.Commit())

	tr, err := s.Translated(store.KindMovie, 1, "de", "DE")
	require.NoError(t, err)
	require.NotNil(t, tr)
	require.Equal(t, "Deutscher Film", tr.Title)

	empty, err := s.HasTranslation(store.KindMovie, 1, "", "DE")
	require.NoError(t, err)
	require.False(t, empty, "an entry with an empty lang code must never reach the store")
}
