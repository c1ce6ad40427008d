package backfill

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmunix/catalogd/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDetectNoMovieRowNeedsBase(t *testing.T) {
	s := newTestStore(t)
	parts, err := Detect(s, store.KindMovie, 1, "en", "", false)
	require.NoError(t, err)
	require.NotNil(t, parts)
	require.True(t, parts.NeedBase)
}

func TestDetectCompleteRowNeedsNothing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertMovie(&store.Movie{ID: 1, Title: "Example"}))
	require.NoError(t, s.UpsertMovieLogos(1, `{"en":"/logo.png"}`))
	require.NoError(t, s.UpsertTranslation(&store.Translation{MediaKind: store.KindMovie, ID: 1, Lang: "en", Title: "Example"}))

	parts, err := Detect(s, store.KindMovie, 1, "en", "", false)
	require.NoError(t, err)
	require.Nil(t, parts)
}

func TestDetectFullAddsCastVideosTV(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertSeries(&store.Series{ID: 100, Name: "Example Show", Logos: `{"en":"/logo.png"}`}))
	require.NoError(t, s.UpsertTranslation(&store.Translation{MediaKind: store.KindSeries, ID: 100, Lang: "en", Title: "Example Show"}))

	parts, err := Detect(s, store.KindSeries, 100, "en", "", true)
	require.NoError(t, err)
	require.NotNil(t, parts)
	require.False(t, parts.NeedBase)
	require.False(t, parts.NeedLogos)
	require.False(t, parts.NeedTranslations)
	require.True(t, parts.NeedCast)
	require.True(t, parts.NeedVideos)
	require.True(t, parts.NeedTV)
}

func TestDetectTranslationFallsBackToLanguageOnlyRow(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertMovie(&store.Movie{ID: 1, Title: "Example", Logos: `{"en":"/logo.png"}`}))
	require.NoError(t, s.UpsertTranslation(&store.Translation{MediaKind: store.KindMovie, ID: 1, Lang: "de", Title: "Beispiel"}))

	parts, err := Detect(s, store.KindMovie, 1, "de", "DE", false)
	require.NoError(t, err)
	require.Nil(t, parts, "a language-only row satisfies need_translations even when a region was requested")
}
