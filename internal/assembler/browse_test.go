package assembler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/catalogd/internal/locale"
	"github.com/vmunix/catalogd/internal/store"
)

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(Deps{Store: s})
}

func TestBrowseUnknownTabReturnsError(t *testing.T) {
	a := newTestAssembler(t)
	_, err := a.Browse("not-a-tab", 1, locale.Locale{Lang: "en"})
	require.ErrorIs(t, err, ErrUnknownTab)
}

func TestBrowseBadPageReturnsError(t *testing.T) {
	a := newTestAssembler(t)
	_, err := a.Browse("popular", 0, locale.Locale{Lang: "en"})
	require.ErrorIs(t, err, ErrBadPage)
}

func TestBrowseProjectsStoreCardsIntoPage(t *testing.T) {
	a := newTestAssembler(t)
	require.NoError(t, a.store.UpsertMovie(&store.Movie{
		ID: 1, Title: "A Movie", Popularity: 10, ReleaseDate: "2020-01-01", Poster: "p.jpg",
	}))

	page, err := a.Browse("popular", 1, locale.Locale{Lang: "en"})
	require.NoError(t, err)
	require.Equal(t, "popular", page.Tab)
	require.Equal(t, 1, page.Page)
	require.Equal(t, pageSize, page.PageSize)
	require.Len(t, page.Items, 1)
	require.Equal(t, "A Movie", page.Items[0].Name)
}
