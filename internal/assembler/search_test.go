package assembler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/catalogd/internal/locale"
	"github.com/vmunix/catalogd/internal/store"
)

func TestSearchEmptyQueryReturnsHomeTrendingWithEmptyResults(t *testing.T) {
	a := newTestAssembler(t)
	require.NoError(t, a.store.UpsertMovie(&store.Movie{
		ID: 1, Title: "Popular Movie", Popularity: 10, ReleaseDate: "2020-01-01", Poster: "p.jpg",
	}))

	res, err := a.Search(context.Background(), "", locale.Locale{Lang: "en"})
	require.NoError(t, err)
	require.Equal(t, "", res.Query)
	require.Equal(t, []Card{}, res.Results)
}

func TestSearchWithQueryMatchesStore(t *testing.T) {
	a := newTestAssembler(t)
	require.NoError(t, a.store.UpsertMovie(&store.Movie{
		ID: 1, Title: "The Great Escape", Popularity: 10, ReleaseDate: "2020-01-01", Poster: "p.jpg",
	}))

	res, err := a.Search(context.Background(), "escape", locale.Locale{Lang: "en"})
	require.NoError(t, err)
	require.Equal(t, "escape", res.Query)
	require.Len(t, res.Results, 1)
	require.Equal(t, "The Great Escape", res.Results[0].Name)
}
