package assembler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/catalogd/internal/locale"
	"github.com/vmunix/catalogd/internal/store"
)

func TestCardFromProjectsBaseFieldsWithoutTranslation(t *testing.T) {
	a := newTestAssembler(t)
	sc := store.Card{
		Kind: store.KindMovie, ID: 1, Name: "Base Name", Overview: "Base overview",
		Date: "1999-03-02", Rating: 8.1, Poster: "p.jpg", Backdrop: "b.jpg",
		Logos: `{"en":"/en.svg"}`,
	}

	card := a.cardFrom(sc, locale.Locale{Lang: "en"})
	require.Equal(t, int64(1), card.ID)
	require.Equal(t, "movie", card.Kind)
	require.Equal(t, "Base Name", card.Name)
	require.Equal(t, "Base overview", card.Description)
	require.NotNil(t, card.Year)
	require.Equal(t, 1999, *card.Year)
	require.Equal(t, "/en.svg", card.Logo)
}

func TestCardsFromPreservesOrder(t *testing.T) {
	a := newTestAssembler(t)
	scs := []store.Card{
		{Kind: store.KindMovie, ID: 1, Name: "First", Date: "2020-01-01"},
		{Kind: store.KindMovie, ID: 2, Name: "Second", Date: "2020-01-01"},
	}

	cards := a.cardsFrom(scs, locale.Locale{Lang: "en"}, false)
	require.Len(t, cards, 2)
	require.Equal(t, "First", cards[0].Name)
	require.Equal(t, "Second", cards[1].Name)
}

func TestPickLogoCachedReusesFirstLookup(t *testing.T) {
	a := newTestAssembler(t)
	logos := `{"en":"/en.svg","fr":"/fr.svg"}`

	first := a.pickLogoCached(logos, "fr")
	require.Equal(t, "/fr.svg", first)

	second := a.pickLogoCached(logos, "fr")
	require.Equal(t, first, second)
}

func TestPickLogoCachedEmptyLogosShortCircuits(t *testing.T) {
	a := newTestAssembler(t)
	require.Equal(t, "", a.pickLogoCached("", "en"))
}
