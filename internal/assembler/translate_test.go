package assembler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmunix/catalogd/internal/store"
)

type fakeTranslationQuerier struct {
	tr  *store.Translation
	err error
}

func (f fakeTranslationQuerier) Translated(kind store.MediaKind, id int64, lang, region string) (*store.Translation, error) {
	return f.tr, f.err
}

func TestTranslatedFallsBackToBaseOnError(t *testing.T) {
	q := fakeTranslationQuerier{err: errors.New("boom")}
	res := translated(q, store.KindMovie, 1, "fr", "FR", "Base Name", "Base overview")
	require.Equal(t, resolved{Name: "Base Name", Overview: "Base overview"}, res)
}

func TestTranslatedFallsBackToBaseOnNilRow(t *testing.T) {
	q := fakeTranslationQuerier{}
	res := translated(q, store.KindMovie, 1, "fr", "FR", "Base Name", "Base overview")
	require.Equal(t, resolved{Name: "Base Name", Overview: "Base overview"}, res)
}

func TestTranslatedUsesRowOverBase(t *testing.T) {
	q := fakeTranslationQuerier{tr: &store.Translation{Title: "Nom", Overview: "Aperçu"}}
	res := translated(q, store.KindMovie, 1, "fr", "FR", "Base Name", "Base overview")
	require.Equal(t, resolved{Name: "Nom", Overview: "Aperçu"}, res)
}

func TestTranslatedFillsEmptyFieldsFromBase(t *testing.T) {
	q := fakeTranslationQuerier{tr: &store.Translation{Title: "", Overview: "Aperçu"}}
	res := translated(q, store.KindMovie, 1, "fr", "FR", "Base Name", "Base overview")
	require.Equal(t, resolved{Name: "Base Name", Overview: "Aperçu"}, res)
}

func TestDescribeLeavesShortOverviewAlone(t *testing.T) {
	require.Equal(t, "short", describe("short"))
}

func TestDescribeTruncatesAtRuneBoundary(t *testing.T) {
	overview := ""
	for i := 0; i < 300; i++ {
		overview += "é"
	}
	out := describe(overview)
	require.Equal(t, []rune(out)[len([]rune(out))-1], '…')
	require.Equal(t, descriptionLimit+1, len([]rune(out)))
}

func TestYearOfParsesPrefix(t *testing.T) {
	y := yearOf("1999-05-01")
	require.NotNil(t, y)
	require.Equal(t, 1999, *y)
}

func TestYearOfNilOnGarbage(t *testing.T) {
	require.Nil(t, yearOf(""))
	require.Nil(t, yearOf("abc"))
	require.Nil(t, yearOf("ab"))
}

func TestSplitGenresTrimsAndDropsEmpty(t *testing.T) {
	require.Equal(t, []string{"Action", "Drama"}, splitGenres("Action, , Drama ,"))
}

func TestSplitGenresNilOnEmpty(t *testing.T) {
	require.Nil(t, splitGenres(""))
}
