package assembler

import (
	"context"
	"math/rand"

	"github.com/vmunix/catalogd/internal/locale"
)

// searchLimit is the §4.4.4 cap on search results.
const searchLimit = 12

// Search composes the §4.4.4 search response. An empty query returns the
// home page's trending_today rail alongside empty results, without
// touching the store's search query at all.
func (a *Assembler) Search(ctx context.Context, query string, loc locale.Locale) (Search, error) {
	if query == "" {
		h, err := a.Home(ctx, loc, (*rand.Rand)(nil))
		if err != nil {
			return Search{}, err
		}
		return Search{TrendingToday: h.TrendingToday, Query: "", Results: []Card{}}, nil
	}

	scs, err := a.store.Search(query, loc.Lang, searchLimit)
	if err != nil {
		return Search{}, err
	}
	return Search{Query: query, Results: a.cardsFrom(scs, loc, false)}, nil
}
