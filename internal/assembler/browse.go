package assembler

import (
	"errors"
	"fmt"

	"github.com/vmunix/catalogd/internal/locale"
	"github.com/vmunix/catalogd/internal/store"
)

// pageSize is the fixed §4.4.3 browse page size.
const pageSize = 48

// ErrUnknownTab is returned for a browse tab slug outside store.BrowseTabs.
var ErrUnknownTab = errors.New("unknown browse tab")

// ErrBadPage is returned for page < 1.
var ErrBadPage = errors.New("page must be >= 1")

// Browse composes the §4.4.3 browse response for tab/page.
func (a *Assembler) Browse(tabSlug string, page int, loc locale.Locale) (Browse, error) {
	tab, ok := store.BrowseTabs[tabSlug]
	if !ok {
		return Browse{}, fmt.Errorf("browse %q: %w", tabSlug, ErrUnknownTab)
	}
	if page < 1 {
		return Browse{}, ErrBadPage
	}

	sp, err := a.store.Browse(tab, page, pageSize)
	if err != nil {
		return Browse{}, err
	}

	return Browse{
		Tab:      tabSlug,
		Page:     page,
		PageSize: pageSize,
		HasMore:  sp.HasMore,
		Items:    a.cardsFrom(sp.Items, loc, false),
	}, nil
}
