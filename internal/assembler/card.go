package assembler

import (
	"github.com/vmunix/catalogd/internal/locale"
	"github.com/vmunix/catalogd/internal/store"
)

// cardFrom shapes a store.Card into the uniform §4.4 card object, resolving
// the localized name/description and logo. It never touches the Provider;
// callers that need a backfill schedule call scheduleBackfill separately so
// this stays a pure projection.
func (a *Assembler) cardFrom(sc store.Card, loc locale.Locale) Card {
	res := translated(a.store, sc.Kind, sc.ID, loc.Lang, loc.Region, sc.Name, sc.Overview)
	return Card{
		ID:          sc.ID,
		Kind:        string(sc.Kind),
		Name:        res.Name,
		Description: describe(res.Overview),
		Year:        yearOf(sc.Date),
		Rating:      sc.Rating,
		Poster:      sc.Poster,
		Logo:        a.pickLogoCached(sc.Logos, loc.Lang),
		Backdrop:    sc.Backdrop,
	}
}

// pickLogoCached wraps pickLogo with the §4.5 logo-pick cache (TTL 3
// days): the logos blob rarely changes between requests for the same
// title, so repeated JSON-unmarshal + priority scan is wasted work.
func (a *Assembler) pickLogoCached(logosJSON, lang string) string {
	if logosJSON == "" {
		return ""
	}
	key := logoKey{LogosJSON: logosJSON, Lang: lang}
	if v, ok := a.logoCache.Get(key); ok {
		a.recordCache("logo", true)
		return v
	}
	a.recordCache("logo", false)
	v := pickLogo(logosJSON, lang)
	a.logoCache.Set(key, v)
	return v
}

// cardsFrom projects a whole slice in locale order, optionally scheduling a
// minimal (full=false) backfill pass for each card's entity — used by the
// home and browse rails, which enrich every card they return (§4.4.1).
func (a *Assembler) cardsFrom(scs []store.Card, loc locale.Locale, scheduleGaps bool) []Card {
	cards := make([]Card, 0, len(scs))
	for _, sc := range scs {
		cards = append(cards, a.cardFrom(sc, loc))
		if scheduleGaps {
			a.scheduleBackfill(sc.Kind, sc.ID, loc, false)
		}
	}
	return cards
}
