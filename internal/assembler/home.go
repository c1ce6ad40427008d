package assembler

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/vmunix/catalogd/internal/cache"
	"github.com/vmunix/catalogd/internal/locale"
	"github.com/vmunix/catalogd/internal/provider"
	"github.com/vmunix/catalogd/internal/store"
)

// Home composes the §4.4.1 home response, consulting the per-lang_tag
// cache first. rng lets tests pin the slider/top10 sampling; pass nil in
// production to use math/rand's package-level source.
func (a *Assembler) Home(ctx context.Context, loc locale.Locale, rng *rand.Rand) (Home, error) {
	tag := loc.Tag()
	if entry, ok := a.homeCache.Get(tag); ok {
		a.recordCache("home", true)
		return entry.Object, nil
	}
	a.recordCache("home", false)

	h := Home{
		AsOf:      asOf(),
		Providers: store.Providers,
		SeriesOn:  make(map[string][]Card, len(store.Providers)),
		Genres:    make(map[string][]Card, len(store.HomeGenres)),
	}

	if a.provider != nil {
		if err := a.homeFromProvider(ctx, loc, rng, &h); err != nil {
			a.log.Warn("home: provider trending failed, using local fallback", "error", err)
			a.homeFromStore(&h, loc)
		}
	} else {
		a.homeFromStore(&h, loc)
	}

	movies, series, err := a.topRated()
	if err != nil {
		return Home{}, err
	}
	h.TopRated = TopRated{
		Movies: a.cardsFrom(movies, loc, false),
		Series: a.cardsFrom(series, loc, false),
	}

	for _, name := range store.Providers {
		cards, err := a.seriesOn(name, loc)
		if err != nil {
			return Home{}, err
		}
		h.SeriesOn[name] = cards
	}

	hasEdges, err := a.store.HasGenreEdges()
	if err != nil {
		return Home{}, err
	}
	for _, hg := range store.HomeGenres {
		var scs []store.Card
		if hasEdges {
			scs, err = a.store.ListByGenreEdges(hg.Needles, genreLimit)
		} else {
			scs, err = a.store.ListByGenreSubstring(hg.Needles, genreLimit)
		}
		if err != nil {
			return Home{}, err
		}
		h.Genres[hg.Key] = a.cardsFrom(scs, loc, false)
	}

	a.homeCache.Set(tag, cache.HomeEntry[Home]{Object: h})
	return h, nil
}

// asOf returns the composition timestamp in §4.4.1's `as_of` unix-epoch
// form (see SPEC_FULL.md's "as_of as int64 unix epoch" clarification).
func asOf() int64 { return time.Now().Unix() }

// homeFromProvider fills slider/top10/trending_today from the Provider's
// day/week trending endpoints, enriching and optionally scheduling a
// minimal backfill pass for every retained item. Each of the three
// sections falls back to local popularity ordering independently when its
// own Provider list comes back empty, not only when the Provider call
// errors outright (SPEC_FULL.md's per-section fallback decision).
func (a *Assembler) homeFromProvider(ctx context.Context, loc locale.Locale, rng *rand.Rand, h *Home) error {
	day, err := a.trending(ctx, "day")
	if err != nil {
		return err
	}
	week, err := a.trending(ctx, "week")
	if err != nil {
		return err
	}

	if len(day) == 0 {
		h.Slider = a.localPopular(sliderLimit, loc)
		h.Top10Today = a.localPopular(top10Limit, loc)
	} else {
		h.Slider = a.cardsFromTrending(sampleN(day, sliderLimit, rng), loc)
		h.Top10Today = a.cardsFromTrending(sampleN(day, top10Limit, rng), loc)
	}

	if len(week) == 0 {
		h.TrendingToday = a.localPopular(trendingLocal, loc)
	} else {
		h.TrendingToday = a.cardsFromTrending(week, loc)
	}
	return nil
}

// trending consults the §4.5 trending cache (TTL 90 minutes) before
// calling the Provider; the trending lists aren't locale-specific, so one
// entry per window covers every lang_tag.
func (a *Assembler) trending(ctx context.Context, window string) ([]provider.TrendingItem, error) {
	key := trendingKey{Window: window}
	if items, ok := a.trendingCache.Get(key); ok {
		a.recordCache("trending", true)
		return items, nil
	}
	a.recordCache("trending", false)
	resp, err := a.provider.GetTrending(ctx, provider.Foreground, window)
	if err != nil {
		return nil, err
	}
	a.trendingCache.Set(key, resp.Results)
	return resp.Results, nil
}

// homeFromStore fills slider/top10/trending_today from local popularity
// ordering, per §4.4.1's Provider-unavailable fallback.
func (a *Assembler) homeFromStore(h *Home, loc locale.Locale) {
	h.Slider = a.localPopular(sliderLimit, loc)
	h.Top10Today = a.localPopular(top10Limit, loc)
	h.TrendingToday = a.localPopular(trendingLocal, loc)
}

// localPopular returns up to limit movies plus limit series ordered by
// popularity descending, projected into cards. Shared by the no-Provider
// fallback and homeFromProvider's per-section empty-result fallback.
func (a *Assembler) localPopular(limit int, loc locale.Locale) []Card {
	movies, _ := a.store.ListPopularMovies(limit)
	series, _ := a.store.ListPopularSeries(limit)
	return a.cardsFrom(append(movies, series...), loc, false)
}

// cardsFromTrending enriches Provider trending items via the assembler
// (translation + logo fallback) and schedules a minimal backfill pass per
// retained item, per §4.4.1.
func (a *Assembler) cardsFromTrending(items []provider.TrendingItem, loc locale.Locale) []Card {
	cards := make([]Card, 0, len(items))
	for _, it := range items {
		kind := store.KindMovie
		name := it.Title
		date := it.ReleaseDate
		if it.MediaType == "tv" {
			kind = store.KindSeries
			name = it.Name
			date = it.FirstAirDate
		}
		sc := store.Card{
			Kind: kind, ID: it.ID, Name: name, Overview: it.Overview,
			Date: date, Rating: it.VoteAverage, Popularity: it.Popularity,
			Poster: it.PosterPath, Backdrop: it.BackdropPath,
		}
		cards = append(cards, a.cardFrom(sc, loc))
		a.scheduleBackfill(kind, it.ID, loc, false)
	}
	return cards
}

func (a *Assembler) topRated() (movies, series []store.Card, err error) {
	movies, err = a.store.ListTopRatedMovies()
	if err != nil {
		return nil, nil, err
	}
	series, err = a.store.ListTopRatedSeries()
	if err != nil {
		return nil, nil, err
	}
	return movies, series, nil
}

func (a *Assembler) seriesOn(providerName string, loc locale.Locale) ([]Card, error) {
	scs, err := a.store.ListSeriesOnProvider(providerName, seriesOnLimit)
	if err != nil {
		return nil, err
	}
	return a.cardsFrom(scs, loc, false), nil
}

// sampleN returns up to n items chosen uniformly at random without
// replacement, preserving relative order within the sample for
// determinism in tests that pin rng. When n >= len(items) the full slice
// is returned unshuffled.
func sampleN(items []provider.TrendingItem, n int, rng *rand.Rand) []provider.TrendingItem {
	if len(items) <= n {
		return items
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	shuffle(idx, rng)
	idx = idx[:n]
	sort.Ints(idx)
	out := make([]provider.TrendingItem, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

func shuffle(idx []int, rng *rand.Rand) {
	if rng != nil {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		return
	}
	rand.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
}

// HomeBytes returns the precomputed raw/gzip/brotli bodies cached
// alongside the composed object for langTag, if any have been stored yet
// via SetHomeBytes. The httpapi layer calls this so a cache hit never
// needs to re-serialize or re-compress (§4.4.1, §9).
func (a *Assembler) HomeBytes(langTag string) (raw, gzip, brotli []byte, ok bool) {
	entry, found := a.homeCache.Get(langTag)
	if !found {
		return nil, nil, nil, false
	}
	return entry.Raw, entry.Gzip, entry.Brotli, true
}

// SetHomeBytes stores the precomputed bodies for langTag's current home
// entry. Storing them re-sets the entry, which restarts its TTL. No-op if
// the entry has since expired or been evicted.
func (a *Assembler) SetHomeBytes(langTag string, raw, gzip, brotli []byte) {
	entry, ok := a.homeCache.Get(langTag)
	if !ok {
		return
	}
	entry.Raw, entry.Gzip, entry.Brotli = raw, gzip, brotli
	a.homeCache.Set(langTag, entry)
}
