package assembler

import (
	"context"
	"errors"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/catalogd/internal/backfill"
	"github.com/vmunix/catalogd/internal/locale"
	"github.com/vmunix/catalogd/internal/provider"
	"github.com/vmunix/catalogd/internal/store"
)

// ErrTitleNotFound is returned when a title is unknown locally and either
// there's no Provider key to fall back to or the Provider lookup also
// failed (§7 NotFoundError).
var ErrTitleNotFound = errors.New("title not found")

// Title composes the §4.4.2 title-detail response for id under loc.
func (a *Assembler) Title(ctx context.Context, id int64, loc locale.Locale) (Title, error) {
	kind, mv, se, err := a.probeOrFetch(ctx, id, loc)
	if err != nil {
		return Title{}, err
	}

	var name, overview, date, genres, posterPath, backdropPath, logos string
	var rating float64
	if kind == store.KindMovie {
		name, overview, date, genres = mv.Title, mv.Overview, mv.ReleaseDate, mv.Genres
		posterPath, backdropPath, logos, rating = mv.Poster, mv.Backdrop, mv.Logos, mv.VoteAverage
	} else {
		name, overview, date, genres = se.Name, se.Overview, se.FirstAirDate, se.Genres
		posterPath, backdropPath, logos, rating = se.Poster, se.Backdrop, se.Logos, se.VoteAverage
	}

	if parts, err := backfill.Detect(a.store, kind, id, loc.Lang, loc.Region, true); err == nil && parts != nil {
		a.scheduleBackfill(kind, id, loc, true)
	}

	res := translated(a.store, kind, id, loc.Lang, loc.Region, name, overview)
	t := Title{
		ID:          id,
		Kind:        string(kind),
		Name:        res.Name,
		Description: describe(res.Overview),
		Tags:        splitGenres(genres),
		Year:        yearOf(date),
		Rating:      rating,
		Poster:      posterPath,
		Logo:        a.pickLogoCached(logos, loc.Lang),
		Backdrop:    backdropPath,
		Cast:        []CastEntry{},
		Similar:     []Card{},
	}

	if video, err := a.store.GetVideo(kind, id); err == nil && video != nil && strings.EqualFold(video.Site, "youtube") {
		t.TrailerYoutube = &Trailer{
			Key: video.Key,
			URL: "https://www.youtube.com/watch?v=" + video.Key,
		}
	}

	if kind == store.KindSeries {
		if err := a.attachSeasons(id, &t); err != nil {
			return Title{}, err
		}
	}

	if cast, err := a.store.ListCast(kind, id, castLimit); err == nil {
		t.Cast = make([]CastEntry, 0, len(cast))
		for _, c := range cast {
			t.Cast = append(t.Cast, CastEntry{Name: c.Person, Character: c.Character, Profile: c.Profile})
		}
	}

	t.Similar = a.similar(ctx, kind, id, loc)
	return t, nil
}

// probeOrFetch implements §4.4.2 step 1: a local hit on either table wins;
// otherwise, when a Provider client is configured, both /movie/{id} and
// /tv/{id} are raced and the first 200 wins, upserted as base and
// scheduled for full backfill.
func (a *Assembler) probeOrFetch(ctx context.Context, id int64, loc locale.Locale) (store.MediaKind, *store.Movie, *store.Series, error) {
	if mv, err := a.store.GetMovie(id); err == nil {
		return store.KindMovie, mv, nil, nil
	}
	if se, err := a.store.GetSeries(id); err == nil {
		return store.KindSeries, nil, se, nil
	}

	if a.provider == nil {
		return "", nil, nil, ErrTitleNotFound
	}

	kind, detail, err := a.raceProbe(ctx, id, loc)
	if err != nil {
		return "", nil, nil, ErrTitleNotFound
	}

	if kind == store.KindMovie {
		mv := &store.Movie{
			ID: id, Title: detail.Title, Overview: detail.Overview,
			VoteAverage: detail.VoteAverage, VoteCount: detail.VoteCount,
			ReleaseDate: detail.ReleaseDate, Popularity: detail.Popularity,
			Poster: detail.PosterPath, Backdrop: detail.BackdropPath,
			Genres: joinGenreNames(detail.Genres),
		}
		if err := a.store.UpsertMovie(mv); err != nil {
			return "", nil, nil, err
		}
		a.scheduleBackfill(store.KindMovie, id, loc, true)
		return store.KindMovie, mv, nil, nil
	}

	se := &store.Series{
		ID: id, Name: detail.Name, Overview: detail.Overview,
		VoteAverage: detail.VoteAverage, VoteCount: detail.VoteCount,
		FirstAirDate: detail.FirstAirDate, Popularity: detail.Popularity,
		Poster: detail.PosterPath, Backdrop: detail.BackdropPath,
		Genres: joinGenreNames(detail.Genres), Networks: joinNetworkNames(detail.Networks),
	}
	if err := a.store.UpsertSeries(se); err != nil {
		return "", nil, nil, err
	}
	for _, si := range detail.Seasons {
		_ = a.store.UpsertSeason(&store.Season{
			SeriesID: id, SeasonNumber: si.SeasonNumber, Name: si.Name, EpisodeCount: si.EpisodeCount,
		})
	}
	a.scheduleBackfill(store.KindSeries, id, loc, true)
	return store.KindSeries, nil, se, nil
}

type probeResult struct {
	kind   store.MediaKind
	detail *provider.TitleDetail
}

// raceProbe concurrently fetches /movie/{id} and /tv/{id} via an
// errgroup, returning the first successful response (§4.4.2 "accept the
// first 200 response"). Both calls run to completion regardless of which
// wins; neither failing is reported back (errgroup's error return is
// discarded) since a 404 on one side is the expected case, not a fault.
func (a *Assembler) raceProbe(ctx context.Context, id int64, loc locale.Locale) (store.MediaKind, *provider.TitleDetail, error) {
	results := make(chan probeResult, 2)

	g, gctx := errgroup.WithContext(ctx)
	for _, attempt := range []struct {
		kind store.MediaKind
		path string
	}{
		{store.KindMovie, "movie"},
		{store.KindSeries, "tv"},
	} {
		kind, path := attempt.kind, attempt.path
		g.Go(func() error {
			detail, err := a.provider.GetTitle(gctx, provider.Foreground, path, id, loc.Tag())
			if err != nil {
				return nil
			}
			results <- probeResult{kind: kind, detail: detail}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	first, ok := <-results
	if !ok {
		return "", nil, ErrTitleNotFound
	}
	return first.kind, first.detail, nil
}

// attachSeasons fills Seasons, PrefetchSeason and PrefetchEpisodes per
// §4.4.2 step 4.
func (a *Assembler) attachSeasons(seriesID int64, t *Title) error {
	seasons, err := a.store.ListSeasons(seriesID)
	if err != nil {
		return err
	}
	t.Seasons = make([]SeasonSummary, 0, len(seasons))
	for _, s := range seasons {
		t.Seasons = append(t.Seasons, SeasonSummary{SeasonNumber: s.SeasonNumber, EpisodeCount: s.EpisodeCount})
	}

	season, err := a.store.LowestPositiveSeasonWithEpisodes(seriesID)
	if err != nil || season <= 0 {
		return nil
	}
	t.PrefetchSeason = season

	episodes, err := a.store.ListEpisodes(seriesID, season)
	if err != nil {
		return err
	}
	sort.Slice(episodes, func(i, j int) bool { return episodes[i].EpisodeNumber < episodes[j].EpisodeNumber })
	t.PrefetchEpisodes = make([]EpisodeSummary, 0, len(episodes))
	for _, e := range episodes {
		t.PrefetchEpisodes = append(t.PrefetchEpisodes, EpisodeSummary{
			Episode: e.EpisodeNumber, Name: e.Name, Runtime: e.Runtime, Still: e.Still, Rating: e.Rating,
		})
	}
	return nil
}

// similar implements §4.4.2 step 6: cached per (kind, id, lang_tag) with a
// 3-day TTL; Provider failures return an empty list rather than erroring
// the whole title response.
func (a *Assembler) similar(ctx context.Context, kind store.MediaKind, id int64, loc locale.Locale) []Card {
	key := similarKey{Kind: string(kind), ID: id, LangTag: loc.Tag()}
	if cards, ok := a.similarCache.Get(key); ok {
		a.recordCache("similar", true)
		return cards
	}
	a.recordCache("similar", false)
	if a.provider == nil {
		return []Card{}
	}

	path := "movie"
	if kind == store.KindSeries {
		path = "tv"
	}
	resp, err := a.provider.GetSimilar(ctx, provider.Foreground, path, id, loc.Tag())
	if err != nil {
		a.similarCache.Set(key, []Card{})
		return []Card{}
	}

	items := resp.Results
	if len(items) > similarLimit {
		items = items[:similarLimit]
	}
	cards := a.cardsFromTrending(items, loc)
	a.similarCache.Set(key, cards)
	return cards
}

func joinGenreNames(genres []provider.Genre) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ",")
}

func joinNetworkNames(networks []provider.Network) string {
	names := make([]string, 0, len(networks))
	for _, n := range networks {
		names = append(names, n.Name)
	}
	return strings.Join(names, ",")
}
