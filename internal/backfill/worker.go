package backfill

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vmunix/catalogd/internal/provider"
	"github.com/vmunix/catalogd/internal/store"
)

// providerKind maps a store.MediaKind onto the Provider's path segment:
// series are "tv" upstream but "series" locally (§3's media_kind).
func providerKind(kind store.MediaKind) string {
	if kind == store.KindSeries {
		return "tv"
	}
	return "movie"
}

// execute is the worker task body of §4.3: given the parts that run just
// re-detected (state may have changed since Schedule queued this key),
// fetch and stage each missing part in order, short-circuiting the remainder on the first
// Provider error but always committing whatever was already staged.
func (s *Scheduler) execute(ctx context.Context, key Key, lang, region string, parts *MissingParts) error {
	pkind := providerKind(key.Kind)

	tx, err := s.store.Begin()
	if err != nil {
		return fmt.Errorf("backfill begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if parts.NeedBase || parts.NeedTV {
		if err := s.fetchBase(ctx, tx, key, pkind, lang, region, parts); err != nil {
			return commitAndReturn(tx, &committed, err)
		}
	}
	if parts.NeedLogos {
		if err := s.fetchLogos(ctx, tx, key, pkind, lang); err != nil {
			return commitAndReturn(tx, &committed, err)
		}
	}
	if parts.NeedVideos {
		if err := s.fetchVideos(ctx, tx, key, pkind, lang); err != nil {
			return commitAndReturn(tx, &committed, err)
		}
	}
	if parts.NeedCast {
		if err := s.fetchCast(ctx, tx, key, pkind); err != nil {
			return commitAndReturn(tx, &committed, err)
		}
	}
	if parts.NeedTranslations {
		if err := s.fetchTranslations(ctx, tx, key, pkind); err != nil {
			return commitAndReturn(tx, &committed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("backfill commit: %w", err)
	}
	committed = true
	return nil
}

// commitAndReturn commits whatever writes a short-circuited task already
// staged (idempotent upserts are safe to keep even though later steps
// never ran) and reports the error that stopped it.
func commitAndReturn(tx *store.Tx, committed *bool, cause error) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("backfill partial commit: %w", err)
	}
	*committed = true
	return cause
}

func (s *Scheduler) fetchBase(ctx context.Context, tx *store.Tx, key Key, pkind, lang, region string, parts *MissingParts) error {
	detail, err := s.provider.GetTitle(ctx, provider.Background, pkind, key.ID, key.LangTag)
	if err != nil {
		return fmt.Errorf("fetch base %s/%d: %w", pkind, key.ID, err)
	}

	genreNames := make([]string, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		genreNames = append(genreNames, g.Name)
		_ = tx.UpsertGenre(&store.Genre{MediaKind: key.Kind, GenreID: g.ID, Name: g.Name})
		_ = tx.UpsertGenreEdge(key.Kind, key.ID, g.ID)
	}
	genres := joinGenres(genreNames)

	if key.Kind == store.KindMovie {
		if err := tx.UpsertMovie(&store.Movie{
			ID: key.ID, Title: detail.Title, Overview: detail.Overview,
			VoteAverage: detail.VoteAverage, VoteCount: detail.VoteCount,
			ReleaseDate: detail.ReleaseDate, Popularity: detail.Popularity,
			Poster: detail.PosterPath, Backdrop: detail.BackdropPath, Genres: genres,
		}); err != nil {
			return err
		}
		return nil
	}

	networks := make([]string, 0, len(detail.Networks))
	for _, n := range detail.Networks {
		networks = append(networks, n.Name)
	}
	if err := tx.UpsertSeries(&store.Series{
		ID: key.ID, Name: detail.Name, Overview: detail.Overview,
		VoteAverage: detail.VoteAverage, VoteCount: detail.VoteCount,
		FirstAirDate: detail.FirstAirDate, Popularity: detail.Popularity,
		Poster: detail.PosterPath, Backdrop: detail.BackdropPath,
		Genres: genres, Networks: joinGenres(networks),
	}); err != nil {
		return err
	}

	for _, se := range detail.Seasons {
		if err := tx.UpsertSeason(&store.Season{
			SeriesID: key.ID, SeasonNumber: se.SeasonNumber, Name: se.Name, EpisodeCount: se.EpisodeCount,
		}); err != nil {
			return err
		}
	}

	if parts.NeedTV {
		lowest := lowestPositiveSeason(detail.Seasons)
		if lowest > 0 {
			season, err := s.provider.GetSeason(ctx, provider.Background, key.ID, lowest)
			if err != nil {
				return fmt.Errorf("fetch season %d/%d: %w", key.ID, lowest, err)
			}
			for _, ep := range season.Episodes {
				if err := tx.UpsertEpisode(&store.Episode{
					SeriesID: key.ID, SeasonNumber: lowest, EpisodeNumber: ep.EpisodeNumber,
					Name: ep.Name, Runtime: ep.Runtime, Still: ep.StillPath, Rating: ep.VoteAverage,
				}); err != nil {
					return err
				}
			}
			_ = tx.MarkSeasonDone(key.ID, lowest)
		}
	}
	return nil
}

func lowestPositiveSeason(seasons []provider.SeasonInfo) int {
	lowest := 0
	for _, se := range seasons {
		if se.SeasonNumber <= 0 {
			continue
		}
		if lowest == 0 || se.SeasonNumber < lowest {
			lowest = se.SeasonNumber
		}
	}
	return lowest
}

// fetchLogos builds a {lang: file_path} map per §4.3: one images call
// restricted to lang,en,null, then an unfiltered fallback call, keeping
// the first image seen per language across both responses.
func (s *Scheduler) fetchLogos(ctx context.Context, tx *store.Tx, key Key, pkind, lang string) error {
	logos := make(map[string]string)

	first, err := s.provider.GetImages(ctx, provider.Background, pkind, key.ID, lang+",en,null")
	if err != nil {
		return fmt.Errorf("fetch images %s/%d: %w", pkind, key.ID, err)
	}
	collectLogos(logos, first.Logos)

	second, err := s.provider.GetImages(ctx, provider.Background, pkind, key.ID, "")
	if err != nil {
		return fmt.Errorf("fetch images (unfiltered) %s/%d: %w", pkind, key.ID, err)
	}
	collectLogos(logos, second.Logos)

	blob, err := json.Marshal(logos)
	if err != nil {
		return fmt.Errorf("marshal logos %s/%d: %w", pkind, key.ID, err)
	}
	if key.Kind == store.KindMovie {
		return tx.UpsertMovieLogos(key.ID, string(blob))
	}
	return tx.UpsertSeriesLogos(key.ID, string(blob))
}

func collectLogos(into map[string]string, images []provider.Image) {
	for _, img := range images {
		langKey := img.Iso639_1
		if langKey == "" {
			langKey = "und"
		}
		if _, seen := into[langKey]; seen {
			continue
		}
		if img.FilePath == "" {
			continue
		}
		into[langKey] = img.FilePath
	}
}

func (s *Scheduler) fetchVideos(ctx context.Context, tx *store.Tx, key Key, pkind, lang string) error {
	resp, err := s.provider.GetVideos(ctx, provider.Background, pkind, key.ID, key.LangTag)
	if err != nil {
		return fmt.Errorf("fetch videos %s/%d: %w", pkind, key.ID, err)
	}
	for _, v := range resp.Results {
		if v.Key == "" {
			continue
		}
		return tx.UpsertVideo(&store.Video{MediaKind: key.Kind, ID: key.ID, Site: v.Site, Key: v.Key})
	}
	return nil
}

func (s *Scheduler) fetchCast(ctx context.Context, tx *store.Tx, key Key, pkind string) error {
	resp, err := s.provider.GetCredits(ctx, provider.Background, pkind, key.ID)
	if err != nil {
		return fmt.Errorf("fetch credits %s/%d: %w", pkind, key.ID, err)
	}
	n := len(resp.Cast)
	if n > 24 {
		n = 24
	}
	members := make([]store.CastMember, n)
	for i := 0; i < n; i++ {
		c := resp.Cast[i]
		members[i] = store.CastMember{
			MediaKind: key.Kind, ID: key.ID, CreditID: c.CreditID,
			Person: c.Name, Character: c.Character, Order: c.Order, Profile: c.ProfilePath,
		}
	}
	return tx.ReplaceCast(key.Kind, key.ID, members)
}

func (s *Scheduler) fetchTranslations(ctx context.Context, tx *store.Tx, key Key, pkind string) error {
	resp, err := s.provider.GetTranslations(ctx, provider.Background, pkind, key.ID)
	if err != nil {
		return fmt.Errorf("fetch translations %s/%d: %w", pkind, key.ID, err)
	}
	for _, t := range resp.Translations {
		if t.Iso639_1 == "" || t.Iso3166_1 == "" {
			continue
		}
		title := t.Data.Title
		if key.Kind == store.KindSeries {
			title = t.Data.Name
		}
		if title == "" && t.Data.Overview == "" {
			continue
		}
		if err := tx.UpsertTranslation(&store.Translation{
			MediaKind: key.Kind, ID: key.ID, Lang: t.Iso639_1, Region: t.Iso3166_1,
			Title: title, Overview: t.Data.Overview, Tagline: t.Data.Tagline, Homepage: t.Data.Homepage,
		}); err != nil {
			return err
		}
	}
	return nil
}

func joinGenres(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
