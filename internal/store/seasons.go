package store

import "fmt"

func upsertSeason(q querier, se *Season) error {
	_, err := q.Exec(`
		INSERT INTO seasons (series_id, season_number, name, episode_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(series_id, season_number) DO UPDATE SET
			name = excluded.name, episode_count = excluded.episode_count`,
		se.SeriesID, se.SeasonNumber, se.Name, se.EpisodeCount,
	)
	if err != nil {
		return fmt.Errorf("upsert season %d/%d: %w", se.SeriesID, se.SeasonNumber, err)
	}
	return nil
}

func (s *Store) UpsertSeason(se *Season) error { return upsertSeason(s.db, se) }
func (t *Tx) UpsertSeason(se *Season) error    { return upsertSeason(t.tx, se) }

func listSeasons(q querier, seriesID int64) ([]Season, error) {
	rows, err := q.Query(`
		SELECT series_id, season_number, name, episode_count
		FROM seasons WHERE series_id = ? ORDER BY season_number ASC`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list seasons %d: %w", seriesID, err)
	}
	defer rows.Close()

	var out []Season
	for rows.Next() {
		var se Season
		if err := rows.Scan(&se.SeriesID, &se.SeasonNumber, &se.Name, &se.EpisodeCount); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		out = append(out, se)
	}
	return out, rows.Err()
}

// ListSeasons returns all seasons for a series ordered ascending.
func (s *Store) ListSeasons(seriesID int64) ([]Season, error) { return listSeasons(s.db, seriesID) }

// LowestPositiveSeasonWithEpisodes returns the lowest season_number > 0 for
// the series that has at least one episode row, implementing the
// prefetch_season rule of §4.4.2 step 4. Returns 0 if none.
func (s *Store) LowestPositiveSeasonWithEpisodes(seriesID int64) (int, error) {
	var season int
	err := s.db.QueryRow(`
		SELECT COALESCE(MIN(season_number), 0) FROM (SELECT DISTINCT season_number FROM episodes WHERE series_id = ? AND season_number > 0)`,
		seriesID,
	).Scan(&season)
	if err != nil {
		return 0, fmt.Errorf("lowest season with episodes %d: %w", seriesID, err)
	}
	return season, nil
}

// HasAnySeasonOrEpisode reports whether the series has any season or
// episode rows at all (used by need_tv in the missing-parts detector).
func (s *Store) HasAnySeasonOrEpisode(seriesID int64) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM seasons WHERE series_id = ?`, seriesID).Scan(&n); err != nil {
		return false, fmt.Errorf("count seasons %d: %w", seriesID, err)
	}
	if n > 0 {
		return true, nil
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM episodes WHERE series_id = ?`, seriesID).Scan(&n); err != nil {
		return false, fmt.Errorf("count episodes %d: %w", seriesID, err)
	}
	return n > 0, nil
}

func upsertEpisode(q querier, e *Episode) error {
	_, err := q.Exec(`
		INSERT INTO episodes (series_id, season_number, episode_number, name, runtime, still, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(series_id, season_number, episode_number) DO UPDATE SET
			name = excluded.name, runtime = excluded.runtime, still = excluded.still, rating = excluded.rating`,
		e.SeriesID, e.SeasonNumber, e.EpisodeNumber, e.Name, e.Runtime, e.Still, e.Rating,
	)
	if err != nil {
		return fmt.Errorf("upsert episode %d/%d/%d: %w", e.SeriesID, e.SeasonNumber, e.EpisodeNumber, err)
	}
	return nil
}

func (s *Store) UpsertEpisode(e *Episode) error { return upsertEpisode(s.db, e) }
func (t *Tx) UpsertEpisode(e *Episode) error    { return upsertEpisode(t.tx, e) }

// ListEpisodes returns a season's episodes ordered by episode_number
// ascending (§4.4.2 step 4, S4).
func (s *Store) ListEpisodes(seriesID int64, season int) ([]Episode, error) {
	rows, err := s.db.Query(`
		SELECT series_id, season_number, episode_number, name, runtime, still, rating
		FROM episodes WHERE series_id = ? AND season_number = ? ORDER BY episode_number ASC`,
		seriesID, season)
	if err != nil {
		return nil, fmt.Errorf("list episodes %d/%d: %w", seriesID, season, err)
	}
	defer rows.Close()

	var out []Episode
	for rows.Next() {
		var e Episode
		if err := rows.Scan(&e.SeriesID, &e.SeasonNumber, &e.EpisodeNumber, &e.Name, &e.Runtime, &e.Still, &e.Rating); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
