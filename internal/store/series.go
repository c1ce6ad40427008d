package store

import "fmt"

func upsertSeries(q querier, se *Series) error {
	_, err := q.Exec(`
		INSERT INTO series (id, name, overview, vote_average, vote_count, first_air_date, popularity, poster, backdrop, logos, genres, networks, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			overview = excluded.overview,
			vote_average = excluded.vote_average,
			vote_count = excluded.vote_count,
			first_air_date = excluded.first_air_date,
			popularity = excluded.popularity,
			poster = excluded.poster,
			backdrop = excluded.backdrop,
			genres = excluded.genres,
			networks = excluded.networks,
			updated_at = excluded.updated_at`,
		se.ID, se.Name, se.Overview, se.VoteAverage, se.VoteCount, se.FirstAirDate, se.Popularity, se.Poster, se.Backdrop, se.Logos, se.Genres, se.Networks, now(),
	)
	if err != nil {
		return fmt.Errorf("upsert series %d: %w", se.ID, err)
	}
	return nil
}

// UpsertSeries idempotently inserts or updates a series' base fields.
// Like UpsertMovie, se.Logos is written only on first insert; an update of
// an existing row leaves logos untouched (use UpsertSeriesLogos).
func (s *Store) UpsertSeries(se *Series) error { return upsertSeries(s.db, se) }
func (t *Tx) UpsertSeries(se *Series) error    { return upsertSeries(t.tx, se) }

func upsertSeriesLogos(q querier, id int64, logosJSON string) error {
	_, err := q.Exec(`UPDATE series SET logos = ?, updated_at = ? WHERE id = ?`, logosJSON, now(), id)
	if err != nil {
		return fmt.Errorf("upsert series logos %d: %w", id, err)
	}
	return nil
}

func (s *Store) UpsertSeriesLogos(id int64, logosJSON string) error {
	return upsertSeriesLogos(s.db, id, logosJSON)
}
func (t *Tx) UpsertSeriesLogos(id int64, logosJSON string) error {
	return upsertSeriesLogos(t.tx, id, logosJSON)
}

func getSeries(q querier, id int64) (*Series, error) {
	se := &Series{}
	err := q.QueryRow(`
		SELECT id, name, overview, vote_average, vote_count, first_air_date, popularity, poster, backdrop, logos, genres, networks
		FROM series WHERE id = ?`, id,
	).Scan(&se.ID, &se.Name, &se.Overview, &se.VoteAverage, &se.VoteCount, &se.FirstAirDate, &se.Popularity, &se.Poster, &se.Backdrop, &se.Logos, &se.Genres, &se.Networks)
	if err != nil {
		return nil, mapNotFound(err, fmt.Sprintf("get series %d", id))
	}
	return se, nil
}

// GetSeries returns the series with the given id, or ErrNotFound.
func (s *Store) GetSeries(id int64) (*Series, error) { return getSeries(s.db, id) }
func (t *Tx) GetSeries(id int64) (*Series, error)    { return getSeries(t.tx, id) }
