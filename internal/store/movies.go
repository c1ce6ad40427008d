package store

import "fmt"

func upsertMovie(q querier, m *Movie) error {
	_, err := q.Exec(`
		INSERT INTO movies (id, title, overview, vote_average, vote_count, release_date, popularity, poster, backdrop, logos, genres, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			overview = excluded.overview,
			vote_average = excluded.vote_average,
			vote_count = excluded.vote_count,
			release_date = excluded.release_date,
			popularity = excluded.popularity,
			poster = excluded.poster,
			backdrop = excluded.backdrop,
			genres = excluded.genres,
			updated_at = excluded.updated_at`,
		m.ID, m.Title, m.Overview, m.VoteAverage, m.VoteCount, m.ReleaseDate, m.Popularity, m.Poster, m.Backdrop, m.Logos, m.Genres, now(),
	)
	if err != nil {
		return fmt.Errorf("upsert movie %d: %w", m.ID, err)
	}
	return nil
}

// UpsertMovie idempotently inserts or updates a movie's base fields.
// m.Logos is written only when the row is first inserted; an update of an
// existing row leaves logos untouched (use UpsertMovieLogos) so a
// base-fields refresh never clobbers a previously-fetched logos map.
func (s *Store) UpsertMovie(m *Movie) error { return upsertMovie(s.db, m) }
func (t *Tx) UpsertMovie(m *Movie) error    { return upsertMovie(t.tx, m) }

func upsertMovieLogos(q querier, id int64, logosJSON string) error {
	_, err := q.Exec(`UPDATE movies SET logos = ?, updated_at = ? WHERE id = ?`, logosJSON, now(), id)
	if err != nil {
		return fmt.Errorf("upsert movie logos %d: %w", id, err)
	}
	return nil
}

func (s *Store) UpsertMovieLogos(id int64, logosJSON string) error {
	return upsertMovieLogos(s.db, id, logosJSON)
}
func (t *Tx) UpsertMovieLogos(id int64, logosJSON string) error {
	return upsertMovieLogos(t.tx, id, logosJSON)
}

func getMovie(q querier, id int64) (*Movie, error) {
	m := &Movie{}
	err := q.QueryRow(`
		SELECT id, title, overview, vote_average, vote_count, release_date, popularity, poster, backdrop, logos, genres
		FROM movies WHERE id = ?`, id,
	).Scan(&m.ID, &m.Title, &m.Overview, &m.VoteAverage, &m.VoteCount, &m.ReleaseDate, &m.Popularity, &m.Poster, &m.Backdrop, &m.Logos, &m.Genres)
	if err != nil {
		return nil, mapNotFound(err, fmt.Sprintf("get movie %d", id))
	}
	return m, nil
}

// GetMovie returns the movie with the given id, or ErrNotFound.
func (s *Store) GetMovie(id int64) (*Movie, error) { return getMovie(s.db, id) }
func (t *Tx) GetMovie(id int64) (*Movie, error)    { return getMovie(t.tx, id) }
