package store

import "fmt"

func upsertGenre(q querier, g *Genre) error {
	_, err := q.Exec(`
		INSERT INTO genres (media_kind, genre_id, name) VALUES (?, ?, ?)
		ON CONFLICT(media_kind, genre_id) DO UPDATE SET name = excluded.name`,
		g.MediaKind, g.GenreID, g.Name,
	)
	if err != nil {
		return fmt.Errorf("upsert genre %s/%d: %w", g.MediaKind, g.GenreID, err)
	}
	return nil
}

func (s *Store) UpsertGenre(g *Genre) error { return upsertGenre(s.db, g) }
func (t *Tx) UpsertGenre(g *Genre) error    { return upsertGenre(t.tx, g) }

func upsertGenreEdge(q querier, kind MediaKind, id, genreID int64) error {
	_, err := q.Exec(`
		INSERT INTO genre_edges (media_kind, id, genre_id) VALUES (?, ?, ?)
		ON CONFLICT(media_kind, id, genre_id) DO NOTHING`,
		kind, id, genreID,
	)
	if err != nil {
		return fmt.Errorf("upsert genre edge %s/%d/%d: %w", kind, id, genreID, err)
	}
	return nil
}

func (s *Store) UpsertGenreEdge(kind MediaKind, id, genreID int64) error {
	return upsertGenreEdge(s.db, kind, id, genreID)
}
func (t *Tx) UpsertGenreEdge(kind MediaKind, id, genreID int64) error {
	return upsertGenreEdge(t.tx, kind, id, genreID)
}

// HasGenreEdges reports whether the genre_edges table has been populated
// at all, to decide between normalized-edge and substring-label queries
// (§4.4.1 "genres", §4.4.3 "genre").
func (s *Store) HasGenreEdges() (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM genre_edges LIMIT 1`).Scan(&n); err != nil {
		return false, fmt.Errorf("count genre edges: %w", err)
	}
	return n > 0, nil
}
