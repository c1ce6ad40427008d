package store

import "fmt"

// TitlePart names one of the per-title backfill parts tracked by a
// write-once marker (§3 "Backfill-done markers").
type TitlePart string

const (
	PartTranslations TitlePart = "translations"
	PartVideos       TitlePart = "videos"
	PartCast         TitlePart = "cast"
)

// MarkTitlePartDone records that a backfill (or ingestion) attempt for
// (kind, id, part) has completed, regardless of whether it found data.
func markTitlePartDone(q querier, kind MediaKind, id int64, part TitlePart) error {
	_, err := q.Exec(`
		INSERT INTO backfill_title_markers (media_kind, id, part, done_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(media_kind, id, part) DO UPDATE SET done_at = excluded.done_at`,
		kind, id, part, now(),
	)
	if err != nil {
		return fmt.Errorf("mark title part done %s/%d/%s: %w", kind, id, part, err)
	}
	return nil
}

func (s *Store) MarkTitlePartDone(kind MediaKind, id int64, part TitlePart) error {
	return markTitlePartDone(s.db, kind, id, part)
}
func (t *Tx) MarkTitlePartDone(kind MediaKind, id int64, part TitlePart) error {
	return markTitlePartDone(t.tx, kind, id, part)
}

// TitlePartDone reports whether (kind, id, part) was already marked done.
func (s *Store) TitlePartDone(kind MediaKind, id int64, part TitlePart) (bool, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM backfill_title_markers WHERE media_kind = ? AND id = ? AND part = ?`,
		kind, id, part,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("title part done %s/%d/%s: %w", kind, id, part, err)
	}
	return n > 0, nil
}

func markSeasonDone(q querier, seriesID int64, season int) error {
	_, err := q.Exec(`
		INSERT INTO backfill_season_markers (series_id, season_number, done_at) VALUES (?, ?, ?)
		ON CONFLICT(series_id, season_number) DO UPDATE SET done_at = excluded.done_at`,
		seriesID, season, now(),
	)
	if err != nil {
		return fmt.Errorf("mark season done %d/%d: %w", seriesID, season, err)
	}
	return nil
}

func (s *Store) MarkSeasonDone(seriesID int64, season int) error {
	return markSeasonDone(s.db, seriesID, season)
}
func (t *Tx) MarkSeasonDone(seriesID int64, season int) error {
	return markSeasonDone(t.tx, seriesID, season)
}
