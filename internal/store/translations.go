package store

import "fmt"

func upsertTranslation(q querier, tr *Translation) error {
	_, err := q.Exec(`
		INSERT INTO translations (media_kind, id, lang, region, title, overview, tagline, homepage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(media_kind, id, lang, region) DO UPDATE SET
			title = excluded.title,
			overview = excluded.overview,
			tagline = excluded.tagline,
			homepage = excluded.homepage`,
		tr.MediaKind, tr.ID, tr.Lang, tr.Region, tr.Title, tr.Overview, tr.Tagline, tr.Homepage,
	)
	if err != nil {
		return fmt.Errorf("upsert translation %s/%d/%s-%s: %w", tr.MediaKind, tr.ID, tr.Lang, tr.Region, err)
	}
	return nil
}

// UpsertTranslation idempotently writes one (lang, region) translation row.
func (s *Store) UpsertTranslation(tr *Translation) error { return upsertTranslation(s.db, tr) }
func (t *Tx) UpsertTranslation(tr *Translation) error    { return upsertTranslation(t.tx, tr) }

// Translated resolves the locale-aware title/overview for (kind, id),
// implementing the two-step fallback from §4.4: an exact (lang, region)
// match first, then any row for lang alone. Returns (nil, nil) when
// neither matches, letting the caller fall back to base columns.
func translated(q querier, kind MediaKind, id int64, lang, region string) (*Translation, error) {
	if region != "" {
		tr, err := queryTranslation(q, `
			SELECT media_kind, id, lang, region, title, overview, tagline, homepage
			FROM translations WHERE media_kind = ? AND id = ? AND lang = ? AND region = ? LIMIT 1`,
			kind, id, lang, region)
		if err != nil {
			return nil, err
		}
		if tr != nil {
			return tr, nil
		}
	}
	return queryTranslation(q, `
		SELECT media_kind, id, lang, region, title, overview, tagline, homepage
		FROM translations WHERE media_kind = ? AND id = ? AND lang = ? LIMIT 1`,
		kind, id, lang)
}

func queryTranslation(q querier, query string, args ...any) (*Translation, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query translation: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	tr := &Translation{}
	if err := rows.Scan(&tr.MediaKind, &tr.ID, &tr.Lang, &tr.Region, &tr.Title, &tr.Overview, &tr.Tagline, &tr.Homepage); err != nil {
		return nil, fmt.Errorf("scan translation: %w", err)
	}
	return tr, nil
}

// Translated returns the best-matching translation for (kind, id, lang,
// region), or (nil, nil) if none exists.
func (s *Store) Translated(kind MediaKind, id int64, lang, region string) (*Translation, error) {
	return translated(s.db, kind, id, lang, region)
}
func (t *Tx) Translated(kind MediaKind, id int64, lang, region string) (*Translation, error) {
	return translated(t.tx, kind, id, lang, region)
}

// HasTranslation reports whether any translation row exists for (kind, id,
// lang[, region]) — used by the missing-parts detector.
func (s *Store) HasTranslation(kind MediaKind, id int64, lang, region string) (bool, error) {
	tr, err := s.Translated(kind, id, lang, region)
	return tr != nil, err
}
