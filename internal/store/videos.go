package store

import "fmt"

// UpsertVideo writes the (at most one) trailer row kept per title. The
// backfill worker only calls this for the first item with a key (§4.3), so
// the upsert itself has no "keep first" logic — that selection happens
// before the call.
func upsertVideo(q querier, v *Video) error {
	_, err := q.Exec(`
		INSERT INTO videos (media_kind, id, site, key)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(media_kind, id) DO UPDATE SET site = excluded.site, key = excluded.key`,
		v.MediaKind, v.ID, v.Site, v.Key,
	)
	if err != nil {
		return fmt.Errorf("upsert video %s/%d: %w", v.MediaKind, v.ID, err)
	}
	return nil
}

func (s *Store) UpsertVideo(v *Video) error { return upsertVideo(s.db, v) }
func (t *Tx) UpsertVideo(v *Video) error    { return upsertVideo(t.tx, v) }

func getVideo(q querier, kind MediaKind, id int64) (*Video, error) {
	v := &Video{}
	err := q.QueryRow(`SELECT media_kind, id, site, key FROM videos WHERE media_kind = ? AND id = ?`, kind, id).
		Scan(&v.MediaKind, &v.ID, &v.Site, &v.Key)
	if err != nil {
		return nil, mapNotFound(err, fmt.Sprintf("get video %s/%d", kind, id))
	}
	return v, nil
}

// GetVideo returns the trailer row for (kind, id), or ErrNotFound.
func (s *Store) GetVideo(kind MediaKind, id int64) (*Video, error) { return getVideo(s.db, kind, id) }
func (t *Tx) GetVideo(kind MediaKind, id int64) (*Video, error)    { return getVideo(t.tx, kind, id) }

// HasVideo reports whether a video row exists for (kind, id).
func (s *Store) HasVideo(kind MediaKind, id int64) (bool, error) {
	_, err := s.GetVideo(kind, id)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}
