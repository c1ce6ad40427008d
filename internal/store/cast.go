package store

import "fmt"

// ReplaceCast atomically replaces all cast rows for (kind, id) with members,
// per §3's "Cast rows for a title are replaced atomically on refresh."
// members is expected to already be capped at 24 entries (§4.3).
func (s *Store) ReplaceCast(kind MediaKind, id int64, members []CastMember) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	if err := tx.ReplaceCast(kind, id, members); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ReplaceCast is the transactional form, used by the backfill worker which
// commits all of a task's writes together.
func (t *Tx) ReplaceCast(kind MediaKind, id int64, members []CastMember) error {
	if _, err := t.tx.Exec(`DELETE FROM cast_members WHERE media_kind = ? AND id = ?`, kind, id); err != nil {
		return fmt.Errorf("clear cast %s/%d: %w", kind, id, err)
	}
	for _, m := range members {
		if _, err := t.tx.Exec(`
			INSERT INTO cast_members (media_kind, id, credit_id, person, character, ord, profile)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			kind, id, m.CreditID, m.Person, m.Character, m.Order, m.Profile,
		); err != nil {
			return fmt.Errorf("insert cast %s/%d credit %s: %w", kind, id, m.CreditID, err)
		}
	}
	return nil
}

func listCast(q querier, kind MediaKind, id int64, limit int) ([]CastMember, error) {
	rows, err := q.Query(`
		SELECT media_kind, id, credit_id, person, character, ord, profile
		FROM cast_members WHERE media_kind = ? AND id = ? ORDER BY ord ASC LIMIT ?`,
		kind, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list cast %s/%d: %w", kind, id, err)
	}
	defer rows.Close()

	var out []CastMember
	for rows.Next() {
		var m CastMember
		if err := rows.Scan(&m.MediaKind, &m.ID, &m.CreditID, &m.Person, &m.Character, &m.Order, &m.Profile); err != nil {
			return nil, fmt.Errorf("scan cast: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListCast returns up to limit cast entries for (kind, id), ascending by
// order (§4.4.2 step 5).
func (s *Store) ListCast(kind MediaKind, id int64, limit int) ([]CastMember, error) {
	return listCast(s.db, kind, id, limit)
}

// HasCast reports whether any cast row exists for (kind, id).
func (s *Store) HasCast(kind MediaKind, id int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM cast_members WHERE media_kind = ? AND id = ?`, kind, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count cast %s/%d: %w", kind, id, err)
	}
	return n > 0, nil
}
