// Package backfill implements the lazy backfill scheduler (§4.3): it
// detects per-entity, per-locale data the store is missing, deduplicates
// scheduling so the same gap is never fetched twice within a recent
// window, and runs the actual Provider fetch + idempotent upsert on a
// bounded worker pool entirely outside the request path.
package backfill

import (
	"errors"
	"fmt"

	"github.com/vmunix/catalogd/internal/store"
)

// MissingParts flags which pieces of (kind, id, lang, region[, full]) the
// store doesn't yet have. A nil MissingParts means nothing is missing.
type MissingParts struct {
	NeedBase         bool
	NeedLogos        bool
	NeedTranslations bool
	NeedCast         bool
	NeedVideos       bool
	NeedTV           bool // series only, full only
}

func (m *MissingParts) any() bool {
	return m != nil && (m.NeedBase || m.NeedLogos || m.NeedTranslations || m.NeedCast || m.NeedVideos || m.NeedTV)
}

// Detect runs the missing-parts detector described in §4.3. It returns nil
// when the store already has everything this (kind, id, lang, region,
// full) combination needs.
func Detect(st *store.Store, kind store.MediaKind, id int64, lang, region string, full bool) (*MissingParts, error) {
	m := &MissingParts{}

	var logos string
	var haveBase bool
	switch kind {
	case store.KindMovie:
		mv, err := st.GetMovie(id)
		if err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("detect missing parts: %w", err)
		}
		haveBase = err == nil
		if haveBase {
			logos = mv.Logos
		}
	case store.KindSeries:
		se, err := st.GetSeries(id)
		if err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("detect missing parts: %w", err)
		}
		haveBase = err == nil
		if haveBase {
			logos = se.Logos
		}
	default:
		return nil, fmt.Errorf("detect missing parts: unknown media kind %q", kind)
	}

	if !haveBase {
		m.NeedBase = true
	} else if emptyLogos(logos) {
		m.NeedLogos = true
	}

	hasTranslation, err := st.HasTranslation(kind, id, lang, region)
	if err != nil {
		return nil, fmt.Errorf("detect missing parts: %w", err)
	}
	if !hasTranslation {
		m.NeedTranslations = true
	}

	if full {
		hasCast, err := st.HasCast(kind, id)
		if err != nil {
			return nil, fmt.Errorf("detect missing parts: %w", err)
		}
		m.NeedCast = !hasCast

		hasVideo, err := st.HasVideo(kind, id)
		if err != nil {
			return nil, fmt.Errorf("detect missing parts: %w", err)
		}
		m.NeedVideos = !hasVideo

		if kind == store.KindSeries && haveBase {
			hasTV, err := st.HasAnySeasonOrEpisode(id)
			if err != nil {
				return nil, fmt.Errorf("detect missing parts: %w", err)
			}
			m.NeedTV = !hasTV
		}
	}

	if !m.any() {
		return nil, nil
	}
	return m, nil
}

// emptyLogos reports whether a logos JSON blob carries no entries. Treats
// "", "{}" and "null" as empty without a full JSON parse since those are
// the only values ever written by UpsertMovie/UpsertSeries or the backfill
// worker.
func emptyLogos(logosJSON string) bool {
	switch logosJSON {
	case "", "{}", "null":
		return true
	default:
		return false
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
