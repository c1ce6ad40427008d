package assembler

import (
	"strconv"
	"strings"

	"github.com/vmunix/catalogd/internal/store"
)

const descriptionLimit = 240

// resolved is the localized name/overview pair a card or title response is
// built from, chosen by translated() with base-column fallback.
type resolved struct {
	Name     string
	Overview string
}

// translated implements §4.4's `translated(kind, id, lang, region)`: an
// exact (lang, region) row wins, then any row matching lang alone, then the
// caller's base name/overview.
func translated(q interface {
	Translated(kind store.MediaKind, id int64, lang, region string) (*store.Translation, error)
}, kind store.MediaKind, id int64, lang, region, baseName, baseOverview string) resolved {
	tr, err := q.Translated(kind, id, lang, region)
	if err != nil || tr == nil {
		return resolved{Name: baseName, Overview: baseOverview}
	}
	name := tr.Title
	if name == "" {
		name = baseName
	}
	overview := tr.Overview
	if overview == "" {
		overview = baseOverview
	}
	return resolved{Name: name, Overview: overview}
}

// describe truncates an overview to the card description limit, appending
// an ellipsis when truncated. Truncation is on runes so multi-byte
// characters never get split.
func describe(overview string) string {
	r := []rune(overview)
	if len(r) <= descriptionLimit {
		return overview
	}
	return string(r[:descriptionLimit]) + "…"
}

// yearOf parses the 4-digit year prefix of a "YYYY-MM-DD"-shaped date
// column. Returns nil when the prefix isn't a valid 4-digit number, per
// §4.4's "else none".
func yearOf(date string) *int {
	if len(date) < 4 {
		return nil
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &y
}

// splitGenres turns the comma-separated genre label column into a slice,
// trimming whitespace and dropping empty entries.
func splitGenres(genres string) []string {
	if genres == "" {
		return nil
	}
	parts := strings.Split(genres, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
