package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested entity doesn't exist locally.
var ErrNotFound = errors.New("not found")

// isNotFound reports whether err wraps ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// mapNotFound converts sql.ErrNoRows to ErrNotFound, wrapping with context.
func mapNotFound(err error, context string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", context, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", context, err)
}
