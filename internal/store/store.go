// Package store provides the embedded relational store backing the
// catalog: read cursors for browse/search/home/title composition, and
// idempotent upserts used by ingestion and the backfill scheduler.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/catalogd/internal/migrations"
)

// querier abstracts *sql.DB and *sql.Tx for shared query logic, the same
// seam the teacher's library store uses to let read/write helpers run
// either directly against the pool or inside a transaction.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// MediaKind distinguishes movies from series across the shared tables
// (translations, videos, cast, genre edges).
type MediaKind string

const (
	KindMovie  MediaKind = "movie"
	KindSeries MediaKind = "series"
)

// Store owns the database connection pool. SQLite takes one writer at a
// time while reads may use many connections; Open uses a single pool of up
// to 16 connections for both and relies on SQLite's busy_timeout to queue
// concurrent writers rather than fail them.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalog database at path, runs
// the embedded schema, and returns a ready Store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single SQLite file tolerates many concurrent readers but only one
	// writer at a time; busy_timeout above lets writers queue instead of
	// erroring under contention from the backfill worker pool.
	db.SetMaxOpenConns(16)

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already-open *sql.DB (used by tests that want an
// in-memory database).
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying pool for components (like the backfill worker)
// that want their own dedicated connection per task.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Begin starts a transaction used to batch a backfill worker's upserts
// into a single commit (§4.3 "Commit once").
func (s *Store) Begin() (*Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a database transaction with the same methods as Store.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }

func now() int64 { return time.Now().Unix() }
