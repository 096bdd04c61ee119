// internal/store/store.go
//
// SQLite-backed relational store for accounts, posts, and likes.
// Responsibilities:
//   - Row scanning and RFC3339 timestamp handling.
//   - Sentinel errors (ErrNotFound, ErrConflict) at the package boundary.
//   - Constraint-violation detection for uniqueness races.
//
// All durable state lives here; there is no in-process cache.

package store

import (
	"database/sql"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/microblog/go-server/internal/util"
)

var (
	// ErrNotFound means the target row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict means a uniqueness invariant would be violated.
	ErrConflict = errors.New("store: conflict")
	// ErrNotOwner means the target exists but belongs to another account.
	ErrNotOwner = errors.New("store: not owner")
)

// Store wraps the database handle. Clock is injectable so tests can pin
// created_at values.
type Store struct {
	db    *sql.DB
	Clock util.Clock
}

func New(db *sql.DB) *Store {
	return &Store{db: db, Clock: util.NewRealClock()}
}

// DB exposes the underlying handle (useful for diagnostics).
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) now() string {
	return s.Clock.NowUtc().Format(time.RFC3339)
}

func parseTime(v string) time.Time {
	t, _ := time.Parse(time.RFC3339, v)
	return t
}

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
