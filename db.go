// db.go
//
// Database plumbing for the microblog server.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout, foreign keys,
//     immediate transaction lock so concurrent writers queue rather than
//     fail the deferred-to-write upgrade).
//   - Applying embedded migrations (idempotent, recorded in _migrations).

package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/microblog/go-server/sqlassets"
)

// DSNOptions are the connection options every handle uses, tests included.
const DSNOptions = "?_busy_timeout=5000&_journal_mode=WAL&_fk=1&_txlock=immediate"

// openDB opens (and creates if missing) a SQLite database file.
func openDB(dsn string) (*sql.DB, error) {
	// Ensure directory exists for ./data/app.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+DSNOptions)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies the embedded SQL migrations in lexical order, skipping
// files already recorded in _migrations.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	names, err := sqlassets.MigrationNames()
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	for _, name := range names {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, name).Scan(&done)
		if err == nil {
			log.Info().Str("migration", name).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlText, err := sqlassets.Read(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(sqlText); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", name, err)
		}
		log.Info().Str("migration", name).Msg("applied")
	}
	return nil
}
