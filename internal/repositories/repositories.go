// Package repositories contains the raw SQL data access layer. Each
// repository holds an optional *sql.DB and falls back to the shared
// connection, which keeps construction cheap and lets tests inject sqlmock.
package repositories

import (
	"database/sql"
	"time"

	intconfig "thrive/internal/config"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func fallbackDB(db *sql.DB) *sql.DB {
	if db != nil {
		return db
	}
	return intconfig.DB
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// nullIfEmpty stores optional strings as NULL instead of ''.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfEmptyBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
