package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the profile-owned medogram.db connection. It holds the session
// token, the chat transcript, cached blog posts and recorded bookings.
type DB struct {
	*sql.DB
}

// Open opens the sqlite database with WAL mode, a busy timeout and foreign
// keys enabled. The profile flock already guarantees a single client
// process; a single connection on top of that avoids SQLITE_BUSY between
// the UI goroutines.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &DB{db}, nil
}
