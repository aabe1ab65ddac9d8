// Package journal persists detected file change events in SQLite so the
// watch daemon's history survives restarts and can be inspected with
// `watchdog events`.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Event is one detected change.
type Event struct {
	ID         int64
	Pattern    string // the registered watch path, wildcard included
	Path       string // the path handed to the callback
	DetectedAt time.Time
}

// Journal provides SQLite-backed storage for change events.
type Journal struct {
	db *sql.DB
}

// Open creates a Journal at the specified database path.
// Use ":memory:" for in-memory databases (useful for testing).
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

func (j *Journal) createSchema() error {
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// detected_at is stored as Unix nanoseconds so range queries and ordering
// stay correct at full timestamp precision.
const schema = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    pattern TEXT NOT NULL,
    path TEXT NOT NULL,
    detected_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_pattern ON events(pattern);
CREATE INDEX IF NOT EXISTS idx_events_detected ON events(detected_at);
`
