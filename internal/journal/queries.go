package journal

import (
	"fmt"
	"time"
)

// Append records one change event.
func (j *Journal) Append(ev Event) error {
	query := `
		INSERT INTO events (pattern, path, detected_at)
		VALUES (?, ?, ?)
	`

	_, err := j.db.Exec(query,
		ev.Pattern,
		ev.Path,
		ev.DetectedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to append event for %s: %w", ev.Pattern, err)
	}
	return nil
}

// Recent returns the most recent events, newest first.
func (j *Journal) Recent(limit int) ([]Event, error) {
	query := `
		SELECT id, pattern, path, detected_at
		FROM events
		ORDER BY detected_at DESC, id DESC
		LIMIT ?
	`
	rows, err := j.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// RecentForPattern returns the most recent events for one watch pattern,
// newest first.
func (j *Journal) RecentForPattern(pattern string, limit int) ([]Event, error) {
	query := `
		SELECT id, pattern, path, detected_at
		FROM events
		WHERE pattern = ?
		ORDER BY detected_at DESC, id DESC
		LIMIT ?
	`
	rows, err := j.db.Query(query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for %s: %w", pattern, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CountSince returns the number of events detected at or after t.
func (j *Journal) CountSince(t time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM events WHERE detected_at >= ?`

	var count int
	err := j.db.QueryRow(query, t.UnixNano()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// Prune deletes events detected before the cutoff and reports how many
// rows were removed.
func (j *Journal) Prune(before time.Time) (int64, error) {
	query := `DELETE FROM events WHERE detected_at < ?`

	res, err := j.db.Exec(query, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned events: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEvents(rows rowScanner) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var ev Event
		var detectedAt int64
		if err := rows.Scan(&ev.ID, &ev.Pattern, &ev.Path, &detectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.DetectedAt = time.Unix(0, detectedAt).UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}
