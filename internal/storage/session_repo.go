package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

const timeLayout = "2006-01-02 15:04:05"

// SessionRepo persists session state in SQLite.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Get returns the value stored under key for a session.
// Returns nil and ErrNotFound if not found.
func (r *SessionRepo) Get(ctx context.Context, sessionID, key string) (*SessionValue, error) {
	var v SessionValue
	var updatedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT session_id, key, value, updated_at FROM session_values WHERE session_id = ? AND key = ?",
		sessionID, key,
	).Scan(&v.SessionID, &v.Key, &v.Value, &updatedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session value: %w", err)
	}

	v.UpdatedAt, err = parseTime(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}

	return &v, nil
}

// Put stores value under key, creating the session row on first write.
func (r *SessionRepo) Put(ctx context.Context, sessionID, key string, value []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC().Format(timeLayout)

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, last_seen_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET last_seen_at = excluded.last_seen_at`,
		sessionID, now, now,
	); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO session_values (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionID, key, value, now,
	); err != nil {
		return fmt.Errorf("failed to upsert session value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session value: %w", err)
	}
	return nil
}

// Delete removes the value under key. Deleting a missing key is not an error.
func (r *SessionRepo) Delete(ctx context.Context, sessionID, key string) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM session_values WHERE session_id = ? AND key = ?",
		sessionID, key,
	); err != nil {
		return fmt.Errorf("failed to delete session value: %w", err)
	}
	return nil
}

// DeleteIdleBefore removes sessions, and their values, last seen before cutoff.
// It returns the number of sessions removed.
func (r *SessionRepo) DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE last_seen_at < ?",
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return n, nil
}

// Count returns the number of stored sessions.
func (r *SessionRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err == nil {
		return t, nil
	}
	// SQLite may hand back RFC3339 depending on how the value was written.
	return time.Parse(time.RFC3339, s)
}
