package session

import (
	"context"
	"errors"
	"time"

	"consumer-assistant/internal/contextutil"
	"consumer-assistant/internal/storage"
)

// SQLiteStore persists session values in SQLite so in-flight complaints survive a
// restart.
type SQLiteStore struct {
	repo *storage.SessionRepo
	ttl  time.Duration
}

// NewSQLiteStore creates a store over a session repository. Sessions idle for
// longer than ttl are removed by Sweep; zero ttl keeps them forever.
func NewSQLiteStore(repo *storage.SessionRepo, ttl time.Duration) *SQLiteStore {
	return &SQLiteStore{repo: repo, ttl: ttl}
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	v, err := s.repo.Get(ctx, sessionID, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 && time.Since(v.UpdatedAt) > s.ttl {
		return nil, ErrNotFound
	}
	return v.Value, nil
}

// Set implements Store.
func (s *SQLiteStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	return s.repo.Put(ctx, sessionID, key, value)
}

// Clear implements Store.
func (s *SQLiteStore) Clear(ctx context.Context, sessionID, key string) error {
	return s.repo.Delete(ctx, sessionID, key)
}

// Sweep removes sessions idle for longer than the store's ttl.
func (s *SQLiteStore) Sweep(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}
	n, err := s.repo.DeleteIdleBefore(ctx, time.Now().Add(-s.ttl))
	if err != nil {
		return err
	}
	if n > 0 {
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "removed idle sessions", "count", n)
	}
	return nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *SQLiteStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				contextutil.LoggerFromContext(ctx).WarnContext(ctx, "session sweep failed", "error", err)
			}
		}
	}
}
