package session

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks consumer-assistant/internal/session Store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a session has no value under the key.
var ErrNotFound = errors.New("session value not found")

// Store is a key-value store scoped by session ID. Writes are last-write-wins;
// callers serialize per-session read-modify-write cycles with a Locker.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, sessionID, key string, value []byte) error
	// Clear removes the value under key. Clearing a missing key is not an error.
	Clear(ctx context.Context, sessionID, key string) error
}
