package storage

import "time"

// SessionValue is one key of a session's state.
type SessionValue struct {
	SessionID string
	Key       string
	Value     []byte
	UpdatedAt time.Time
}
