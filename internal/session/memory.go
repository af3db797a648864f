package session

import (
	"context"
	"sync"
	"time"

	"consumer-assistant/internal/contextutil"
)

// MemoryStore keeps session values in process memory. Values expire after ttl
// without access; a zero ttl keeps them until cleared. Expired values are dropped
// when read and by Sweep.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]map[string]memoryEntry),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID][key]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expires.IsZero() && s.now().After(entry.expires) {
		s.deleteLocked(sessionID, key)
		return nil, ErrNotFound
	}
	if s.ttl > 0 {
		entry.expires = s.now().Add(s.ttl)
		s.sessions[sessionID][key] = entry
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.sessions[sessionID]
	if !ok {
		values = make(map[string]memoryEntry)
		s.sessions[sessionID] = values
	}
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if s.ttl > 0 {
		entry.expires = s.now().Add(s.ttl)
	}
	values[key] = entry
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(ctx context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(sessionID, key)
	return nil
}

// Sweep removes every expired value.
func (s *MemoryStore) Sweep(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	now := s.now()
	removed := 0
	for sessionID, values := range s.sessions {
		for key, entry := range values {
			if now.After(entry.expires) {
				s.deleteLocked(sessionID, key)
				removed++
			}
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "removed idle session values", "count", removed)
	}
	return nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
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
			_ = s.Sweep(ctx)
		}
	}
}

// Len returns the number of sessions holding at least one value.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) deleteLocked(sessionID, key string) {
	values, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	delete(values, key)
	if len(values) == 0 {
		delete(s.sessions, sessionID)
	}
}
