package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoSession is returned when a token is unknown or expired.
var ErrNoSession = errors.New("no such session")

// Store maps opaque session tokens to user ids on the server side. It
// backs the fallback lookup used when a request carries no identity
// claim. Production deployments may point it at Redis; the in-memory
// implementation is the default.
type Store interface {
	Put(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

type memoryEntry struct {
	userID    int64
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Expired entries are dropped
// lazily on read.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Put(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{userID: userID}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.sessions[token] = entry
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return 0, ErrNoSession
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(s.sessions, token)
		return 0, ErrNoSession
	}
	return entry.userID, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}
