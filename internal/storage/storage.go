// Package storage defines the key-value persistence contract used by the
// adaptive engine and the flashcard scheduler. Both components serialize
// their full state to JSON under a single key; the store only ever sees
// opaque strings.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Load when no value exists for a key. Components
// treat any Load failure, including this one, as "absent" and fall back to
// their documented default state.
var ErrNotFound = errors.New("storage: key not found")

// Store is the minimal persistence collaborator. Save is best-effort: callers
// log and ignore failures, and the in-memory state stays authoritative for
// the rest of the session.
type Store interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
}

// MemStore is an in-memory Store. It backs tests and serves as the degraded
// fallback when the database cannot be opened.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (s *MemStore) Load(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemStore) Save(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Len reports the number of stored keys.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
