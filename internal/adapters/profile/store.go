// Package profile defines the display-name store interface and its
// in-memory implementation.
package profile

import (
	"context"
	"sync"
)

// Store provides read access to user display names.
type Store interface {
	// DisplayName returns the profile display name for userID, which may be
	// empty. Returns ErrNotFound when no profile exists at all.
	DisplayName(ctx context.Context, userID string) (string, error)
}

// MemStore implements Store with an in-memory map.
type MemStore struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewMemStore creates an empty profile store.
func NewMemStore(_ context.Context) *MemStore {
	return &MemStore{names: make(map[string]string)}
}

// Set creates or replaces the display name for userID.
func (s *MemStore) Set(_ context.Context, userID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[userID] = name
}

// DisplayName returns the display name for userID.
func (s *MemStore) DisplayName(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.names[userID]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}
