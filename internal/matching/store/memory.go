package store

import (
	"context"
	"sync"

	"trustnest/internal/matching"
	id "trustnest/pkg/domain"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	matches []matching.Match
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, match *matching.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, *match)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID, limit int) ([]*matching.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*matching.Match
	// Newest first.
	for i := len(s.matches) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		m := s.matches[i]
		if m.UserA == userID || m.UserB == userID {
			copied := m
			out = append(out, &copied)
		}
	}
	return out, nil
}
