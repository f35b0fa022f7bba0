package store

import (
	"context"
	"sync"

	"trustnest/internal/admin/models"
	id "trustnest/pkg/domain"
	"trustnest/pkg/platform/sentinel"
	"trustnest/pkg/requestcontext"
)

type InMemoryFlagStore struct {
	mu    sync.RWMutex
	flags map[id.FlagID]*models.RiskFlag
	order []id.FlagID
}

func NewInMemoryFlagStore() *InMemoryFlagStore {
	return &InMemoryFlagStore{flags: make(map[id.FlagID]*models.RiskFlag)}
}

func (s *InMemoryFlagStore) Create(_ context.Context, flag *models.RiskFlag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *flag
	s.flags[flag.ID] = &copied
	s.order = append(s.order, flag.ID)
	return nil
}

func (s *InMemoryFlagStore) Find(_ context.Context, flagID id.FlagID) (*models.RiskFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flag, ok := s.flags[flagID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *flag
	return &copied, nil
}

func (s *InMemoryFlagStore) Resolve(ctx context.Context, flagID id.FlagID, resolver id.UserID) (*models.RiskFlag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	flag, ok := s.flags[flagID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	now := requestcontext.Now(ctx)
	flag.Status = models.FlagResolved
	flag.ResolvedBy = &resolver
	flag.ResolvedAt = &now
	copied := *flag
	return &copied, nil
}

func (s *InMemoryFlagStore) List(_ context.Context, onlyOpen bool, limit int) ([]*models.RiskFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	var out []*models.RiskFlag
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		flag := s.flags[s.order[i]]
		if onlyOpen && flag.Status != models.FlagOpen {
			continue
		}
		copied := *flag
		out = append(out, &copied)
	}
	return out, nil
}

func (s *InMemoryFlagStore) CountOpen(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, flag := range s.flags {
		if flag.Status == models.FlagOpen {
			count++
		}
	}
	return count, nil
}

type InMemoryModerationStore struct {
	mu      sync.RWMutex
	entries map[id.UserID]*models.Moderation
}

func NewInMemoryModerationStore() *InMemoryModerationStore {
	return &InMemoryModerationStore{entries: make(map[id.UserID]*models.Moderation)}
}

func (s *InMemoryModerationStore) Get(_ context.Context, userID id.UserID) (*models.Moderation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (s *InMemoryModerationStore) Save(_ context.Context, moderation *models.Moderation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *moderation
	s.entries[moderation.UserID] = &copied
	return nil
}

func (s *InMemoryModerationStore) CountSuspended(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, entry := range s.entries {
		if entry.Suspended {
			count++
		}
	}
	return count, nil
}
