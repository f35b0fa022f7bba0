package store

import (
	"context"
	"sync"

	"trustnest/internal/verification/models"
	id "trustnest/pkg/domain"
	"trustnest/pkg/platform/sentinel"
	"trustnest/pkg/requestcontext"
)

// InMemoryStore keeps verification records in memory with a per-user lock so
// Mutate behaves as if atomic per user.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[id.UserID]*models.Record
	locks   map[id.UserID]*sync.Mutex
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[id.UserID]*models.Record),
		locks:   make(map[id.UserID]*sync.Mutex),
	}
}

func (s *InMemoryStore) userLock(userID id.UserID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *InMemoryStore) GetOrCreate(ctx context.Context, userID id.UserID) (*models.Record, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		record = models.NewRecord(userID, requestcontext.Now(ctx))
		s.records[userID] = record
	}
	copied := *record
	return &copied, nil
}

func (s *InMemoryStore) Find(_ context.Context, userID id.UserID) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *InMemoryStore) Mutate(ctx context.Context, userID id.UserID, fn func(ctx context.Context, record *models.Record) error) (*models.Record, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	record, ok := s.records[userID]
	if !ok {
		record = models.NewRecord(userID, requestcontext.Now(ctx))
		s.records[userID] = record
	}
	working := *record
	s.mu.Unlock()

	if err := fn(ctx, &working); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.records[userID] = &working
	s.mu.Unlock()

	copied := working
	return &copied, nil
}

func (s *InMemoryStore) CountByStatus(_ context.Context) (map[models.Status]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[models.Status]int)
	for _, record := range s.records {
		counts[record.Status]++
	}
	return counts, nil
}
