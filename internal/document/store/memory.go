package store

import (
	"context"
	"sync"

	"trustnest/internal/document/models"
	id "trustnest/pkg/domain"
	"trustnest/pkg/platform/sentinel"
	"trustnest/pkg/requestcontext"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[id.DocumentID]*models.Document
	// insertion order for stable listings
	order []id.DocumentID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[id.DocumentID]*models.Document)}
}

func (s *InMemoryStore) Append(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *doc
	s.docs[doc.ID] = &copied
	s.order = append(s.order, doc.ID)
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, docID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Document
	for i := len(s.order) - 1; i >= 0; i-- {
		doc := s.docs[s.order[i]]
		if doc != nil && doc.UserID == userID {
			copied := *doc
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemoryStore) SetReview(ctx context.Context, docID id.DocumentID, review models.ReviewState, reviewer id.UserID) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	now := requestcontext.Now(ctx)
	doc.Review = review
	doc.ReviewedBy = &reviewer
	doc.ReviewedAt = &now
	copied := *doc
	return &copied, nil
}

func (s *InMemoryStore) Delete(_ context.Context, docID id.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[docID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.docs, docID)
	return nil
}
