package store

import (
	"context"

	"trustnest/internal/document/models"
	id "trustnest/pkg/domain"
)

// Store persists document metadata. Documents are append-only; the only
// mutation after creation is the admin review annotation, and the only
// deletion is an explicit owner or admin action.
type Store interface {
	Append(ctx context.Context, doc *models.Document) error
	Find(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Document, error)
	SetReview(ctx context.Context, docID id.DocumentID, review models.ReviewState, reviewer id.UserID) (*models.Document, error)
	Delete(ctx context.Context, docID id.DocumentID) error
}
