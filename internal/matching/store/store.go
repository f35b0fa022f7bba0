package store

import (
	"context"

	"trustnest/internal/matching"
	id "trustnest/pkg/domain"
)

// Store persists historical match records. Append never replaces prior
// records; each computation produces a new row.
type Store interface {
	Append(ctx context.Context, match *matching.Match) error
	ListByUser(ctx context.Context, userID id.UserID, limit int) ([]*matching.Match, error)
}
