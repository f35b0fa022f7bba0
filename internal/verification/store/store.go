package store

import (
	"context"

	"trustnest/internal/verification/models"
	id "trustnest/pkg/domain"
)

// Store persists verification records. Mutate serializes the
// read-derive-write sequence per user so concurrent sub-check completions
// cannot lose the all-checks-complete transition.
type Store interface {
	// GetOrCreate returns the user's record, creating the initial pending
	// state on first touch.
	GetOrCreate(ctx context.Context, userID id.UserID) (*models.Record, error)

	// Find returns the record or sentinel.ErrNotFound.
	Find(ctx context.Context, userID id.UserID) (*models.Record, error)

	// Mutate loads the record (creating it if absent), applies fn under a
	// per-user lock or transaction, and persists the result atomically. The
	// context passed to fn carries the transaction where the backend has
	// one, so collaborating writes (audit entries) commit together.
	Mutate(ctx context.Context, userID id.UserID, fn func(ctx context.Context, record *models.Record) error) (*models.Record, error)

	// CountByStatus summarizes records per lifecycle state for the admin
	// dashboard.
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
}
