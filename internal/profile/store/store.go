package store

import (
	"context"

	"trustnest/internal/profile/models"
	id "trustnest/pkg/domain"
)

// Store persists roommate preference profiles. Find returns
// sentinel.ErrNotFound when the user has never saved a profile.
type Store interface {
	Find(ctx context.Context, userID id.UserID) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
}
