package store

import (
	"context"

	"trustnest/internal/admin/models"
	id "trustnest/pkg/domain"
)

// FlagStore persists risk flags.
type FlagStore interface {
	Create(ctx context.Context, flag *models.RiskFlag) error
	Find(ctx context.Context, flagID id.FlagID) (*models.RiskFlag, error)
	Resolve(ctx context.Context, flagID id.FlagID, resolver id.UserID) (*models.RiskFlag, error)
	List(ctx context.Context, onlyOpen bool, limit int) ([]*models.RiskFlag, error)
	CountOpen(ctx context.Context) (int, error)
}

// ModerationStore persists suspension state.
type ModerationStore interface {
	Get(ctx context.Context, userID id.UserID) (*models.Moderation, error)
	Save(ctx context.Context, moderation *models.Moderation) error
	CountSuspended(ctx context.Context) (int, error)
}
