package service

import (
	"context"
	"errors"
	"log/slog"

	"trustnest/internal/platform/metrics"
	"trustnest/internal/profile/models"
	profilestore "trustnest/internal/profile/store"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/platform/sentinel"
	"trustnest/pkg/requestcontext"
)

// Service owns roommate preference profiles.
type Service struct {
	store   profilestore.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(store profilestore.Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the user's profile, creating an empty one on first access.
// Profiles are never deleted; an empty profile is a valid state.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	profile, err := s.store.Find(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	profile = models.NewProfile(userID, requestcontext.Now(ctx))
	if err := s.store.Save(ctx, profile); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}
	if s.metrics != nil {
		s.metrics.IncrementProfilesCreated()
	}
	s.logger.InfoContext(ctx, "profile created",
		"user_id", userID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return profile, nil
}

// Update applies a partial update to the user's profile, creating it first if
// the user has never saved one.
func (s *Service) Update(ctx context.Context, userID id.UserID, update models.Update) (*models.Profile, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Apply(update, requestcontext.Now(ctx))

	// Cross-field constraint can be violated by a partial update touching
	// only one side of the budget range.
	if profile.BudgetMin != nil && profile.BudgetMax != nil && *profile.BudgetMin > *profile.BudgetMax {
		return nil, dErrors.New(dErrors.CodeValidation, "budget_min must not exceed budget_max")
	}

	if err := s.store.Save(ctx, profile); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}
	return profile, nil
}

// Lookup returns the profile of another user without lazy creation. Used by
// the compatibility engine, which must fail on missing profiles rather than
// substitute a blank one.
func (s *Service) Lookup(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	profile, err := s.store.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return profile, nil
}
