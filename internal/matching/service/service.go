package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"trustnest/internal/matching"
	matchstore "trustnest/internal/matching/store"
	"trustnest/internal/platform/metrics"
	profilemodels "trustnest/internal/profile/models"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/requestcontext"
)

// ProfileLookup resolves preference profiles without lazy creation. A missing
// profile is a NotFound failure for the compatibility engine, never a blank
// substitute.
type ProfileLookup interface {
	Lookup(ctx context.Context, userID id.UserID) (*profilemodels.Profile, error)
}

// Service orchestrates compatibility computation and match history.
type Service struct {
	engine   *matching.Engine
	profiles ProfileLookup
	matches  matchstore.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
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
func New(profiles ProfileLookup, matches matchstore.Store, opts ...Option) *Service {
	s := &Service{
		engine:   matching.NewEngine(),
		profiles: profiles,
		matches:  matches,
		logger:   slog.Default(),
		tracer:   otel.Tracer("trustnest/matching"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compute scores two users against each other and appends a Match record.
// The computation itself is pure; the append is a side effect that never
// alters the returned result.
func (s *Service) Compute(ctx context.Context, userA, userB id.UserID) (*matching.Result, error) {
	ctx, span := s.tracer.Start(ctx, "matching.Compute")
	defer span.End()

	if userA == userB {
		return nil, dErrors.New(dErrors.CodeValidation, "cannot compute compatibility with yourself")
	}

	// Fetch both profiles in parallel with early cancellation on first failure.
	g, gctx := errgroup.WithContext(ctx)
	var profileA, profileB *profilemodels.Profile
	g.Go(func() error {
		var err error
		profileA, err = s.profiles.Lookup(gctx, userA)
		return err
	})
	g.Go(func() error {
		var err error
		profileB, err = s.profiles.Lookup(gctx, userB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := s.engine.Compute(profileA, profileB)
	span.SetAttributes(attribute.Int("match.score", result.Score))

	match := &matching.Match{
		ID:        id.NewMatchID(),
		UserA:     userA,
		UserB:     userB,
		Result:    result,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.matches.Append(ctx, match); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist match")
	}

	if s.metrics != nil {
		s.metrics.ObserveMatch(result.Score, matching.HighCompatibility(result.Score))
	}
	s.logger.InfoContext(ctx, "compatibility computed",
		"user_a", userA.String(),
		"user_b", userB.String(),
		"score", result.Score,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &result, nil
}

// History lists a user's persisted matches, newest first.
func (s *Service) History(ctx context.Context, userID id.UserID, limit int) ([]*matching.Match, error) {
	matches, err := s.matches.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list matches")
	}
	return matches, nil
}
