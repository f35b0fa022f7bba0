package service

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"trustnest/internal/platform/metrics"
	"trustnest/internal/verification/models"
	"trustnest/internal/verification/otplimit"
	verificationstore "trustnest/internal/verification/store"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/requestcontext"
)

// Service owns the self-service side of the verification lifecycle: the user
// completing sub-checks. Admin transitions live in the admin service, which
// shares the same store so both go through the same serialized mutation
// path.
type Service struct {
	store      verificationstore.Store
	otpLimiter otplimit.Limiter
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
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

func WithOTPLimiter(l otplimit.Limiter) Option {
	return func(s *Service) {
		s.otpLimiter = l
	}
}

// New constructs a Service.
func New(store verificationstore.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("trustnest/verification"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the user's verification record, creating the initial pending
// state on first touch.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.Record, error) {
	record, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification record")
	}
	return record, nil
}

// VerifyEmail marks the email sub-check complete. Real mailbox confirmation
// is an external concern; the caller reaches this endpoint from the emailed
// link.
func (s *Service) VerifyEmail(ctx context.Context, userID id.UserID) (*models.Record, error) {
	return s.RecordSubCheck(ctx, userID, models.SubCheckEmail, true)
}

// VerifyPhone marks the phone sub-check complete after counting the attempt
// against the per-user budget. OTP codes are not cryptographically checked
// here; the limiter is the abuse control.
func (s *Service) VerifyPhone(ctx context.Context, userID id.UserID, code string) (*models.Record, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "verification code is required")
	}

	var attempts int
	if s.otpLimiter != nil {
		var err error
		attempts, err = s.otpLimiter.Allow(ctx, userID)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeValidation) {
				return nil, err
			}
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "attempt limiter unavailable")
		}
	}

	record, err := s.mutate(ctx, userID, func(ctx context.Context, record *models.Record) error {
		record.PhoneOTPAttempts = attempts
		return record.SetSubCheck(models.SubCheckPhone, true, requestcontext.Now(ctx))
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// RecordSubCheck sets one sub-check and re-derives the badge under the
// store's per-user serialization. Setting an already-true check is a no-op
// apart from the refreshed timestamp.
func (s *Service) RecordSubCheck(ctx context.Context, userID id.UserID, check models.SubCheck, value bool) (*models.Record, error) {
	if !check.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown verification check")
	}
	return s.mutate(ctx, userID, func(ctx context.Context, record *models.Record) error {
		return record.SetSubCheck(check, value, requestcontext.Now(ctx))
	})
}

func (s *Service) mutate(ctx context.Context, userID id.UserID, fn func(ctx context.Context, record *models.Record) error) (*models.Record, error) {
	ctx, span := s.tracer.Start(ctx, "verification.mutate")
	defer span.End()

	var wasApproved bool
	record, err := s.store.Mutate(ctx, userID, func(ctx context.Context, record *models.Record) error {
		wasApproved = record.Status == models.StatusApproved
		return fn(ctx, record)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update verification record")
	}

	if !wasApproved && record.Status == models.StatusApproved {
		if s.metrics != nil {
			s.metrics.VerificationsApproved.Inc()
		}
		s.logger.InfoContext(ctx, "verification auto-approved",
			"user_id", userID.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return record, nil
}
