package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	adminmodels "trustnest/internal/admin/models"
	adminstore "trustnest/internal/admin/store"
	"trustnest/internal/audit"
	auditstore "trustnest/internal/audit/store"
	"trustnest/internal/document/blob"
	documentmodels "trustnest/internal/document/models"
	documentstore "trustnest/internal/document/store"
	"trustnest/internal/platform/metrics"
	verificationmodels "trustnest/internal/verification/models"
	verificationstore "trustnest/internal/verification/store"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/platform/sentinel"
	"trustnest/pkg/requestcontext"
)

// Service owns every administrative transition. Each one passes through the
// authorization guard, mutates exactly one target, and appends exactly one
// audit entry before reporting success.
type Service struct {
	verifications verificationstore.Store
	documents     documentstore.Store
	blobs         blob.Store
	flags         adminstore.FlagStore
	moderation    adminstore.ModerationStore
	auditLog      auditstore.Store
	logger        *slog.Logger
	metrics       *metrics.Metrics
	guard         func(ctx context.Context) (id.UserID, error)
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

// WithGuard overrides the authorization gate. Tests use this to simulate
// privilege boundaries without a full context setup.
func WithGuard(guard func(ctx context.Context) (id.UserID, error)) Option {
	return func(s *Service) {
		s.guard = guard
	}
}

// New constructs a Service.
func New(
	verifications verificationstore.Store,
	documents documentstore.Store,
	blobs blob.Store,
	flags adminstore.FlagStore,
	moderation adminstore.ModerationStore,
	auditLog auditstore.Store,
	guard func(ctx context.Context) (id.UserID, error),
	opts ...Option,
) *Service {
	s := &Service{
		verifications: verifications,
		documents:     documents,
		blobs:         blobs,
		flags:         flags,
		moderation:    moderation,
		auditLog:      auditLog,
		guard:         guard,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApproveVerification forces a user's record to approved/verified regardless
// of sub-check completeness. The audit append joins the record mutation so
// both commit together.
func (s *Service) ApproveVerification(ctx context.Context, target id.UserID) (*verificationmodels.Record, error) {
	adminID, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.verifications.Mutate(ctx, target, func(ctx context.Context, record *verificationmodels.Record) error {
		record.AdminApprove(adminID, requestcontext.Now(ctx))
		return s.appendAudit(ctx, adminID, audit.ActionVerificationApproved, &target, "verification", target.String(), nil)
	})
	if err != nil {
		return nil, wrapMutation(err, "failed to approve verification")
	}

	s.observeAdminAction(ctx, adminID, audit.ActionVerificationApproved, target)
	if s.metrics != nil {
		s.metrics.VerificationsApproved.Inc()
	}
	return record, nil
}

// RejectVerification forces rejected/not_verified and records the reason.
func (s *Service) RejectVerification(ctx context.Context, target id.UserID, reason string) (*verificationmodels.Record, error) {
	adminID, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "rejection reason is required")
	}

	record, err := s.verifications.Mutate(ctx, target, func(ctx context.Context, record *verificationmodels.Record) error {
		record.AdminReject(adminID, reason, requestcontext.Now(ctx))
		return s.appendAudit(ctx, adminID, audit.ActionVerificationRejected, &target, "verification", target.String(),
			map[string]any{"reason": reason})
	})
	if err != nil {
		return nil, wrapMutation(err, "failed to reject verification")
	}

	s.observeAdminAction(ctx, adminID, audit.ActionVerificationRejected, target)
	if s.metrics != nil {
		s.metrics.VerificationsRejected.Inc()
	}
	return record, nil
}

// SetBadge is the explicit badge override. It bypasses derivation entirely,
// so it is audited under its own action tag.
func (s *Service) SetBadge(ctx context.Context, target id.UserID, badge verificationmodels.TrustBadge) (*verificationmodels.Record, error) {
	adminID, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}

	if badge != verificationmodels.BadgeVerified && badge != verificationmodels.BadgeNotVerified {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid trust badge value")
	}

	record, err := s.verifications.Mutate(ctx, target, func(ctx context.Context, record *verificationmodels.Record) error {
		record.TrustBadge = badge
		record.UpdatedAt = requestcontext.Now(ctx)
		return s.appendAudit(ctx, adminID, audit.ActionBadgeSet, &target, "verification", target.String(),
			map[string]any{"badge": string(badge)})
	})
	if err != nil {
		return nil, wrapMutation(err, "failed to set badge")
	}

	s.observeAdminAction(ctx, adminID, audit.ActionBadgeSet, target)
	return record, nil
}

// ApproveDocument accepts an evidence document. Approving a government ID
// completes the id sub-check on the owner's verification record.
func (s *Service) ApproveDocument(ctx context.Context, docID id.DocumentID) (*documentmodels.Document, error) {
	adminID, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := s.documents.SetReview(ctx, docID, documentmodels.ReviewApproved, adminID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to approve document")
	}

	if doc.Type == documentmodels.TypeGovernmentID {
		_, err := s.verifications.Mutate(ctx, doc.UserID, func(ctx context.Context, record *verificationmodels.Record) error {
			return record.SetSubCheck(verificationmodels.SubCheckID, true, requestcontext.Now(ctx))
		})
		if err != nil {
			return nil, wrapMutation(err, "failed to update verification record")
		}
	}

	if err := s.appendAudit(ctx, adminID, audit.ActionDocumentApproved, &doc.UserID, "document", docID.String(), nil); err != nil {
		return nil, err
	}

	s.observeAdminAction(ctx, adminID, audit.ActionDocumentApproved, doc.UserID)
	return doc, nil
}

// RejectDocument rejects an evidence document. Rejecting a government ID
// clears the id sub-check on the owner's verification record.
func (s *Service) RejectDocument(ctx context.Context, docID id.DocumentID, reason string) (*documentmodels.Document, error) {
	adminID, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "rejection reason is required")
	}

	doc, err := s.documents.SetReview(ctx, docID, documentmodels.ReviewRejected, adminID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reject document")
	}

	if doc.Type == documentmodels.TypeGovernmentID {
		_, err := s.verifications.Mutate(ctx, doc.UserID, func(ctx context.Context, record *verificationmodels.Record) error {
			return record.SetSubCheck(verificationmodels.SubCheckID, false, requestcontext.Now(ctx))
		})
		if err != nil {
			return nil, wrapMutation(err, "failed to update verification record")
		}
	}

	if err := s.appendAudit(ctx, adminID, audit.ActionDocumentRejected, &doc.UserID, "document", docID.String(),
		map[string]any{"reason": reason}); err != nil {
		return nil, err
	}

	s.observeAdminAction(ctx, adminID, audit.ActionDocumentRejected, doc.UserID)
	return doc, nil
}

// DeleteDocument removes a document and its stored content.
func (s *Service) DeleteDocument(ctx context.Context, docID id.DocumentID) error {
	adminID, err := s.guard(ctx)
	if err != nil {
		return err
	}

	doc, err := s.documents.Find(ctx, docID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}

	if err := s.blobs.Delete(ctx, doc.StorageKey); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "document storage failed")
	}
	if err := s.documents.Delete(ctx, docID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete document")
	}

	if err := s.appendAudit(ctx, adminID, audit.ActionDocumentDeleted, &doc.UserID, "document", docID.String(), nil); err != nil {
		return err
	}
	s.observeAdminAction(ctx, adminID, audit.ActionDocumentDeleted, doc.UserID)
	return nil
}

// FlagUser opens a risk flag on a user.
func (s *Service) FlagUser(ctx context.Context, target id.UserID, reason string) (*adminmodels.RiskFlag, error) {
	adminID, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "flag reason is required")
	}

	flag := &adminmodels.RiskFlag{
		ID:        id.NewFlagID(),
		UserID:    target,
		FlaggedBy: adminID,
		Reason:    reason,
		Status:    adminmodels.FlagOpen,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.flags.Create(ctx, flag); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create flag")
	}

	if err := s.appendAudit(ctx, adminID, audit.ActionUserFlagged, &target, "flag", flag.ID.String(),
		map[string]any{"reason": reason}); err != nil {
		return nil, err
	}
	s.observeAdminAction(ctx, adminID, audit.ActionUserFlagged, target)
	return flag, nil
}

// ResolveFlag closes a risk flag.
func (s *Service) ResolveFlag(ctx context.Context, flagID id.FlagID) (*adminmodels.RiskFlag, error) {
	adminID, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}

	flag, err := s.flags.Resolve(ctx, flagID, adminID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "flag not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve flag")
	}

	if err := s.appendAudit(ctx, adminID, audit.ActionFlagResolved, &flag.UserID, "flag", flagID.String(), nil); err != nil {
		return nil, err
	}
	s.observeAdminAction(ctx, adminID, audit.ActionFlagResolved, flag.UserID)
	return flag, nil
}

// ListFlags lists risk flags, optionally only open ones.
func (s *Service) ListFlags(ctx context.Context, onlyOpen bool, limit int) ([]*adminmodels.RiskFlag, error) {
	if _, err := s.guard(ctx); err != nil {
		return nil, err
	}
	flags, err := s.flags.List(ctx, onlyOpen, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list flags")
	}
	return flags, nil
}

// Suspend marks a user suspended.
func (s *Service) Suspend(ctx context.Context, target id.UserID, reason string) (*adminmodels.Moderation, error) {
	return s.setSuspended(ctx, target, true, reason)
}

// Unsuspend restores a suspended user.
func (s *Service) Unsuspend(ctx context.Context, target id.UserID) (*adminmodels.Moderation, error) {
	return s.setSuspended(ctx, target, false, "")
}

func (s *Service) setSuspended(ctx context.Context, target id.UserID, suspended bool, reason string) (*adminmodels.Moderation, error) {
	adminID, err := s.guard(ctx)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if suspended && reason == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "suspension reason is required")
	}

	now := requestcontext.Now(ctx)
	moderation := &adminmodels.Moderation{
		UserID:    target,
		Suspended: suspended,
		Reason:    reason,
		UpdatedAt: now,
	}
	action := audit.ActionUserUnsuspended
	var details map[string]any
	if suspended {
		moderation.SuspendedBy = &adminID
		moderation.SuspendedAt = &now
		action = audit.ActionUserSuspended
		details = map[string]any{"reason": reason}
	}

	if err := s.moderation.Save(ctx, moderation); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save moderation state")
	}

	if err := s.appendAudit(ctx, adminID, action, &target, "user", target.String(), details); err != nil {
		return nil, err
	}
	s.observeAdminAction(ctx, adminID, action, target)
	return moderation, nil
}

// AuditLog lists audit entries.
func (s *Service) AuditLog(ctx context.Context, filter audit.Filter) ([]*audit.Entry, error) {
	if _, err := s.guard(ctx); err != nil {
		return nil, err
	}
	entries, err := s.auditLog.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit entries")
	}
	return entries, nil
}

// Statistics summarizes platform state for the admin dashboard.
func (s *Service) Statistics(ctx context.Context) (*adminmodels.Statistics, error) {
	if _, err := s.guard(ctx); err != nil {
		return nil, err
	}

	counts, err := s.verifications.CountByStatus(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count verifications")
	}
	openFlags, err := s.flags.CountOpen(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count flags")
	}
	suspended, err := s.moderation.CountSuspended(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count suspended users")
	}

	return &adminmodels.Statistics{
		VerificationsPending:  counts[verificationmodels.StatusPending],
		VerificationsApproved: counts[verificationmodels.StatusApproved],
		VerificationsRejected: counts[verificationmodels.StatusRejected],
		OpenFlags:             openFlags,
		SuspendedUsers:        suspended,
	}, nil
}

func (s *Service) appendAudit(ctx context.Context, adminID id.UserID, action audit.Action, target *id.UserID, targetType, targetID string, details map[string]any) error {
	entry := &audit.Entry{
		ID:           id.NewAuditID(),
		AdminID:      adminID,
		Action:       action,
		TargetUserID: target,
		TargetType:   targetType,
		TargetID:     targetID,
		Details:      details,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.auditLog.Append(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append audit entry")
	}
	return nil
}

func (s *Service) observeAdminAction(ctx context.Context, adminID id.UserID, action audit.Action, target id.UserID) {
	if s.metrics != nil {
		s.metrics.IncrementAdminAction(string(action))
	}
	s.logger.InfoContext(ctx, "admin action",
		"action", string(action),
		"admin_id", adminID.String(),
		"target_user_id", target.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
}

func wrapMutation(err error, msg string) error {
	if dErrors.HasCode(err, dErrors.CodeValidation) ||
		dErrors.HasCode(err, dErrors.CodeNotFound) ||
		dErrors.HasCode(err, dErrors.CodeInternal) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
