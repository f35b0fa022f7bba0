package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	adminmodels "trustnest/internal/admin/models"
	adminstore "trustnest/internal/admin/store"
	"trustnest/internal/audit"
	auditstore "trustnest/internal/audit/store"
	"trustnest/internal/document/blob"
	documentmodels "trustnest/internal/document/models"
	documentstore "trustnest/internal/document/store"
	verificationmodels "trustnest/internal/verification/models"
	verificationstore "trustnest/internal/verification/store"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	verifications *verificationstore.InMemoryStore
	documents     *documentstore.InMemoryStore
	blobs         *blob.InMemoryStore
	flags         *adminstore.InMemoryFlagStore
	moderation    *adminstore.InMemoryModerationStore
	auditLog      *auditstore.InMemoryStore
	service       *Service
	adminID       id.UserID
	userID        id.UserID
	ctx           context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.verifications = verificationstore.NewInMemoryStore()
	s.documents = documentstore.NewInMemoryStore()
	s.blobs = blob.NewInMemoryStore()
	s.flags = adminstore.NewInMemoryFlagStore()
	s.moderation = adminstore.NewInMemoryModerationStore()
	s.auditLog = auditstore.NewInMemoryStore()
	s.adminID = id.NewUserID()
	s.userID = id.NewUserID()
	s.ctx = context.Background()

	s.service = New(
		s.verifications, s.documents, s.blobs, s.flags, s.moderation, s.auditLog,
		func(ctx context.Context) (id.UserID, error) { return s.adminID, nil },
	)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) denyingService() *Service {
	return New(
		s.verifications, s.documents, s.blobs, s.flags, s.moderation, s.auditLog,
		func(ctx context.Context) (id.UserID, error) {
			return id.UserID{}, dErrors.New(dErrors.CodeForbidden, "admin access required")
		},
	)
}

func (s *ServiceSuite) storedDocument(docType documentmodels.Type) *documentmodels.Document {
	doc := &documentmodels.Document{
		ID:         id.NewDocumentID(),
		UserID:     s.userID,
		Type:       docType,
		StorageKey: "documents/" + s.userID.String() + "/key",
		MimeType:   "image/jpeg",
		Size:       128,
		Review:     documentmodels.ReviewPending,
		UploadedAt: time.Now(),
	}
	s.Require().NoError(s.documents.Append(s.ctx, doc))
	_, err := s.blobs.Put(s.ctx, doc.StorageKey, []byte("sealed"), "application/octet-stream")
	s.Require().NoError(err)
	return doc
}

// TestApproveVerificationOverride verifies the admin override approves an
// incomplete record and leaves an audit entry.
func (s *ServiceSuite) TestApproveVerificationOverride() {
	record, err := s.service.ApproveVerification(s.ctx, s.userID)

	s.Require().NoError(err)
	s.Equal(verificationmodels.StatusApproved, record.Status)
	s.Equal(verificationmodels.BadgeVerified, record.TrustBadge)
	s.False(record.AllChecksComplete())

	entries := s.auditLog.All()
	s.Require().Len(entries, 1)
	s.Equal(audit.ActionVerificationApproved, entries[0].Action)
	s.Equal(s.adminID, entries[0].AdminID)
}

// TestRejectVerificationRequiresReason verifies the empty-reason validation
// and that the failed call leaves no audit entry.
func (s *ServiceSuite) TestRejectVerificationRequiresReason() {
	_, err := s.service.RejectVerification(s.ctx, s.userID, "  ")

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Empty(s.auditLog.All())
}

// TestRejectVerificationKeepsEvidence verifies rejection flips the badge
// while completed sub-checks survive.
func (s *ServiceSuite) TestRejectVerificationKeepsEvidence() {
	_, err := s.verifications.Mutate(s.ctx, s.userID, func(ctx context.Context, record *verificationmodels.Record) error {
		return record.SetSubCheck(verificationmodels.SubCheckEmail, true, time.Now())
	})
	s.Require().NoError(err)

	record, err := s.service.RejectVerification(s.ctx, s.userID, "mismatched details")

	s.Require().NoError(err)
	s.Equal(verificationmodels.StatusRejected, record.Status)
	s.Equal(verificationmodels.BadgeNotVerified, record.TrustBadge)
	s.True(record.EmailVerified)
	s.Equal("mismatched details", record.RejectionReason)

	entries := s.auditLog.All()
	s.Require().Len(entries, 1)
	s.Equal(audit.ActionVerificationRejected, entries[0].Action)
	s.Equal("mismatched details", entries[0].Details["reason"])
}

// TestForbiddenCallerChangesNothing verifies a denied caller causes no state
// change and no audit entry on any admin path.
func (s *ServiceSuite) TestForbiddenCallerChangesNothing() {
	denied := s.denyingService()

	_, err := denied.ApproveVerification(s.ctx, s.userID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = denied.FlagUser(s.ctx, s.userID, "spam")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = denied.Suspend(s.ctx, s.userID, "abuse")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	record, err := s.verifications.GetOrCreate(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(verificationmodels.StatusPending, record.Status)
	s.Empty(s.auditLog.All())

	open, err := s.flags.CountOpen(s.ctx)
	s.Require().NoError(err)
	s.Zero(open)
}

// TestApproveGovernmentIDCompletesSubCheck verifies approving a government
// ID document marks the owner's id sub-check complete.
func (s *ServiceSuite) TestApproveGovernmentIDCompletesSubCheck() {
	doc := s.storedDocument(documentmodels.TypeGovernmentID)

	approved, err := s.service.ApproveDocument(s.ctx, doc.ID)

	s.Require().NoError(err)
	s.Equal(documentmodels.ReviewApproved, approved.Review)
	s.Require().NotNil(approved.ReviewedBy)
	s.Equal(s.adminID, *approved.ReviewedBy)

	record, err := s.verifications.GetOrCreate(s.ctx, s.userID)
	s.Require().NoError(err)
	s.True(record.IDVerified)
}

// TestRejectGovernmentIDClearsSubCheck verifies rejecting a government ID
// document clears the owner's id sub-check.
func (s *ServiceSuite) TestRejectGovernmentIDClearsSubCheck() {
	doc := s.storedDocument(documentmodels.TypeGovernmentID)
	_, err := s.verifications.Mutate(s.ctx, s.userID, func(ctx context.Context, record *verificationmodels.Record) error {
		return record.SetSubCheck(verificationmodels.SubCheckID, true, time.Now())
	})
	s.Require().NoError(err)

	rejected, err := s.service.RejectDocument(s.ctx, doc.ID, "illegible scan")

	s.Require().NoError(err)
	s.Equal(documentmodels.ReviewRejected, rejected.Review)

	record, err := s.verifications.GetOrCreate(s.ctx, s.userID)
	s.Require().NoError(err)
	s.False(record.IDVerified)
}

// TestApproveSelfieLeavesVerificationAlone verifies non-ID document review
// does not touch the verification record.
func (s *ServiceSuite) TestApproveSelfieLeavesVerificationAlone() {
	doc := s.storedDocument(documentmodels.TypeSelfie)

	_, err := s.service.ApproveDocument(s.ctx, doc.ID)
	s.Require().NoError(err)

	record, err := s.verifications.GetOrCreate(s.ctx, s.userID)
	s.Require().NoError(err)
	s.False(record.IDVerified)
	s.False(record.SelfieVerified)
}

// TestDeleteDocumentRemovesBlob verifies admin deletion removes both record
// and content and is audited.
func (s *ServiceSuite) TestDeleteDocumentRemovesBlob() {
	doc := s.storedDocument(documentmodels.TypeOther)

	s.Require().NoError(s.service.DeleteDocument(s.ctx, doc.ID))

	_, err := s.documents.Find(s.ctx, doc.ID)
	s.Require().Error(err)
	_, err = s.blobs.Get(s.ctx, doc.StorageKey)
	s.Require().Error(err)

	entries := s.auditLog.All()
	s.Require().Len(entries, 1)
	s.Equal(audit.ActionDocumentDeleted, entries[0].Action)
}

// TestFlagLifecycle verifies flag creation, listing, and resolution, each
// with its audit entry.
func (s *ServiceSuite) TestFlagLifecycle() {
	flag, err := s.service.FlagUser(s.ctx, s.userID, "suspicious listings")
	s.Require().NoError(err)
	s.Equal(adminmodels.FlagOpen, flag.Status)

	open, err := s.service.ListFlags(s.ctx, true, 10)
	s.Require().NoError(err)
	s.Len(open, 1)

	resolved, err := s.service.ResolveFlag(s.ctx, flag.ID)
	s.Require().NoError(err)
	s.Equal(adminmodels.FlagResolved, resolved.Status)
	s.Require().NotNil(resolved.ResolvedBy)
	s.Equal(s.adminID, *resolved.ResolvedBy)

	open, err = s.service.ListFlags(s.ctx, true, 10)
	s.Require().NoError(err)
	s.Empty(open)

	entries := s.auditLog.All()
	s.Require().Len(entries, 2)
	s.Equal(audit.ActionUserFlagged, entries[0].Action)
	s.Equal(audit.ActionFlagResolved, entries[1].Action)
}

// TestSuspendAndUnsuspend verifies the moderation toggle and its audit
// trail.
func (s *ServiceSuite) TestSuspendAndUnsuspend() {
	_, err := s.service.Suspend(s.ctx, s.userID, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	moderation, err := s.service.Suspend(s.ctx, s.userID, "repeated abuse reports")
	s.Require().NoError(err)
	s.True(moderation.Suspended)
	s.NotNil(moderation.SuspendedAt)

	moderation, err = s.service.Unsuspend(s.ctx, s.userID)
	s.Require().NoError(err)
	s.False(moderation.Suspended)

	entries := s.auditLog.All()
	s.Require().Len(entries, 2)
	s.Equal(audit.ActionUserSuspended, entries[0].Action)
	s.Equal(audit.ActionUserUnsuspended, entries[1].Action)
}

// TestSetBadgeOverride verifies the direct badge override path.
func (s *ServiceSuite) TestSetBadgeOverride() {
	record, err := s.service.SetBadge(s.ctx, s.userID, verificationmodels.BadgeVerified)
	s.Require().NoError(err)
	s.Equal(verificationmodels.BadgeVerified, record.TrustBadge)
	s.Equal(verificationmodels.StatusPending, record.Status)

	_, err = s.service.SetBadge(s.ctx, s.userID, verificationmodels.TrustBadge("gold"))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

// TestAuditLogFilters verifies filtered reads over the audit trail.
func (s *ServiceSuite) TestAuditLogFilters() {
	_, err := s.service.ApproveVerification(s.ctx, s.userID)
	s.Require().NoError(err)
	_, err = s.service.FlagUser(s.ctx, id.NewUserID(), "other user")
	s.Require().NoError(err)

	action := audit.ActionVerificationApproved
	entries, err := s.service.AuditLog(s.ctx, audit.Filter{Action: &action})
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(s.userID, *entries[0].TargetUserID)

	entries, err = s.service.AuditLog(s.ctx, audit.Filter{TargetUserID: &s.userID})
	s.Require().NoError(err)
	s.Len(entries, 1)
}

// TestStatistics verifies the dashboard counts across stores.
func (s *ServiceSuite) TestStatistics() {
	_, err := s.service.ApproveVerification(s.ctx, s.userID)
	s.Require().NoError(err)
	rejectedUser := id.NewUserID()
	_, err = s.service.RejectVerification(s.ctx, rejectedUser, "bad documents")
	s.Require().NoError(err)
	_, err = s.verifications.GetOrCreate(s.ctx, id.NewUserID())
	s.Require().NoError(err)
	_, err = s.service.FlagUser(s.ctx, rejectedUser, "needs review")
	s.Require().NoError(err)
	_, err = s.service.Suspend(s.ctx, rejectedUser, "fraud")
	s.Require().NoError(err)

	stats, err := s.service.Statistics(s.ctx)

	s.Require().NoError(err)
	s.Equal(1, stats.VerificationsPending)
	s.Equal(1, stats.VerificationsApproved)
	s.Equal(1, stats.VerificationsRejected)
	s.Equal(1, stats.OpenFlags)
	s.Equal(1, stats.SuspendedUsers)
}
