package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"trustnest/internal/document"
	"trustnest/internal/document/blob"
	"trustnest/internal/document/models"
	documentstore "trustnest/internal/document/store"
	"trustnest/internal/platform/metrics"
	verificationmodels "trustnest/internal/verification/models"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/platform/sentinel"
	"trustnest/pkg/requestcontext"
)

// VerificationRecorder updates verification sub-checks when evidence arrives.
type VerificationRecorder interface {
	RecordSubCheck(ctx context.Context, userID id.UserID, check verificationmodels.SubCheck, value bool) (*verificationmodels.Record, error)
}

// Service owns document evidence: validation, encryption at rest, storage,
// and the verification side effects of an accepted upload.
type Service struct {
	documents documentstore.Store
	blobs     blob.Store
	cipher    *document.Cipher
	verifier  VerificationRecorder
	logger    *slog.Logger
	metrics   *metrics.Metrics
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

func WithVerificationRecorder(v VerificationRecorder) Option {
	return func(s *Service) {
		s.verifier = v
	}
}

// New constructs a Service.
func New(documents documentstore.Store, blobs blob.Store, cipher *document.Cipher, opts ...Option) *Service {
	s := &Service{
		documents: documents,
		blobs:     blobs,
		cipher:    cipher,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadResult pairs the stored document with its access URL.
type UploadResult struct {
	Document *models.Document
	URL      string
}

// Upload validates, encrypts, and stores one evidence file. Storage is
// written exactly once per accepted upload, and no sub-check changes until
// storage confirms success. A validation failure rejects the request before
// any state change.
func (s *Service) Upload(ctx context.Context, userID id.UserID, docType models.Type, mimeType string, data []byte) (*UploadResult, error) {
	if err := models.ValidateUpload(docType, mimeType, int64(len(data))); err != nil {
		return nil, err
	}

	sealed, err := s.cipher.Seal(data)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encrypt document")
	}

	key := fmt.Sprintf("documents/%s/%s", userID.String(), uuid.NewString())
	url, err := s.blobs.Put(ctx, key, sealed, "application/octet-stream")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "document storage failed")
	}

	doc := &models.Document{
		ID:         id.NewDocumentID(),
		UserID:     userID,
		Type:       docType,
		StorageKey: key,
		MimeType:   mimeType,
		Size:       int64(len(data)),
		Review:     models.ReviewPending,
		UploadedAt: requestcontext.Now(ctx),
	}
	if err := s.documents.Append(ctx, doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record document")
	}

	if err := s.applyVerificationEffect(ctx, userID, docType); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementDocumentsUploaded(string(docType))
	}
	s.logger.InfoContext(ctx, "document uploaded",
		"user_id", userID.String(),
		"document_type", string(docType),
		"size", doc.Size,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &UploadResult{Document: doc, URL: url}, nil
}

// applyVerificationEffect wires uploads into the verification state machine.
// A selfie counts as complete on upload. A government ID resets its sub-check
// to pending review; it only flips true when an admin approves the document.
func (s *Service) applyVerificationEffect(ctx context.Context, userID id.UserID, docType models.Type) error {
	if s.verifier == nil {
		return nil
	}
	switch docType {
	case models.TypeSelfie:
		_, err := s.verifier.RecordSubCheck(ctx, userID, verificationmodels.SubCheckSelfie, true)
		return err
	case models.TypeGovernmentID:
		_, err := s.verifier.RecordSubCheck(ctx, userID, verificationmodels.SubCheckID, false)
		return err
	}
	return nil
}

// List returns the user's documents, newest first.
func (s *Service) List(ctx context.Context, userID id.UserID) ([]*models.Document, error) {
	docs, err := s.documents.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return docs, nil
}

// Download returns the decrypted document content for its owner.
func (s *Service) Download(ctx context.Context, caller id.UserID, docID id.DocumentID) (*models.Document, []byte, error) {
	doc, err := s.findOwned(ctx, caller, docID)
	if err != nil {
		return nil, nil, err
	}

	sealed, err := s.blobs.Get(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "document content not found")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "document storage failed")
	}
	data, err := s.cipher.Open(sealed)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to decrypt document")
	}
	return doc, data, nil
}

// Delete removes a document and its stored content. Only the owner reaches
// this path; admin deletion goes through the admin service.
func (s *Service) Delete(ctx context.Context, caller id.UserID, docID id.DocumentID) error {
	doc, err := s.findOwned(ctx, caller, docID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, doc.StorageKey); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "document storage failed")
	}
	if err := s.documents.Delete(ctx, docID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete document")
	}
	return nil
}

func (s *Service) findOwned(ctx context.Context, caller id.UserID, docID id.DocumentID) (*models.Document, error) {
	doc, err := s.documents.Find(ctx, docID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}
	if doc.UserID != caller {
		// Existence of other users' documents is not disclosed.
		return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
	}
	return doc, nil
}
