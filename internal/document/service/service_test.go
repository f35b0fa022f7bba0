package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"trustnest/internal/document"
	"trustnest/internal/document/blob"
	"trustnest/internal/document/models"
	documentstore "trustnest/internal/document/store"
	verificationmodels "trustnest/internal/verification/models"
	verificationservice "trustnest/internal/verification/service"
	verificationstore "trustnest/internal/verification/store"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
)

const testKeyHex = "0000000000000000000000000000000000000000000000000000000000000000"

type ServiceSuite struct {
	suite.Suite
	docs          *documentstore.InMemoryStore
	blobs         *blob.InMemoryStore
	verifications *verificationstore.InMemoryStore
	service       *Service
	userID        id.UserID
	ctx           context.Context
}

func (s *ServiceSuite) SetupTest() {
	cipher, err := document.NewCipher(testKeyHex)
	s.Require().NoError(err)

	s.docs = documentstore.NewInMemoryStore()
	s.blobs = blob.NewInMemoryStore()
	s.verifications = verificationstore.NewInMemoryStore()
	s.service = New(s.docs, s.blobs, cipher,
		WithVerificationRecorder(verificationservice.New(s.verifications)),
	)
	s.userID = id.NewUserID()
	s.ctx = context.Background()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// TestUploadRoundTrip verifies content is stored encrypted and comes back
// byte-identical on download.
func (s *ServiceSuite) TestUploadRoundTrip() {
	data := []byte("fake jpeg content")

	result, err := s.service.Upload(s.ctx, s.userID, models.TypeSelfie, "image/jpeg", data)
	s.Require().NoError(err)
	s.Equal(models.ReviewPending, result.Document.Review)
	s.NotEmpty(result.URL)

	doc, got, err := s.service.Download(s.ctx, s.userID, result.Document.ID)
	s.Require().NoError(err)
	s.Equal("image/jpeg", doc.MimeType)
	s.True(bytes.Equal(data, got))
}

// TestUploadRejectsOversize verifies the per-type size limit: a selfie over
// 5MB never reaches storage.
func (s *ServiceSuite) TestUploadRejectsOversize() {
	data := make([]byte, 12<<20)

	_, err := s.service.Upload(s.ctx, s.userID, models.TypeSelfie, "image/jpeg", data)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	docs, err := s.service.List(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Empty(docs)
}

// TestUploadRejectsMimeType verifies the per-type MIME allow-list.
func (s *ServiceSuite) TestUploadRejectsMimeType() {
	cases := []struct {
		docType  models.Type
		mimeType string
	}{
		{models.TypeGovernmentID, "application/x-msdownload"},
		{models.TypeSelfie, "application/pdf"},
		{models.TypePropertyPhoto, "application/pdf"},
	}

	for _, tc := range cases {
		s.Run(string(tc.docType)+"_"+tc.mimeType, func() {
			_, err := s.service.Upload(s.ctx, s.userID, tc.docType, tc.mimeType, []byte("data"))
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

// TestUploadStorageFailureLeavesNoRecord verifies that a storage failure
// surfaces as unavailable and records nothing.
func (s *ServiceSuite) TestUploadStorageFailureLeavesNoRecord() {
	cipher, err := document.NewCipher(testKeyHex)
	s.Require().NoError(err)
	svc := New(s.docs, failingBlobStore{}, cipher)

	_, err = svc.Upload(s.ctx, s.userID, models.TypeSelfie, "image/jpeg", []byte("data"))

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))

	docs, err := svc.List(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Empty(docs)
}

// TestSelfieUploadCompletesSubCheck verifies the selfie side effect on the
// verification record.
func (s *ServiceSuite) TestSelfieUploadCompletesSubCheck() {
	_, err := s.service.Upload(s.ctx, s.userID, models.TypeSelfie, "image/png", []byte("selfie"))
	s.Require().NoError(err)

	record, err := s.verifications.GetOrCreate(s.ctx, s.userID)
	s.Require().NoError(err)
	s.True(record.SelfieVerified)
}

// TestGovernmentIDUploadPendsSubCheck verifies a government ID upload parks
// the id sub-check until an admin reviews the document.
func (s *ServiceSuite) TestGovernmentIDUploadPendsSubCheck() {
	record, err := s.verifications.Mutate(s.ctx, s.userID, func(ctx context.Context, record *verificationmodels.Record) error {
		return record.SetSubCheck(verificationmodels.SubCheckID, true, record.CreatedAt)
	})
	s.Require().NoError(err)
	s.Require().True(record.IDVerified)

	_, err = s.service.Upload(s.ctx, s.userID, models.TypeGovernmentID, "application/pdf", []byte("scan"))
	s.Require().NoError(err)

	record, err = s.verifications.GetOrCreate(s.ctx, s.userID)
	s.Require().NoError(err)
	s.False(record.IDVerified)
}

// TestDownloadHidesForeignDocuments verifies another user's document reads
// as not found rather than forbidden.
func (s *ServiceSuite) TestDownloadHidesForeignDocuments() {
	result, err := s.service.Upload(s.ctx, s.userID, models.TypeOther, "application/pdf", []byte("lease"))
	s.Require().NoError(err)

	_, _, err = s.service.Download(s.ctx, id.NewUserID(), result.Document.ID)

	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// TestDeleteRemovesContent verifies owner deletion removes both the record
// and the stored blob.
func (s *ServiceSuite) TestDeleteRemovesContent() {
	result, err := s.service.Upload(s.ctx, s.userID, models.TypePropertyPhoto, "image/webp", []byte("room"))
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, s.userID, result.Document.ID))

	_, _, err = s.service.Download(s.ctx, s.userID, result.Document.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// TestCipherRejectsTamperedContent verifies decryption fails closed when the
// sealed bytes are modified.
func (s *ServiceSuite) TestCipherRejectsTamperedContent() {
	cipher, err := document.NewCipher(testKeyHex)
	s.Require().NoError(err)

	sealed, err := cipher.Seal([]byte("original"))
	s.Require().NoError(err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = cipher.Open(sealed)
	s.Require().Error(err)
}

// TestCipherRejectsBadKey verifies key material validation.
func (s *ServiceSuite) TestCipherRejectsBadKey() {
	_, err := document.NewCipher("not-hex")
	s.Require().Error(err)

	_, err = document.NewCipher(strings.Repeat("00", 16))
	s.Require().Error(err)
}

type failingBlobStore struct{}

func (failingBlobStore) Put(context.Context, string, []byte, string) (string, error) {
	return "", errors.New("bucket unreachable")
}

func (failingBlobStore) URL(context.Context, string) (string, error) {
	return "", errors.New("bucket unreachable")
}

func (failingBlobStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("bucket unreachable")
}

func (failingBlobStore) Delete(context.Context, string) error {
	return errors.New("bucket unreachable")
}
