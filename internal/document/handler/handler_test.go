package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"trustnest/internal/document"
	"trustnest/internal/document/blob"
	documentservice "trustnest/internal/document/service"
	documentstore "trustnest/internal/document/store"
	"trustnest/internal/jwttoken"
	"trustnest/internal/platform/logger"
	"trustnest/internal/platform/metrics"
	id "trustnest/pkg/domain"
	"trustnest/pkg/testutil"
)

const testKeyHex = "0000000000000000000000000000000000000000000000000000000000000000"

type DocumentHandlerSuite struct {
	suite.Suite
	jwt     *jwttoken.JWTService
	metrics *metrics.Metrics
	userID  id.UserID
}

func (s *DocumentHandlerSuite) SetupSuite() {
	s.jwt = jwttoken.NewJWTService("test-signing-key", "trustnest", "trustnest")
	s.metrics = metrics.New()
	s.userID = id.NewUserID()
}

func TestDocumentHandlerSuite(t *testing.T) {
	suite.Run(t, new(DocumentHandlerSuite))
}

// newRouter wires the handler over the real service with in-memory stores so
// upload requests run the full pipeline: multipart parse, validation,
// encryption, blob put, record insert.
func (s *DocumentHandlerSuite) newRouter(t *testing.T) *chi.Mux {
	t.Helper()

	cipher, err := document.NewCipher(testKeyHex)
	require.NoError(t, err)

	svc := documentservice.New(documentstore.NewInMemoryStore(), blob.NewInMemoryStore(), cipher)
	handler := New(svc, logger.New(), s.metrics, jwttoken.NewMiddlewareAdapter(s.jwt))
	r := chi.NewRouter()
	handler.Register(r)
	return r
}

func (s *DocumentHandlerSuite) authorize(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	token, err := s.jwt.GenerateAccessToken(s.userID, id.RoleUser, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (s *DocumentHandlerSuite) TestHandler_Upload() {
	s.T().Run("selfie upload - 201", func(t *testing.T) {
		router := s.newRouter(t)

		req := testutil.NewMultipartRequest(t, "/documents", "file", "selfie.jpg", "image/jpeg",
			[]byte("fake jpeg bytes"), map[string]string{"document_type": "selfie"})
		rr := testutil.DoRequest(router, s.authorize(t, req))

		testutil.AssertStatus(t, rr, http.StatusCreated)
		body := testutil.UnmarshalResponse[map[string]json.RawMessage](t, rr)
		require.Contains(t, *body, "document")
		require.Contains(t, *body, "url")
	})

	s.T().Run("unsupported mime type - 400", func(t *testing.T) {
		router := s.newRouter(t)

		req := testutil.NewMultipartRequest(t, "/documents", "file", "evil.exe", "application/x-msdownload",
			[]byte("MZ"), map[string]string{"document_type": "selfie"})
		rr := testutil.DoRequest(router, s.authorize(t, req))

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	s.T().Run("missing file field - 400", func(t *testing.T) {
		router := s.newRouter(t)

		req := testutil.NewMultipartRequest(t, "/documents", "attachment", "selfie.jpg", "image/jpeg",
			[]byte("fake jpeg bytes"), map[string]string{"document_type": "selfie"})
		rr := testutil.DoRequest(router, s.authorize(t, req))

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	s.T().Run("unauthenticated - 401", func(t *testing.T) {
		router := s.newRouter(t)

		req := testutil.NewMultipartRequest(t, "/documents", "file", "selfie.jpg", "image/jpeg",
			[]byte("fake jpeg bytes"), map[string]string{"document_type": "selfie"})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func (s *DocumentHandlerSuite) TestHandler_UploadThenDownload() {
	t := s.T()
	router := s.newRouter(t)

	content := []byte("government id scan")
	req := testutil.NewMultipartRequest(t, "/documents", "file", "id.png", "image/png",
		content, map[string]string{"document_type": "government_id"})
	rr := testutil.DoRequest(router, s.authorize(t, req))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	body := testutil.UnmarshalResponse[uploadResponse](t, rr)

	getReq := testutil.NewRequest(t, http.MethodGet, "/documents/"+body.Document.ID+"/content")
	getRR := testutil.DoRequest(router, s.authorize(t, getReq))

	testutil.AssertStatusOK(t, getRR)
	s.Equal("image/png", getRR.Header().Get("Content-Type"))
	s.Equal(content, testutil.ReadBody(t, getRR))
}

func (s *DocumentHandlerSuite) TestHandler_List() {
	t := s.T()
	router := s.newRouter(t)

	req := testutil.NewMultipartRequest(t, "/documents", "file", "room.jpg", "image/jpeg",
		[]byte("room photo"), map[string]string{"document_type": "property_photo"})
	rr := testutil.DoRequest(router, s.authorize(t, req))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	listReq := testutil.NewRequest(t, http.MethodGet, "/documents")
	listRR := testutil.DoRequest(router, s.authorize(t, listReq))

	testutil.AssertStatusOK(t, listRR)
	body := testutil.UnmarshalResponse[listResponse](t, listRR)
	s.Len(body.Documents, 1)
	s.Equal("property_photo", body.Documents[0].Type)
}
