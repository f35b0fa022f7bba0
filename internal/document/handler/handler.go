package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	documentmodels "trustnest/internal/document/models"
	documentservice "trustnest/internal/document/service"
	"trustnest/internal/platform/metrics"
	"trustnest/internal/platform/middleware"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/platform/httputil"
	"trustnest/pkg/requestcontext"
)

// maxUploadBytes caps the multipart body above the largest per-type limit so
// oversize uploads fail fast with a clean validation error instead of
// exhausting memory.
const maxUploadBytes = 16 << 20

// Service defines the interface for document operations.
type Service interface {
	Upload(ctx context.Context, userID id.UserID, docType documentmodels.Type, mimeType string, data []byte) (*documentservice.UploadResult, error)
	List(ctx context.Context, userID id.UserID) ([]*documentmodels.Document, error)
	Download(ctx context.Context, caller id.UserID, docID id.DocumentID) (*documentmodels.Document, []byte, error)
	Delete(ctx context.Context, caller id.UserID, docID id.DocumentID) error
}

// Handler handles document evidence endpoints. Uploads are multipart, so the
// JSON content-type middleware is deliberately absent from this router.
type Handler struct {
	logger       *slog.Logger
	documents    Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new document Handler.
func New(
	documents Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		documents:    documents,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the document routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	documentRouter := chi.NewRouter()
	documentRouter.Use(middleware.Recovery(h.logger))
	documentRouter.Use(middleware.RequestID)
	documentRouter.Use(middleware.RequestTime)
	documentRouter.Use(middleware.Logger(h.logger))
	documentRouter.Use(middleware.Timeout(60 * time.Second))
	documentRouter.Use(middleware.LatencyMiddleware(h.metrics))
	documentRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	documentRouter.Post("/documents", h.handleUpload)
	documentRouter.Get("/documents", h.handleList)
	documentRouter.Get("/documents/{documentID}/content", h.handleDownload)
	documentRouter.Delete("/documents/{documentID}", h.handleDelete)

	r.Mount("/", documentRouter)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid or oversize multipart body"))
		return
	}

	docType := documentmodels.Type(r.FormValue("document_type"))

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "file field is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "failed to read uploaded file"))
		return
	}

	mimeType := header.Header.Get("Content-Type")

	result, err := h.documents.Upload(ctx, userID, docType, mimeType, data)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) || dErrors.HasCode(err, dErrors.CodeUnavailable) {
			h.logger.ErrorContext(ctx, "document upload failed",
				"error", err,
				"document_type", string(docType),
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toUploadResponse(result))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	docs, err := h.documents.List(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list documents",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toListResponse(docs))
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	doc, data, err := h.documents.Download(ctx, userID, docID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", doc.MimeType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.documents.Delete(ctx, userID, docID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
