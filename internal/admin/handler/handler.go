package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"trustnest/internal/admin/models"
	"trustnest/internal/audit"
	documentmodels "trustnest/internal/document/models"
	"trustnest/internal/platform/metrics"
	"trustnest/internal/platform/middleware"
	verificationmodels "trustnest/internal/verification/models"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/platform/httputil"
	"trustnest/pkg/requestcontext"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service defines the interface for administrative operations.
type Service interface {
	ApproveVerification(ctx context.Context, target id.UserID) (*verificationmodels.Record, error)
	RejectVerification(ctx context.Context, target id.UserID, reason string) (*verificationmodels.Record, error)
	SetBadge(ctx context.Context, target id.UserID, badge verificationmodels.TrustBadge) (*verificationmodels.Record, error)
	ApproveDocument(ctx context.Context, docID id.DocumentID) (*documentmodels.Document, error)
	RejectDocument(ctx context.Context, docID id.DocumentID, reason string) (*documentmodels.Document, error)
	DeleteDocument(ctx context.Context, docID id.DocumentID) error
	FlagUser(ctx context.Context, target id.UserID, reason string) (*models.RiskFlag, error)
	ResolveFlag(ctx context.Context, flagID id.FlagID) (*models.RiskFlag, error)
	ListFlags(ctx context.Context, onlyOpen bool, limit int) ([]*models.RiskFlag, error)
	Suspend(ctx context.Context, target id.UserID, reason string) (*models.Moderation, error)
	Unsuspend(ctx context.Context, target id.UserID) (*models.Moderation, error)
	AuditLog(ctx context.Context, filter audit.Filter) ([]*audit.Entry, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
}

// Handler handles the admin endpoints.
type Handler struct {
	logger       *slog.Logger
	admin        Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new admin Handler.
func New(
	admin Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		admin:        admin,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the admin routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	adminRouter := chi.NewRouter()
	adminRouter.Use(middleware.Recovery(h.logger))
	adminRouter.Use(middleware.RequestID)
	adminRouter.Use(middleware.RequestTime)
	adminRouter.Use(middleware.Logger(h.logger))
	adminRouter.Use(middleware.Timeout(30 * time.Second))
	adminRouter.Use(middleware.ContentTypeJSON)
	adminRouter.Use(middleware.LatencyMiddleware(h.metrics))
	adminRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	adminRouter.Use(middleware.RequireAdmin(h.logger))

	adminRouter.Post("/admin/verifications/{userID}/approve", h.handleApproveVerification)
	adminRouter.Post("/admin/verifications/{userID}/reject", h.handleRejectVerification)
	adminRouter.Post("/admin/verifications/{userID}/badge", h.handleSetBadge)
	adminRouter.Post("/admin/documents/{documentID}/approve", h.handleApproveDocument)
	adminRouter.Post("/admin/documents/{documentID}/reject", h.handleRejectDocument)
	adminRouter.Delete("/admin/documents/{documentID}", h.handleDeleteDocument)
	adminRouter.Post("/admin/flags", h.handleFlagUser)
	adminRouter.Post("/admin/flags/{flagID}/resolve", h.handleResolveFlag)
	adminRouter.Get("/admin/flags", h.handleListFlags)
	adminRouter.Post("/admin/users/{userID}/suspend", h.handleSuspend)
	adminRouter.Post("/admin/users/{userID}/unsuspend", h.handleUnsuspend)
	adminRouter.Get("/admin/audit", h.handleAuditLog)
	adminRouter.Get("/admin/stats", h.handleStatistics)

	r.Mount("/", adminRouter)
}

func (h *Handler) targetUserID(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid user id"))
		return id.UserID{}, false
	}
	return userID, true
}

func (h *Handler) targetDocumentID(w http.ResponseWriter, r *http.Request) (id.DocumentID, bool) {
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid document id"))
		return id.DocumentID{}, false
	}
	return docID, true
}

func (h *Handler) handleApproveVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	target, ok := h.targetUserID(w, r)
	if !ok {
		return
	}

	record, err := h.admin.ApproveVerification(ctx, target)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to approve verification",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toRecordResponse(record))
}

func (h *Handler) handleRejectVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	target, ok := h.targetUserID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[reasonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.admin.RejectVerification(ctx, target, req.Reason)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to reject verification",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toRecordResponse(record))
}

func (h *Handler) handleSetBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	target, ok := h.targetUserID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[setBadgeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.admin.SetBadge(ctx, target, verificationmodels.TrustBadge(req.Badge))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to set badge",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toRecordResponse(record))
}

func (h *Handler) handleApproveDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	docID, ok := h.targetDocumentID(w, r)
	if !ok {
		return
	}

	doc, err := h.admin.ApproveDocument(ctx, docID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to approve document",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *Handler) handleRejectDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	docID, ok := h.targetDocumentID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[reasonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	doc, err := h.admin.RejectDocument(ctx, docID, req.Reason)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to reject document",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	docID, ok := h.targetDocumentID(w, r)
	if !ok {
		return
	}

	if err := h.admin.DeleteDocument(ctx, docID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to delete document",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleFlagUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[flagUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	target, err := id.ParseUserID(req.UserID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid user id"))
		return
	}

	flag, err := h.admin.FlagUser(ctx, target, req.Reason)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to flag user",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toFlagResponse(flag))
}

func (h *Handler) handleResolveFlag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	flagID, err := id.ParseFlagID(chi.URLParam(r, "flagID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid flag id"))
		return
	}

	flag, err := h.admin.ResolveFlag(ctx, flagID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to resolve flag",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toFlagResponse(flag))
}

func (h *Handler) handleListFlags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	onlyOpen := r.URL.Query().Get("open") == "true"
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	flags, err := h.admin.ListFlags(ctx, onlyOpen, limit)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to list flags",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	out := make([]flagResponse, 0, len(flags))
	for _, flag := range flags {
		out = append(out, toFlagResponse(flag))
	}
	httputil.WriteJSON(w, http.StatusOK, listFlagsResponse{Flags: out})
}

func (h *Handler) handleSuspend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	target, ok := h.targetUserID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[reasonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	moderation, err := h.admin.Suspend(ctx, target, req.Reason)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to suspend user",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toModerationResponse(moderation))
}

func (h *Handler) handleUnsuspend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	target, ok := h.targetUserID(w, r)
	if !ok {
		return
	}

	moderation, err := h.admin.Unsuspend(ctx, target)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to unsuspend user",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toModerationResponse(moderation))
}

func (h *Handler) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filter, err := parseAuditFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.admin.AuditLog(ctx, filter)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to list audit entries",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	out := make([]auditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toAuditEntryResponse(entry))
	}
	httputil.WriteJSON(w, http.StatusOK, auditLogResponse{Entries: out})
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	stats, err := h.admin.Statistics(ctx)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to load statistics",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toStatisticsResponse(stats))
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxListLimit {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "limit must be between 1 and 200")
	}
	return limit, nil
}

func parseAuditFilter(r *http.Request) (audit.Filter, error) {
	var filter audit.Filter

	q := r.URL.Query()
	if raw := q.Get("admin_id"); raw != "" {
		adminID, err := id.ParseUserID(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeInvalidInput, "invalid admin id")
		}
		filter.AdminID = &adminID
	}
	if raw := q.Get("target_user_id"); raw != "" {
		target, err := id.ParseUserID(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeInvalidInput, "invalid target user id")
		}
		filter.TargetUserID = &target
	}
	if raw := q.Get("action"); raw != "" {
		action := audit.Action(raw)
		filter.Action = &action
	}
	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		return filter, err
	}
	filter.Limit = limit
	return filter, nil
}
