package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trustnest/internal/platform/metrics"
	"trustnest/internal/platform/middleware"
	"trustnest/internal/verification/models"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/platform/httputil"
	"trustnest/pkg/requestcontext"
)

// Service defines the interface for self-service verification operations.
type Service interface {
	Get(ctx context.Context, userID id.UserID) (*models.Record, error)
	VerifyEmail(ctx context.Context, userID id.UserID) (*models.Record, error)
	VerifyPhone(ctx context.Context, userID id.UserID, code string) (*models.Record, error)
}

// Handler handles verification endpoints.
type Handler struct {
	logger       *slog.Logger
	verification Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new verification Handler.
func New(
	verification Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		verification: verification,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the verification routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	verificationRouter := chi.NewRouter()
	verificationRouter.Use(middleware.Recovery(h.logger))
	verificationRouter.Use(middleware.RequestID)
	verificationRouter.Use(middleware.RequestTime)
	verificationRouter.Use(middleware.Logger(h.logger))
	verificationRouter.Use(middleware.Timeout(30 * time.Second))
	verificationRouter.Use(middleware.ContentTypeJSON)
	verificationRouter.Use(middleware.LatencyMiddleware(h.metrics))
	verificationRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	verificationRouter.Get("/verification", h.handleGetVerification)
	verificationRouter.Post("/verification/email", h.handleVerifyEmail)
	verificationRouter.Post("/verification/phone", h.handleVerifyPhone)

	r.Mount("/", verificationRouter)
}

func (h *Handler) handleGetVerification(w http.ResponseWriter, r *http.Request) {
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

	record, err := h.verification.Get(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load verification record",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toRecordResponse(record))
}

func (h *Handler) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
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

	record, err := h.verification.VerifyEmail(ctx, userID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to verify email",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toRecordResponse(record))
}

func (h *Handler) handleVerifyPhone(w http.ResponseWriter, r *http.Request) {
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

	req, ok := httputil.DecodeAndPrepare[verifyPhoneRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.verification.VerifyPhone(ctx, userID, req.Code)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to verify phone",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toRecordResponse(record))
}
