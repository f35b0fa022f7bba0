package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"trustnest/internal/matching"
	"trustnest/internal/platform/metrics"
	"trustnest/internal/platform/middleware"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/platform/httputil"
	"trustnest/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks

// Service defines the interface for compatibility operations.
type Service interface {
	Compute(ctx context.Context, userA, userB id.UserID) (*matching.Result, error)
	History(ctx context.Context, userID id.UserID, limit int) ([]*matching.Match, error)
}

// Handler handles compatibility endpoints.
type Handler struct {
	logger       *slog.Logger
	matches      Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new matching Handler.
func New(
	matches Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		matches:      matches,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the matching routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	matchRouter := chi.NewRouter()
	matchRouter.Use(middleware.Recovery(h.logger))
	matchRouter.Use(middleware.RequestID)
	matchRouter.Use(middleware.RequestTime)
	matchRouter.Use(middleware.Logger(h.logger))
	matchRouter.Use(middleware.Timeout(30 * time.Second))
	matchRouter.Use(middleware.ContentTypeJSON)
	matchRouter.Use(middleware.LatencyMiddleware(h.metrics))
	matchRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	matchRouter.Get("/matches/{userID}", h.handleCompute)
	matchRouter.Get("/matches", h.handleHistory)

	r.Mount("/", matchRouter)
}

// handleCompute computes compatibility between the authenticated user and
// the user named in the path.
func (h *Handler) handleCompute(w http.ResponseWriter, r *http.Request) {
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

	otherID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.matches.Compute(ctx, userID, otherID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to compute compatibility",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResultResponse(result))
}

// handleHistory returns the authenticated user's persisted matches.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
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

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be between 1 and 200"))
			return
		}
		limit = parsed
	}

	matches, err := h.matches.History(ctx, userID, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list matches",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toHistoryResponse(matches))
}
