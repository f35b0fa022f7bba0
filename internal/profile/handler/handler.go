package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trustnest/internal/platform/metrics"
	"trustnest/internal/platform/middleware"
	"trustnest/internal/profile/models"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/platform/httputil"
	"trustnest/pkg/requestcontext"
)

const timeFormat = time.RFC3339

// Service defines the interface for profile operations.
type Service interface {
	Get(ctx context.Context, userID id.UserID) (*models.Profile, error)
	Update(ctx context.Context, userID id.UserID, update models.Update) (*models.Profile, error)
}

// Handler handles preference profile endpoints.
type Handler struct {
	logger       *slog.Logger
	profiles     Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new profile Handler.
func New(
	profiles Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		profiles:     profiles,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the profile routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	profileRouter := chi.NewRouter()
	profileRouter.Use(middleware.Recovery(h.logger))
	profileRouter.Use(middleware.RequestID)
	profileRouter.Use(middleware.RequestTime)
	profileRouter.Use(middleware.Logger(h.logger))
	profileRouter.Use(middleware.Timeout(30 * time.Second))
	profileRouter.Use(middleware.ContentTypeJSON)
	profileRouter.Use(middleware.LatencyMiddleware(h.metrics))
	profileRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	profileRouter.Get("/profile", h.handleGetProfile)
	profileRouter.Put("/profile", h.handleUpdateProfile)

	r.Mount("/", profileRouter)
}

// handleGetProfile returns the authenticated user's profile, creating an
// empty one on first access.
func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
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

	profile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load profile",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}

// handleUpdateProfile applies a partial update to the authenticated user's
// profile.
func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
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

	req, ok := httputil.DecodeAndPrepare[updateProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.profiles.Update(ctx, userID, req.toUpdate())
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "failed to update profile",
				"error", err,
				"request_id", requestID,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(profile))
}
