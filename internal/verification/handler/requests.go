package handler

import (
	"time"

	"trustnest/internal/verification/models"
)

type verifyPhoneRequest struct {
	Code string `json:"code"`
}

type recordResponse struct {
	UserID           string  `json:"user_id"`
	Status           string  `json:"status"`
	TrustBadge       string  `json:"trust_badge"`
	EmailVerified    bool    `json:"email_verified"`
	EmailVerifiedAt  *string `json:"email_verified_at,omitempty"`
	PhoneVerified    bool    `json:"phone_verified"`
	PhoneVerifiedAt  *string `json:"phone_verified_at,omitempty"`
	IDVerified       bool    `json:"id_verified"`
	IDVerifiedAt     *string `json:"id_verified_at,omitempty"`
	SelfieVerified   bool    `json:"selfie_verified"`
	SelfieVerifiedAt *string `json:"selfie_verified_at,omitempty"`
	RejectionReason  string  `json:"rejection_reason,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func toRecordResponse(r *models.Record) recordResponse {
	return recordResponse{
		UserID:           r.UserID.String(),
		Status:           string(r.Status),
		TrustBadge:       string(r.TrustBadge),
		EmailVerified:    r.EmailVerified,
		EmailVerifiedAt:  formatTimePtr(r.EmailVerifiedAt),
		PhoneVerified:    r.PhoneVerified,
		PhoneVerifiedAt:  formatTimePtr(r.PhoneVerifiedAt),
		IDVerified:       r.IDVerified,
		IDVerifiedAt:     formatTimePtr(r.IDVerifiedAt),
		SelfieVerified:   r.SelfieVerified,
		SelfieVerifiedAt: formatTimePtr(r.SelfieVerifiedAt),
		RejectionReason:  r.RejectionReason,
		CreatedAt:        r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
