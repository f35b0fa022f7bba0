package handler

import (
	"time"

	"trustnest/internal/admin/models"
	"trustnest/internal/audit"
	documentmodels "trustnest/internal/document/models"
	verificationmodels "trustnest/internal/verification/models"
	dErrors "trustnest/pkg/domain-errors"
)

type reasonRequest struct {
	Reason string `json:"reason"`
}

type setBadgeRequest struct {
	Badge string `json:"badge"`
}

func (r *setBadgeRequest) Validate() error {
	badge := verificationmodels.TrustBadge(r.Badge)
	if badge != verificationmodels.BadgeVerified && badge != verificationmodels.BadgeNotVerified {
		return dErrors.New(dErrors.CodeValidation, "invalid trust badge value")
	}
	return nil
}

type flagUserRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type recordResponse struct {
	UserID           string  `json:"user_id"`
	Status           string  `json:"status"`
	TrustBadge       string  `json:"trust_badge"`
	EmailVerified    bool    `json:"email_verified"`
	PhoneVerified    bool    `json:"phone_verified"`
	IDVerified       bool    `json:"id_verified"`
	SelfieVerified   bool    `json:"selfie_verified"`
	ReviewedBy       *string `json:"reviewed_by,omitempty"`
	ReviewedAt       *string `json:"reviewed_at,omitempty"`
	RejectionReason  string  `json:"rejection_reason,omitempty"`
	UpdatedAt        string  `json:"updated_at"`
}

func toRecordResponse(r *verificationmodels.Record) recordResponse {
	out := recordResponse{
		UserID:          r.UserID.String(),
		Status:          string(r.Status),
		TrustBadge:      string(r.TrustBadge),
		EmailVerified:   r.EmailVerified,
		PhoneVerified:   r.PhoneVerified,
		IDVerified:      r.IDVerified,
		SelfieVerified:  r.SelfieVerified,
		RejectionReason: r.RejectionReason,
		ReviewedAt:      formatTimePtr(r.ReviewedAt),
		UpdatedAt:       r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if r.ReviewedBy != nil {
		s := r.ReviewedBy.String()
		out.ReviewedBy = &s
	}
	return out
}

type documentResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Type       string  `json:"document_type"`
	MimeType   string  `json:"mime_type"`
	Size       int64   `json:"size"`
	Review     string  `json:"review_state"`
	ReviewedBy *string `json:"reviewed_by,omitempty"`
	ReviewedAt *string `json:"reviewed_at,omitempty"`
	UploadedAt string  `json:"uploaded_at"`
}

func toDocumentResponse(d *documentmodels.Document) documentResponse {
	out := documentResponse{
		ID:         d.ID.String(),
		UserID:     d.UserID.String(),
		Type:       string(d.Type),
		MimeType:   d.MimeType,
		Size:       d.Size,
		Review:     string(d.Review),
		ReviewedAt: formatTimePtr(d.ReviewedAt),
		UploadedAt: d.UploadedAt.UTC().Format(time.RFC3339),
	}
	if d.ReviewedBy != nil {
		s := d.ReviewedBy.String()
		out.ReviewedBy = &s
	}
	return out
}

type flagResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	FlaggedBy  string  `json:"flagged_by"`
	Reason     string  `json:"reason"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	ResolvedBy *string `json:"resolved_by,omitempty"`
	ResolvedAt *string `json:"resolved_at,omitempty"`
}

func toFlagResponse(f *models.RiskFlag) flagResponse {
	out := flagResponse{
		ID:         f.ID.String(),
		UserID:     f.UserID.String(),
		FlaggedBy:  f.FlaggedBy.String(),
		Reason:     f.Reason,
		Status:     string(f.Status),
		CreatedAt:  f.CreatedAt.UTC().Format(time.RFC3339),
		ResolvedAt: formatTimePtr(f.ResolvedAt),
	}
	if f.ResolvedBy != nil {
		s := f.ResolvedBy.String()
		out.ResolvedBy = &s
	}
	return out
}

type listFlagsResponse struct {
	Flags []flagResponse `json:"flags"`
}

type moderationResponse struct {
	UserID      string  `json:"user_id"`
	Suspended   bool    `json:"suspended"`
	Reason      string  `json:"reason,omitempty"`
	SuspendedAt *string `json:"suspended_at,omitempty"`
	UpdatedAt   string  `json:"updated_at"`
}

func toModerationResponse(m *models.Moderation) moderationResponse {
	return moderationResponse{
		UserID:      m.UserID.String(),
		Suspended:   m.Suspended,
		Reason:      m.Reason,
		SuspendedAt: formatTimePtr(m.SuspendedAt),
		UpdatedAt:   m.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type auditEntryResponse struct {
	ID           string         `json:"id"`
	AdminID      string         `json:"admin_id"`
	Action       string         `json:"action"`
	TargetUserID *string        `json:"target_user_id,omitempty"`
	TargetType   string         `json:"target_type"`
	TargetID     string         `json:"target_id"`
	Details      map[string]any `json:"details,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

func toAuditEntryResponse(e *audit.Entry) auditEntryResponse {
	out := auditEntryResponse{
		ID:         e.ID.String(),
		AdminID:    e.AdminID.String(),
		Action:     string(e.Action),
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.TargetUserID != nil {
		s := e.TargetUserID.String()
		out.TargetUserID = &s
	}
	return out
}

type auditLogResponse struct {
	Entries []auditEntryResponse `json:"entries"`
}

type statisticsResponse struct {
	VerificationsPending  int `json:"verifications_pending"`
	VerificationsApproved int `json:"verifications_approved"`
	VerificationsRejected int `json:"verifications_rejected"`
	OpenFlags             int `json:"open_flags"`
	SuspendedUsers        int `json:"suspended_users"`
}

func toStatisticsResponse(s *models.Statistics) statisticsResponse {
	return statisticsResponse{
		VerificationsPending:  s.VerificationsPending,
		VerificationsApproved: s.VerificationsApproved,
		VerificationsRejected: s.VerificationsRejected,
		OpenFlags:             s.OpenFlags,
		SuspendedUsers:        s.SuspendedUsers,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
