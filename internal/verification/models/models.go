package models

import (
	"time"

	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
)

// Status is the overall verification lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// TrustBadge is the user-facing binary verification flag. It is a derived
// projection of the four sub-checks plus admin override history, never an
// independent state.
type TrustBadge string

const (
	BadgeNotVerified TrustBadge = "not_verified"
	BadgeVerified    TrustBadge = "verified"
)

// SubCheck names one of the four independent verification evidence types.
type SubCheck string

const (
	SubCheckEmail  SubCheck = "email"
	SubCheckPhone  SubCheck = "phone"
	SubCheckID     SubCheck = "id"
	SubCheckSelfie SubCheck = "selfie"
)

func (c SubCheck) IsValid() bool {
	switch c {
	case SubCheckEmail, SubCheckPhone, SubCheckID, SubCheckSelfie:
		return true
	}
	return false
}

// Record tracks one user's identity verification lifecycle. One record per
// user, created lazily, never deleted.
type Record struct {
	UserID id.UserID

	Status     Status
	TrustBadge TrustBadge

	EmailVerified    bool
	EmailVerifiedAt  *time.Time
	PhoneVerified    bool
	PhoneVerifiedAt  *time.Time
	IDVerified       bool
	IDVerifiedAt     *time.Time
	SelfieVerified   bool
	SelfieVerifiedAt *time.Time

	PhoneOTPAttempts int

	ReviewedBy      *id.UserID
	ReviewedAt      *time.Time
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecord returns the initial state for a user who has never been touched
// by verification: pending, not verified, nothing checked.
func NewRecord(userID id.UserID, now time.Time) *Record {
	return &Record{
		UserID:     userID,
		Status:     StatusPending,
		TrustBadge: BadgeNotVerified,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AllChecksComplete reports whether every sub-check has been satisfied.
func (r *Record) AllChecksComplete() bool {
	return r.EmailVerified && r.PhoneVerified && r.IDVerified && r.SelfieVerified
}

// SetSubCheck sets one boolean sub-check and re-derives the badge. Setting an
// already-true check again only refreshes its timestamp.
//
// This is the single place auto-approval happens: once all four checks are
// true the record flips to approved/verified with no admin involvement. A
// sub-check write after an admin rejection can therefore re-approve the
// record; transition order decides, most recent wins.
func (r *Record) SetSubCheck(check SubCheck, value bool, now time.Time) error {
	switch check {
	case SubCheckEmail:
		r.EmailVerified = value
		r.EmailVerifiedAt = timePtrIf(value, now)
	case SubCheckPhone:
		r.PhoneVerified = value
		r.PhoneVerifiedAt = timePtrIf(value, now)
	case SubCheckID:
		r.IDVerified = value
		r.IDVerifiedAt = timePtrIf(value, now)
	case SubCheckSelfie:
		r.SelfieVerified = value
		r.SelfieVerifiedAt = timePtrIf(value, now)
	default:
		return dErrors.New(dErrors.CodeValidation, "unknown verification check")
	}
	r.UpdatedAt = now

	if r.AllChecksComplete() {
		r.Status = StatusApproved
		r.TrustBadge = BadgeVerified
	}
	return nil
}

// AdminApprove forces approved/verified regardless of sub-check completeness.
func (r *Record) AdminApprove(adminID id.UserID, now time.Time) {
	r.Status = StatusApproved
	r.TrustBadge = BadgeVerified
	r.ReviewedBy = &adminID
	r.ReviewedAt = &now
	r.RejectionReason = ""
	r.UpdatedAt = now
}

// AdminReject forces rejected/not_verified and records the reason. Sub-check
// booleans are left untouched so the user keeps completed evidence.
func (r *Record) AdminReject(adminID id.UserID, reason string, now time.Time) {
	r.Status = StatusRejected
	r.TrustBadge = BadgeNotVerified
	r.ReviewedBy = &adminID
	r.ReviewedAt = &now
	r.RejectionReason = reason
	r.UpdatedAt = now
}

func timePtrIf(set bool, now time.Time) *time.Time {
	if !set {
		return nil
	}
	t := now
	return &t
}
