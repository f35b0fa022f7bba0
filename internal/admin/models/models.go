package models

import (
	"time"

	id "trustnest/pkg/domain"
)

// FlagStatus tracks the lifecycle of a risk flag.
type FlagStatus string

const (
	FlagOpen     FlagStatus = "open"
	FlagResolved FlagStatus = "resolved"
)

// RiskFlag marks a user for manual review.
type RiskFlag struct {
	ID         id.FlagID
	UserID     id.UserID
	FlaggedBy  id.UserID
	Reason     string
	Status     FlagStatus
	CreatedAt  time.Time
	ResolvedBy *id.UserID
	ResolvedAt *time.Time
}

// Moderation holds a user's suspension state. Absence of a row means the
// user is in good standing.
type Moderation struct {
	UserID      id.UserID
	Suspended   bool
	Reason      string
	SuspendedBy *id.UserID
	SuspendedAt *time.Time
	UpdatedAt   time.Time
}

// Statistics is the admin dashboard summary.
type Statistics struct {
	VerificationsPending  int
	VerificationsApproved int
	VerificationsRejected int
	OpenFlags             int
	SuspendedUsers        int
}
