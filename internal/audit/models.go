// Package audit records administrative actions. Entries are append-only and
// never mutated or deleted by normal operation.
package audit

import (
	"time"

	id "trustnest/pkg/domain"
)

// Action tags what an admin did.
type Action string

const (
	ActionVerificationApproved Action = "verification_approved"
	ActionVerificationRejected Action = "verification_rejected"
	ActionDocumentApproved     Action = "document_approved"
	ActionDocumentRejected     Action = "document_rejected"
	ActionDocumentDeleted      Action = "document_deleted"
	ActionUserFlagged          Action = "user_flagged"
	ActionFlagResolved         Action = "flag_resolved"
	ActionBadgeSet             Action = "badge_set"
	ActionUserSuspended        Action = "user_suspended"
	ActionUserUnsuspended      Action = "user_unsuspended"
)

// Entry captures one administrative action. Details carries action-specific
// context such as a rejection reason.
type Entry struct {
	ID           id.AuditID
	AdminID      id.UserID
	Action       Action
	TargetUserID *id.UserID
	TargetType   string
	TargetID     string
	Details      map[string]any
	CreatedAt    time.Time
}

// Filter narrows audit listings.
type Filter struct {
	AdminID      *id.UserID
	TargetUserID *id.UserID
	Action       *Action
	Limit        int
}
