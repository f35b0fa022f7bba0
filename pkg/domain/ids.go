// Package domain holds shared identifier types used across the service.
//
// IDs are distinct named types over uuid.UUID so the compiler rejects
// cross-type assignment (passing a DocumentID where a UserID is expected is
// a compile error, not a runtime bug).
package domain

import (
	"github.com/google/uuid"

	dErrors "trustnest/pkg/domain-errors"
)

// UserID identifies a platform user (tenant, landlord, or admin account).
type UserID uuid.UUID

// DocumentID identifies an uploaded evidence artifact.
type DocumentID uuid.UUID

// MatchID identifies a persisted compatibility match record.
type MatchID uuid.UUID

// FlagID identifies a risk flag raised against a user.
type FlagID uuid.UUID

// AuditID identifies an audit log entry.
type AuditID uuid.UUID

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewDocumentID returns a fresh random DocumentID.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// NewMatchID returns a fresh random MatchID.
func NewMatchID() MatchID { return MatchID(uuid.New()) }

// NewFlagID returns a fresh random FlagID.
func NewFlagID() FlagID { return FlagID(uuid.New()) }

// NewAuditID returns a fresh random AuditID.
func NewAuditID() AuditID { return AuditID(uuid.New()) }

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id DocumentID) String() string { return uuid.UUID(id).String() }
func (id MatchID) String() string    { return uuid.UUID(id).String() }
func (id FlagID) String() string     { return uuid.UUID(id).String() }
func (id AuditID) String() string    { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id MatchID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id FlagID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id AuditID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// parseUUID enforces the shared parsing invariant: IDs must be valid,
// non-empty, non-nil UUIDs. All typed parsers funnel through here.
func parseUUID(raw, label string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be the nil UUID")
	}
	return parsed, nil
}

// ParseUserID parses and validates a user ID from its string form.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user_id")
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParseDocumentID parses and validates a document ID from its string form.
func ParseDocumentID(raw string) (DocumentID, error) {
	parsed, err := parseUUID(raw, "document_id")
	if err != nil {
		return DocumentID{}, err
	}
	return DocumentID(parsed), nil
}

// ParseMatchID parses and validates a match ID from its string form.
func ParseMatchID(raw string) (MatchID, error) {
	parsed, err := parseUUID(raw, "match_id")
	if err != nil {
		return MatchID{}, err
	}
	return MatchID(parsed), nil
}

// ParseFlagID parses and validates a flag ID from its string form.
func ParseFlagID(raw string) (FlagID, error) {
	parsed, err := parseUUID(raw, "flag_id")
	if err != nil {
		return FlagID{}, err
	}
	return FlagID(parsed), nil
}

// ParseAuditID parses and validates an audit entry ID from its string form.
func ParseAuditID(raw string) (AuditID, error) {
	parsed, err := parseUUID(raw, "audit_id")
	if err != nil {
		return AuditID{}, err
	}
	return AuditID(parsed), nil
}
