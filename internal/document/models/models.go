package models

import (
	"time"

	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
)

// Type tags what a document is evidence of.
type Type string

const (
	TypeGovernmentID  Type = "government_id"
	TypeSelfie        Type = "selfie"
	TypePropertyPhoto Type = "property_photo"
	TypeOther         Type = "other"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeGovernmentID, TypeSelfie, TypePropertyPhoto, TypeOther:
		return true
	}
	return false
}

const mb = 1 << 20

// uploadRule is the per-type MIME allow-list and size ceiling. Validation
// runs before any byte reaches storage; a failed check is a clean rejection,
// never a partial write.
type uploadRule struct {
	mimeTypes []string
	maxSize   int64
}

var uploadRules = map[Type]uploadRule{
	TypeGovernmentID: {
		mimeTypes: []string{"image/jpeg", "image/png", "application/pdf"},
		maxSize:   10 * mb,
	},
	TypeSelfie: {
		mimeTypes: []string{"image/jpeg", "image/png"},
		maxSize:   5 * mb,
	},
	TypePropertyPhoto: {
		mimeTypes: []string{"image/jpeg", "image/png", "image/webp"},
		maxSize:   10 * mb,
	},
	TypeOther: {
		mimeTypes: []string{"application/pdf", "image/jpeg", "image/png"},
		maxSize:   15 * mb,
	},
}

// ValidateUpload checks MIME type and size against the rules for the
// document type.
func ValidateUpload(docType Type, mimeType string, size int64) error {
	if !docType.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "unknown document type")
	}
	rule := uploadRules[docType]

	allowed := false
	for _, mt := range rule.mimeTypes {
		if mt == mimeType {
			allowed = true
			break
		}
	}
	if !allowed {
		return dErrors.New(dErrors.CodeValidation, "file type not allowed for this document type")
	}
	if size <= 0 {
		return dErrors.New(dErrors.CodeValidation, "file is empty")
	}
	if size > rule.maxSize {
		return dErrors.New(dErrors.CodeValidation, "file exceeds the maximum size for this document type")
	}
	return nil
}

// ReviewState is the admin annotation on an uploaded document.
type ReviewState string

const (
	ReviewPending  ReviewState = "pending"
	ReviewApproved ReviewState = "approved"
	ReviewRejected ReviewState = "rejected"
)

// Document is an append-only evidence artifact. The stored bytes are
// encrypted at rest; StorageKey references them opaquely.
type Document struct {
	ID          id.DocumentID
	UserID      id.UserID
	Type        Type
	StorageKey  string
	MimeType    string
	Size        int64
	Review      ReviewState
	ReviewedBy  *id.UserID
	ReviewedAt  *time.Time
	UploadedAt  time.Time
}
