// Package domainerrors defines the error taxonomy used throughout the
// service. Services attach a Code to every error they return so the HTTP
// layer can map it to a status without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and caller recovery.
type Code string

const (
	// CodeValidation marks user-correctable input problems (bad MIME type,
	// oversize file, malformed preference values). Rejected before any
	// state change.
	CodeValidation Code = "validation_error"

	// CodeInvalidInput marks malformed identifiers or request fields caught
	// at trust boundaries.
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks structurally broken requests (unparseable body).
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks a missing entity. Never silently defaulted: a
	// compatibility computation against an absent profile fails with this
	// code rather than substituting a blank profile.
	CodeNotFound Code = "not_found"

	// CodeForbidden marks a caller lacking the capability for an operation
	// (non-admin invoking an admin transition). No state change occurs.
	CodeForbidden Code = "forbidden"

	// CodeUnauthorized marks missing or invalid authentication.
	CodeUnauthorized Code = "unauthorized"

	// CodeConflict marks a state conflict with an existing entity.
	CodeConflict Code = "conflict"

	// CodeUnavailable marks a dependency failure (storage, broker). The
	// whole operation is retryable; no partial state was committed.
	CodeUnavailable Code = "unavailable"

	// CodeInternal marks unexpected failures. Details are logged, never
	// surfaced to clients.
	CodeInternal Code = "internal_error"
)

// Error carries a classification code alongside the message and an optional
// wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is / errors.As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal
// for errors that never passed through this package.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}
