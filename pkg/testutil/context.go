package testutil

import (
	"net/http"
	"time"

	id "trustnest/pkg/domain"
	"trustnest/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If the userID is not a valid UUID, it will not be added to the context.
func WithUserID(req *http.Request, userID string) *http.Request {
	if parsed, err := id.ParseUserID(userID); err == nil {
		return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
	}
	return req
}

// WithRole adds a role to the request context.
func WithRole(req *http.Request, role id.Role) *http.Request {
	return req.WithContext(requestcontext.WithRole(req.Context(), role))
}

// WithAuth adds both user ID and role to the request context.
// This is the typical state for an authenticated request.
// An invalid user ID is silently ignored.
func WithAuth(req *http.Request, userID string, role id.Role) *http.Request {
	req = WithUserID(req, userID)
	return WithRole(req, role)
}

// WithRequestTime pins the request timestamp so tests get deterministic
// created_at / updated_at values.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}
