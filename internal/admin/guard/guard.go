// Package guard is the single authorization gate for administrative
// operations. Every admin transition calls Require; the HTTP middleware
// performs the same check earlier, but services never rely on that alone.
package guard

import (
	"context"

	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
	"trustnest/pkg/requestcontext"
)

// Require returns the acting admin's ID, or a Forbidden failure when the
// caller does not hold the admin role. A Forbidden result causes no state
// change and no audit entry.
func Require(ctx context.Context) (id.UserID, error) {
	adminID := requestcontext.UserID(ctx)
	if adminID.IsNil() {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if requestcontext.Role(ctx) != id.RoleAdmin {
		return id.UserID{}, dErrors.New(dErrors.CodeForbidden, "admin access required")
	}
	return adminID, nil
}
