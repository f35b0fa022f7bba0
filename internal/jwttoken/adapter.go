package jwttoken

import (
	"trustnest/internal/platform/middleware"
	id "trustnest/pkg/domain"
	dErrors "trustnest/pkg/domain-errors"
)

// MiddlewareAdapter adapts JWTService to the middleware.JWTValidator
// interface, converting the raw string claims into typed domain values.
type MiddlewareAdapter struct {
	svc *JWTService
}

func NewMiddlewareAdapter(svc *JWTService) *MiddlewareAdapter {
	return &MiddlewareAdapter{svc: svc}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.svc.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}

	role := id.Role(claims.Role)
	if !role.IsValid() {
		role = id.RoleUser
	}

	return &middleware.JWTClaims{UserID: userID, Role: role}, nil
}
