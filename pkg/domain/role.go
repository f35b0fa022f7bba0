package domain

// Role is the coarse capability level carried in access tokens. Admin
// operations require RoleAdmin; everything else runs as RoleUser.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}
