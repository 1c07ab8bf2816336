package authdomain

// Role represents a caller's role for authorization purposes.
type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
	// RoleService is held by internal callers such as the profile and
	// application services that report metrics.
	RoleService Role = "service"
)

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleSeeker, RoleEmployer, RoleAdmin, RoleService:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
