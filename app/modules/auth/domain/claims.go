package authdomain

import (
	"slices"
	"time"
)

// Claims represents the domain model for authentication claims.
type Claims struct {
	UserID    int64
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// HasAnyRole reports whether the caller holds one of roles. An empty list
// allows any authenticated caller.
func (c *Claims) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	return slices.Contains(roles, string(c.Role))
}

// CanActFor reports whether the caller may read or change data owned by
// userID. Admins and services act for everyone.
func (c *Claims) CanActFor(userID int64) bool {
	if c.Role == RoleAdmin || c.Role == RoleService {
		return true
	}
	return c.UserID == userID
}
