package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims issued to dashboard users.
type Claims struct {
	jwt.RegisteredClaims
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the claims include at least one of roles.
func (c Claims) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// Role constants
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

// KnownRoles lists every role the platform understands.
var KnownRoles = []string{RoleAdmin, RoleAnalyst, RoleManager, RoleViewer}

// IsKnownRole reports whether role is one of KnownRoles.
func IsKnownRole(role string) bool {
	return slices.Contains(KnownRoles, role)
}
