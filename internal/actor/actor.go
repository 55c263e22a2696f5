// Package actor carries the resolved identity of the caller. It is built once
// by the auth middleware and passed explicitly into every service call; no
// component reads identity from ambient request state.
package actor

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the closed set of authorization strategies. Anything outside the
// four known values resolves to a scope that matches nothing.
type Role string

const (
	RoleSupertenant Role = "supertenant"
	RoleSuperadmin  Role = "superadmin"
	RoleAdmin       Role = "admin"
	RoleUser        Role = "user"
)

// ParseRole normalizes a stored/claimed role. Roles are stored lower-case by
// convention but compared case-insensitively on read.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleSupertenant:
		return RoleSupertenant, true
	case RoleSuperadmin:
		return RoleSuperadmin, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	default:
		return Role(s), false
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleSupertenant, RoleSuperadmin, RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// Actor is the caller identity for one request.
type Actor struct {
	UserID       uuid.UUID
	Role         Role
	TenantID     *uuid.UUID
	EnterpriseID *uuid.UUID
}

// Is reports whether the actor holds one of the given roles.
func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
