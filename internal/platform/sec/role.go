// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to a back-office account.
type UserRole string

const (
	// Full control including user administration
	RoleSuperAdmin UserRole = "super_admin"

	// Product management only
	RoleAdmin UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// Label is the role as shown to people, e.g. "Super admin".
func (r UserRole) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super admin"
	case RoleAdmin:
		return "Admin"
	default:
		return string(r)
	}
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level() && r.level() > 0
}

func (r UserRole) level() int {
	switch r {
	case RoleSuperAdmin:
		return 20
	case RoleAdmin:
		return 10
	default:
		return 0
	}
}
