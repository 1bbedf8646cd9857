// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package sec

import "strings"

// # User Roles

// UserRole represents the authorization level granted to a session.
type UserRole string

const (
	// Operators of the site (the configured admin mailbox)
	RoleAdmin UserRole = "admin"

	// Default role for every verified account
	RoleMember UserRole = "member"
)

// RoleFor derives the role of an account from its email. Roles are not
// persisted: the single admin is whoever owns adminEmail.
func RoleFor(email, adminEmail string) UserRole {
	if adminEmail != "" && strings.EqualFold(strings.TrimSpace(adminEmail), email) {
		return RoleAdmin
	}
	return RoleMember
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleMember:
		return 10
	default:
		return 0
	}
}
