// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package policy

import (
	"slices"

	"github.com/danielhkuo/civicvote/models"
)

// CanCreateProposal gates creating a proposal, or changing its scope.
// Superadmins may use any scope, admins only the scopes on their record,
// everyone else none.
func CanCreateProposal(role models.Role, requested models.Scope, allowed []models.Scope) bool {
	switch role {
	case models.RoleSuperadmin:
		return true
	case models.RoleAdmin:
		return slices.Contains(allowed, requested)
	default:
		return false
	}
}

// CanManageProposal reports whether id may edit, toggle or delete p.
func CanManageProposal(id models.Identity, p models.Proposal) bool {
	if id.Role == models.RoleSuperadmin {
		return true
	}
	return id.Role == models.RoleAdmin && p.CreatedBy == id.UserID
}
