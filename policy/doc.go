// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package policy holds the proposal visibility rule and the proposal
permission gate.

# Visibility

A proposal is visible to a citizen when it is active, not deleted, its
voting window has not closed, and its scope reaches the citizen:

	national       always
	regional       target == citizen region
	zoneOrSubcity  target == citizen zone or subcity
	woreda         target == citizen woreda

Matching is flat equality against one attribute. A citizen whose
jurisdiction is unknown sees national proposals only.

Visible evaluates the rule in memory; Filter renders the same rule as an
SQL expression for listing queries:

	where, args := policy.Filter(identity.Jurisdiction, now, 1)
	rows, err := tx.QueryContext(ctx, "SELECT ... WHERE "+where, args...)

# Permissions

	policy.CanCreateProposal(models.RoleAdmin, models.ScopeNational, []models.Scope{models.ScopeRegional}) // false
	policy.CanCreateProposal(models.RoleSuperadmin, models.ScopeWoreda, nil)                             // true
*/
package policy
