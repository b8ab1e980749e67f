// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/civicvote/models"
)

// scopeFields maps each non-national scope to the single citizen attribute
// its target is compared against. Matching is exact equality, never
// containment: a woreda proposal only reaches citizens of that woreda.
var scopeFields = []struct {
	scope models.Scope
	value func(models.Jurisdiction) string
}{
	{models.ScopeRegional, func(j models.Jurisdiction) string { return j.Region }},
	{models.ScopeZoneOrSubcity, func(j models.Jurisdiction) string { return j.ZoneOrSubcity }},
	{models.ScopeWoreda, func(j models.Jurisdiction) string { return j.Woreda }},
}

// MatchesScope reports whether a proposal's scope and target reach a
// citizen. An empty jurisdiction attribute never matches.
func MatchesScope(scope models.Scope, target string, j models.Jurisdiction) bool {
	if scope == models.ScopeNational {
		return true
	}
	for _, f := range scopeFields {
		if f.scope == scope {
			v := f.value(j)
			return v != "" && v == target
		}
	}
	return false
}

// Visible reports whether a citizen may see and vote on p at time now.
// The active flag and the voting window are independent; both must hold.
func Visible(p models.Proposal, j models.Jurisdiction, now time.Time) bool {
	if !p.IsActive || p.IsDeleted {
		return false
	}
	if p.EndsAt.Before(now) {
		return false
	}
	return MatchesScope(p.Scope, p.Target, j)
}

// Filter renders Visible as an SQL boolean expression over the proposals
// table. Placeholders are numbered from firstArg. Jurisdiction attributes
// that are empty contribute no disjunct, leaving national proposals only.
func Filter(j models.Jurisdiction, now time.Time, firstArg int) (string, []any) {
	n := firstArg
	next := func() string {
		p := fmt.Sprintf("$%d", n)
		n++
		return p
	}

	args := []any{now}
	clause := "is_active = TRUE AND is_deleted = FALSE AND ends_at >= " + next()

	scopes := []string{"scope = " + next()}
	args = append(args, string(models.ScopeNational))
	for _, f := range scopeFields {
		v := f.value(j)
		if v == "" {
			continue
		}
		scopes = append(scopes, fmt.Sprintf("(scope = %s AND target = %s)", next(), next()))
		args = append(args, string(f.scope), v)
	}

	return clause + " AND (" + strings.Join(scopes, " OR ") + ")", args
}
