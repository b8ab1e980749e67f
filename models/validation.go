// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func checkLen(is *issues, field, value string, min, max int) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	switch {
	case n == 0 && min > 0:
		is.add(field + " is required")
	case n < min:
		is.add(fmt.Sprintf("%s must be at least %d characters", field, min))
	case n > max:
		is.add(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
}

// Validate checks a proposal draft. National proposals have their target
// cleared since it is ignored.
func (d *ProposalDraft) Validate() error {
	var is issues
	checkLen(&is, "title", d.Title, 10, 255)
	checkLen(&is, "description", d.Description, 50, 2000)
	if !d.Category.Valid() {
		is.add("category is invalid")
	}
	if !d.Scope.Valid() {
		is.add("scope is invalid")
	}
	if d.Scope == ScopeNational {
		d.Target = ""
	} else {
		checkLen(&is, "target", d.Target, 2, 100)
	}
	if d.StartsAt.IsZero() {
		is.add("starts_at is required")
	}
	if d.EndsAt.IsZero() {
		is.add("ends_at is required")
	}
	if !d.StartsAt.IsZero() && !d.EndsAt.IsZero() && !d.EndsAt.After(d.StartsAt) {
		is.add("ends_at must be after starts_at")
	}
	return is.err()
}

func (r CastVoteRequest) Validate() error {
	var is issues
	if r.ProposalID == "" {
		is.add("proposal_id is required")
	}
	if !r.Choice.Valid() {
		is.add("choice must be one of yes, no, abstain")
	}
	return is.err()
}

func (r UpdateVoteRequest) Validate() error {
	if !r.Choice.Valid() {
		return &ValidationError{Issues: []string{"choice must be one of yes, no, abstain"}}
	}
	return nil
}

func validPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Validate checks a feedback submission. An empty priority becomes medium.
func (r *FeedbackRequest) Validate() error {
	var is issues
	checkLen(&is, "title", r.Title, 5, 255)
	checkLen(&is, "message", r.Message, 10, 2000)
	switch r.Category {
	case FeedbackComplaint, FeedbackSuggestion, FeedbackReport, FeedbackInquiry:
	default:
		is.add("category is invalid")
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !validPriority(r.Priority) {
		is.add("priority is invalid")
	}
	return is.err()
}

func (r *ComplaintRequest) Validate() error {
	var is issues
	checkLen(&is, "title", r.Title, 5, 255)
	checkLen(&is, "message", r.Message, 10, 2000)
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !validPriority(r.Priority) {
		is.add("priority is invalid")
	}
	if r.ToAdmin == "" {
		is.add("to_admin is required")
	}
	if r.Region == "" && r.ZoneOrSubcity == "" && r.Woreda == "" {
		is.add("one of region, zone_or_subcity or woreda is required")
	}
	for field, v := range map[string]string{"region": r.Region, "zone_or_subcity": r.ZoneOrSubcity, "woreda": r.Woreda} {
		if utf8.RuneCountInString(v) > 100 {
			is.add(field + " must be at most 100 characters")
		}
	}
	return is.err()
}

func (r ImplementationRequest) Validate() error {
	var is issues
	if r.ProposalID == "" {
		is.add("proposal_id is required")
	}
	switch r.Status {
	case ImplementationNotStarted, ImplementationInProgress, ImplementationCompleted, ImplementationCancelled:
	default:
		is.add("status is invalid")
	}
	if r.ProgressPercentage < 0 || r.ProgressPercentage > 100 {
		is.add("progress_percentage must be between 0 and 100")
	}
	if r.BudgetAllocated.IsNegative() || r.BudgetSpent.IsNegative() {
		is.add("budgets must not be negative")
	}
	if r.StartDate.IsZero() || r.ExpectedCompletion.IsZero() {
		is.add("start_date and expected_completion are required")
	} else if r.ExpectedCompletion.Before(r.StartDate) {
		is.add("expected_completion must not be before start_date")
	}
	return is.err()
}

func (r AdminRequest) Validate() error {
	var is issues
	if r.UserID == "" {
		is.add("user_id is required")
	}
	checkLen(&is, "assigned_region", r.AssignedRegion, 1, 100)
	checkLen(&is, "assigned_zone_or_subcity", r.AssignedZoneOrSubcity, 1, 100)
	checkLen(&is, "assigned_woreda", r.AssignedWoreda, 1, 100)
	seen := make(map[Scope]bool, len(r.Permissions))
	for _, s := range r.Permissions {
		if !s.Valid() {
			is.add(fmt.Sprintf("permission %q is not a scope", s))
		}
		if seen[s] {
			is.add(fmt.Sprintf("permission %q is listed twice", s))
		}
		seen[s] = true
	}
	return is.err()
}
