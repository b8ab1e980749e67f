// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Scope is the jurisdiction tier a proposal is restricted to.
type Scope string

const (
	ScopeNational      Scope = "national"
	ScopeRegional      Scope = "regional"
	ScopeZoneOrSubcity Scope = "zoneOrSubcity"
	ScopeWoreda        Scope = "woreda"
)

// Scopes lists every scope, broadest first.
var Scopes = []Scope{ScopeNational, ScopeRegional, ScopeZoneOrSubcity, ScopeWoreda}

func (s Scope) Valid() bool {
	switch s {
	case ScopeNational, ScopeRegional, ScopeZoneOrSubcity, ScopeWoreda:
		return true
	}
	return false
}

// Choice is a ballot choice on a proposal.
type Choice string

const (
	ChoiceYes     Choice = "yes"
	ChoiceNo      Choice = "no"
	ChoiceAbstain Choice = "abstain"
)

func (c Choice) Valid() bool {
	switch c {
	case ChoiceYes, ChoiceNo, ChoiceAbstain:
		return true
	}
	return false
}

// Role is the closed set of identity roles.
type Role int

const (
	RoleInvalid Role = iota
	RoleCitizen
	RoleAdmin
	RoleSuperadmin
)

// ParseRole maps an identity-provider role string onto a Role.
// "user" is the provider's name for a citizen. Anything unknown is
// RoleInvalid, which holds no privileges.
func ParseRole(s string) Role {
	switch s {
	case "citizen", "user":
		return RoleCitizen
	case "admin":
		return RoleAdmin
	case "superadmin":
		return RoleSuperadmin
	default:
		return RoleInvalid
	}
}

func (r Role) String() string {
	switch r {
	case RoleCitizen:
		return "citizen"
	case RoleAdmin:
		return "admin"
	case RoleSuperadmin:
		return "superadmin"
	default:
		return "invalid"
	}
}

// HasAdminPrivilege reports whether the role may use admin endpoints.
func (r Role) HasAdminPrivilege() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

type Category string

const (
	CategoryInfrastructure Category = "infrastructure"
	CategoryBudget         Category = "budget"
	CategoryPolicy         Category = "policy"
	CategoryDevelopment    Category = "development"
	CategoryOther          Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryInfrastructure, CategoryBudget, CategoryPolicy, CategoryDevelopment, CategoryOther:
		return true
	}
	return false
}

type FeedbackCategory string

const (
	FeedbackComplaint  FeedbackCategory = "complaint"
	FeedbackSuggestion FeedbackCategory = "suggestion"
	FeedbackReport     FeedbackCategory = "report"
	FeedbackInquiry    FeedbackCategory = "inquiry"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type FeedbackStatus string

const (
	FeedbackPending FeedbackStatus = "pending"
	FeedbackSeen    FeedbackStatus = "seen"
)

func (s FeedbackStatus) Valid() bool {
	return s == FeedbackPending || s == FeedbackSeen
}

type ImplementationStatus string

const (
	ImplementationNotStarted ImplementationStatus = "not_started"
	ImplementationInProgress ImplementationStatus = "in_progress"
	ImplementationCompleted  ImplementationStatus = "completed"
	ImplementationCancelled  ImplementationStatus = "cancelled"
)

// EffectiveStatus derives the stored status from the requested one and the
// reported progress. Cancelled is never overridden.
func EffectiveStatus(requested ImplementationStatus, progress int) ImplementationStatus {
	if requested == ImplementationCancelled {
		return requested
	}
	switch {
	case progress >= 100:
		return ImplementationCompleted
	case progress > 0:
		return ImplementationInProgress
	}
	return requested
}
