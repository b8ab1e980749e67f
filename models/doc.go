// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Proposal: a question put to citizens of one jurisdiction, with
    denormalized vote counters
  - Vote: one citizen's choice on one proposal
  - Admin: an admin's assigned jurisdiction and permitted scopes
  - Feedback, Complaint: citizen messages
  - Implementation: progress and budget of an accepted proposal

Identity and Jurisdiction describe the authenticated caller. They come from
the identity token and are never written by the API.

# Enums

Scope, Choice, Category, Priority, FeedbackStatus and ImplementationStatus
are string enums matching their JSON values. Role is a closed integer enum;
ParseRole maps anything unknown to RoleInvalid.

# Validation

Request types carry a Validate method for length limits and cross-field
rules. Failures are returned as *ValidationError, which lists every issue
and matches ErrValidation with errors.Is.

# Errors

	ErrUnauthorized, ErrForbidden, ErrNotFound,
	ErrAlreadyVoted, ErrNotEligible, ErrValidation

# Response Types

Types for JSON responses:

  - ProposalResponse, ProposalListResponse
  - VoteResponse: vote, refreshed tally, message
  - TallyResponse
  - FeedbackListResponse, AdminListResponse: with page and limit
  - ErrorResponse: error, message, issues
*/
package models
