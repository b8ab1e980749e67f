// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists proposals, votes, feedback, complaints,
implementation records and admin records.

Every method takes the request context and returns errors from the models
error taxonomy (ErrNotFound, ErrForbidden, ErrAlreadyVoted, ErrNotEligible,
*ValidationError) or a wrapped infrastructure error.

# Voting

CastVote runs in one transaction:

 1. reject if the user already voted on the proposal
 2. reject if the proposal is not visible to the user (policy.Visible)
 3. insert the vote
 4. recount the proposal's votes by choice and overwrite its counters

The votes table has UNIQUE (user_id, proposal_id); an insert that loses a
race to a concurrent vote is reported as ErrAlreadyVoted. UpdateVote
changes a vote's choice and recounts in the same way, so the counters
always equal the grouped vote count.

# Listing

ListEligibleProposals pushes the eligibility predicate into SQL through
policy.Filter and orders by created_at DESC, id DESC.

# Tracing

Transactions and reads open OpenTelemetry spans named after the method
(for example "store.CastVote") on the global tracer provider.
*/
package store
