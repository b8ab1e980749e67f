// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the civicvote API.

# Handler Types

Each handler is a struct over the store and, where it reads a body, the
request validator:

  - ProposalHandler: citizen proposal listing, detail and tally
  - VotingHandler: casting, changing and listing votes
  - AdminHandler: proposal management, recounts and admin records
  - FeedbackHandler: feedback and complaints
  - ImplementationHandler: implementation progress tracking

Handlers expect the caller's identity on the request context and are mounted
behind middleware.RequireIdentity (or the admin variants) by the router.

# Proposals

	GET /proposals                    → ListProposals (eligible for the caller)
	GET /proposals/{id}               → GetProposal
	GET /proposals/{id}/tally         → GetTally
	GET /proposals/{id}/implementations → ListImplementations

A proposal outside a citizen's jurisdiction is reported as not found.

# Voting

	POST /votes      → CastVote (201, returns the refreshed tally)
	PUT /votes/{id}  → UpdateVote
	GET /votes/mine  → ListMyVotes

A second vote on the same proposal is 409; a proposal the caller may not vote
on is 422.

# Administration

	GET /admin/proposals                  → ListProposals
	POST /admin/proposals                 → CreateProposal
	PUT /admin/proposals/{id}             → UpdateProposal
	PATCH /admin/proposals/{id}/active    → SetActive
	DELETE /admin/proposals/{id}          → DeleteProposal (soft)
	POST /admin/proposals/{id}/recount    → Recount (superadmin)
	POST /admin/admins                    → UpsertAdmin (superadmin)
	GET /admin/admins                     → ListAdmins

# Feedback

	POST /feedback                        → SubmitFeedback
	GET /feedback                         → ListMyFeedback
	GET /admin/feedback                   → ListAllFeedback
	PATCH /admin/feedback/{id}/status     → SetFeedbackStatus
	POST /complaints                      → SubmitComplaint
	GET /admin/complaints                 → ListComplaints

Listings accept ?page= and ?limit= (1..100, default 10).
*/
package handlers
