// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the civicvote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, auth.NewVerifier(secret, issuer), m)

Every route is wrapped with request logging and latency metrics. Routes are
grouped by the identity they need:

	citizen     any valid identity token
	admin       role admin or superadmin
	superadmin  role superadmin

# Endpoints

Operational (no identity):

	GET /health  - 200 "OK" when the database answers, else 503
	GET /metrics - Prometheus exposition (when metrics are enabled)
	GET /        - banner

Citizen:

	GET  /proposals                      - Eligible proposals, newest first
	GET  /proposals/{id}                 - One visible proposal
	GET  /proposals/{id}/tally           - Vote counters
	GET  /proposals/{id}/implementations - Progress records
	POST /votes                          - Cast a vote
	PUT  /votes/{id}                     - Change own vote
	GET  /votes/mine                     - Own votes
	POST /feedback                       - Submit feedback
	GET  /feedback                       - Own feedback
	POST /complaints                     - Complain to an admin

Admin:

	GET    /admin/proposals              - Managed proposals
	POST   /admin/proposals              - Create (scope-gated)
	PUT    /admin/proposals/{id}         - Edit
	PATCH  /admin/proposals/{id}/active  - Toggle active
	DELETE /admin/proposals/{id}         - Soft delete
	POST   /admin/implementations        - Record progress
	PUT    /admin/implementations/{id}   - Update progress
	GET    /admin/feedback               - All feedback
	PATCH  /admin/feedback/{id}/status   - Mark pending/seen
	GET    /admin/complaints             - Complaints addressed to the caller
	GET    /admin/admins                 - Admin records

Superadmin:

	POST /admin/proposals/{id}/recount - Recompute counters from votes
	POST /admin/admins                 - Create or replace an admin record

CORS and rate limiting wrap the whole mux in main.
*/
package router
