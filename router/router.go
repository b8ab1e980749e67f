// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/civicvote/handlers"
	"github.com/danielhkuo/civicvote/metrics"
	"github.com/danielhkuo/civicvote/middleware"
	"github.com/danielhkuo/civicvote/store"
	"github.com/danielhkuo/civicvote/validate"
)

// NewRouter registers every endpoint. m may be nil, in which case no
// metrics are recorded and /metrics is not served.
func NewRouter(st *store.Store, verifier middleware.Verifier, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	v := validate.MustNew()

	// Initialize handlers
	proposalHandler := handlers.NewProposalHandler(st)
	votingHandler := handlers.NewVotingHandler(st, v, m)
	adminHandler := handlers.NewAdminHandler(st, v, m)
	feedbackHandler := handlers.NewFeedbackHandler(st, v)
	implementationHandler := handlers.NewImplementationHandler(st, v)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithMetrics(m, pattern, h)))
	}
	citizen := func(h http.HandlerFunc) http.HandlerFunc { return middleware.RequireIdentity(verifier, h) }
	admin := func(h http.HandlerFunc) http.HandlerFunc { return middleware.RequireAdmin(verifier, h) }
	superadmin := func(h http.HandlerFunc) http.HandlerFunc { return middleware.RequireSuperadmin(verifier, h) }

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	// Proposals (citizens see only their jurisdiction)
	handle("GET /proposals", citizen(proposalHandler.ListProposals))
	handle("GET /proposals/{id}", citizen(proposalHandler.GetProposal))
	handle("GET /proposals/{id}/tally", citizen(proposalHandler.GetTally))
	handle("GET /proposals/{id}/implementations", citizen(implementationHandler.ListImplementations))

	// Voting
	handle("POST /votes", citizen(votingHandler.CastVote))
	handle("PUT /votes/{id}", citizen(votingHandler.UpdateVote))
	handle("GET /votes/mine", citizen(votingHandler.ListMyVotes))

	// Feedback and complaints
	handle("POST /feedback", citizen(feedbackHandler.SubmitFeedback))
	handle("GET /feedback", citizen(feedbackHandler.ListMyFeedback))
	handle("POST /complaints", citizen(feedbackHandler.SubmitComplaint))

	// Proposal management
	handle("GET /admin/proposals", admin(adminHandler.ListProposals))
	handle("POST /admin/proposals", admin(adminHandler.CreateProposal))
	handle("PUT /admin/proposals/{id}", admin(adminHandler.UpdateProposal))
	handle("PATCH /admin/proposals/{id}/active", admin(adminHandler.SetActive))
	handle("DELETE /admin/proposals/{id}", admin(adminHandler.DeleteProposal))
	handle("POST /admin/proposals/{id}/recount", superadmin(adminHandler.Recount))

	// Implementation tracking
	handle("POST /admin/implementations", admin(implementationHandler.CreateImplementation))
	handle("PUT /admin/implementations/{id}", admin(implementationHandler.UpdateImplementation))

	// Feedback review
	handle("GET /admin/feedback", admin(feedbackHandler.ListAllFeedback))
	handle("PATCH /admin/feedback/{id}/status", admin(feedbackHandler.SetFeedbackStatus))
	handle("GET /admin/complaints", admin(feedbackHandler.ListComplaints))

	// Admin records
	handle("GET /admin/admins", admin(adminHandler.ListAdmins))
	handle("POST /admin/admins", superadmin(adminHandler.UpsertAdmin))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			middleware.ErrorResponse(w, http.StatusNotFound, "no such endpoint")
			return
		}
		w.Write([]byte("civicvote API v1"))
	})

	return mux
}
