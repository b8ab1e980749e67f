// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/civicvote/metrics"
	"github.com/danielhkuo/civicvote/middleware"
	"github.com/danielhkuo/civicvote/models"
	"github.com/danielhkuo/civicvote/store"
	"github.com/danielhkuo/civicvote/validate"
)

type VotingHandler struct {
	store     *store.Store
	validator *validate.Validator
	metrics   *metrics.Metrics
}

func NewVotingHandler(st *store.Store, v *validate.Validator, m *metrics.Metrics) *VotingHandler {
	return &VotingHandler{store: st, validator: v, metrics: m}
}

// CastVote handles POST /votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req models.CastVoteRequest
	if err := h.validator.Decode(r, validate.CastVote, &req); err != nil {
		h.reject(w, r, err)
		return
	}

	vote, tally, err := h.store.CastVote(r.Context(), id, req.ProposalID, req.Choice)
	if err != nil {
		h.reject(w, r, err)
		return
	}

	h.metrics.VoteCast(string(vote.Choice))
	slog.Info("vote cast",
		"proposal_id", vote.ProposalID,
		"vote_id", vote.ID,
		"choice", vote.Choice,
		"total_votes", tally.Total,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		Vote:    vote,
		Tally:   tally,
		Message: "Vote cast successfully",
	})
}

// UpdateVote handles PUT /votes/{id}
func (h *VotingHandler) UpdateVote(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req models.UpdateVoteRequest
	if err := h.validator.Decode(r, validate.UpdateVote, &req); err != nil {
		h.reject(w, r, err)
		return
	}

	vote, tally, err := h.store.UpdateVote(r.Context(), id, r.PathValue("id"), req.Choice)
	if err != nil {
		h.reject(w, r, err)
		return
	}

	h.metrics.VoteUpdated(string(vote.Choice))
	slog.Info("vote updated",
		"proposal_id", vote.ProposalID,
		"vote_id", vote.ID,
		"choice", vote.Choice,
	)

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Vote:    vote,
		Tally:   tally,
		Message: "Vote updated successfully",
	})
}

// ListMyVotes handles GET /votes/mine
func (h *VotingHandler) ListMyVotes(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	votes, err := h.store.ListMyVotes(r.Context(), id.UserID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteListResponse{Votes: votes})
}

func (h *VotingHandler) reject(w http.ResponseWriter, r *http.Request, err error) {
	h.metrics.VoteRejected(rejectionReason(err))
	middleware.WriteError(w, r, err)
}
