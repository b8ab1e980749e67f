// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielhkuo/civicvote/middleware"
	"github.com/danielhkuo/civicvote/models"
	"github.com/danielhkuo/civicvote/policy"
	"github.com/danielhkuo/civicvote/store"
)

type ProposalHandler struct {
	store *store.Store
	now   func() time.Time
}

func NewProposalHandler(st *store.Store) *ProposalHandler {
	return &ProposalHandler{store: st, now: time.Now}
}

// ListProposals handles GET /proposals
func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	proposals, err := h.store.ListEligibleProposals(r.Context(), id.Jurisdiction, h.now())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProposalListResponse{Proposals: proposals})
}

// GetProposal handles GET /proposals/{id}
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	p, err := h.visible(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProposalResponse{Proposal: p})
}

// GetTally handles GET /proposals/{id}/tally
func (h *ProposalHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	p, err := h.visible(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		ProposalID: p.ID,
		Tally:      p.Tally(),
	})
}

// visible loads the proposal named in the path if the caller may see it.
// Citizens only see proposals their jurisdiction matches; anything else is
// reported as not found. Admins see every proposal that is not deleted.
func (h *ProposalHandler) visible(r *http.Request) (models.Proposal, error) {
	id, err := caller(r)
	if err != nil {
		return models.Proposal{}, err
	}
	return visibleProposal(r.Context(), h.store, id, r.PathValue("id"), h.now())
}

func visibleProposal(ctx context.Context, st *store.Store, id models.Identity, proposalID string, now time.Time) (models.Proposal, error) {
	p, err := st.GetProposal(ctx, proposalID)
	if err != nil {
		return models.Proposal{}, err
	}
	if !id.Role.HasAdminPrivilege() && !policy.Visible(p, id.Jurisdiction, now) {
		return models.Proposal{}, fmt.Errorf("proposal %s: %w", proposalID, models.ErrNotFound)
	}
	return p, nil
}
