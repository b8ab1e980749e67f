// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/civicvote/metrics"
	"github.com/danielhkuo/civicvote/middleware"
	"github.com/danielhkuo/civicvote/models"
	"github.com/danielhkuo/civicvote/store"
	"github.com/danielhkuo/civicvote/validate"
)

type AdminHandler struct {
	store     *store.Store
	validator *validate.Validator
	metrics   *metrics.Metrics
}

func NewAdminHandler(st *store.Store, v *validate.Validator, m *metrics.Metrics) *AdminHandler {
	return &AdminHandler{store: st, validator: v, metrics: m}
}

// ListProposals handles GET /admin/proposals
func (h *AdminHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	proposals, err := h.store.ListAdminProposals(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProposalListResponse{Proposals: proposals})
}

// CreateProposal handles POST /admin/proposals
func (h *AdminHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var draft models.ProposalDraft
	if err := h.validator.Decode(r, validate.ProposalDraft, &draft); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	p, err := h.store.CreateProposal(r.Context(), id, draft)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	h.metrics.ProposalCreated()
	slog.Info("proposal created",
		"proposal_id", p.ID,
		"created_by", p.CreatedBy,
		"scope", p.Scope,
		"target", p.Target,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.ProposalResponse{Proposal: p})
}

// UpdateProposal handles PUT /admin/proposals/{id}
func (h *AdminHandler) UpdateProposal(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var draft models.ProposalDraft
	if err := h.validator.Decode(r, validate.ProposalDraft, &draft); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	p, err := h.store.UpdateProposal(r.Context(), id, r.PathValue("id"), draft)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("proposal updated", "proposal_id", p.ID, "updated_by", id.UserID)
	middleware.JSONResponse(w, http.StatusOK, models.ProposalResponse{Proposal: p})
}

// SetActive handles PATCH /admin/proposals/{id}/active
func (h *AdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req models.SetActiveRequest
	if err := h.validator.Decode(r, validate.SetActive, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	p, err := h.store.SetProposalActive(r.Context(), id, r.PathValue("id"), req.IsActive)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("proposal active toggled", "proposal_id", p.ID, "is_active", p.IsActive)
	middleware.JSONResponse(w, http.StatusOK, models.ProposalResponse{Proposal: p})
}

// DeleteProposal handles DELETE /admin/proposals/{id}
func (h *AdminHandler) DeleteProposal(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	proposalID := r.PathValue("id")
	if err := h.store.DeleteProposal(r.Context(), id, proposalID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("proposal deleted", "proposal_id", proposalID, "deleted_by", id.UserID)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Proposal deleted",
	})
}

// Recount handles POST /admin/proposals/{id}/recount
func (h *AdminHandler) Recount(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("id")
	tally, err := h.store.RecountTally(r.Context(), proposalID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("tally recounted",
		"proposal_id", proposalID,
		"total_votes", humanize.Comma(int64(tally.Total)),
	)
	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		ProposalID: proposalID,
		Tally:      tally,
	})
}

// UpsertAdmin handles POST /admin/admins
func (h *AdminHandler) UpsertAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminRequest
	if err := h.validator.Decode(r, validate.Admin, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	a, err := h.store.UpsertAdmin(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("admin record saved", "admin_id", a.ID, "user_id", a.UserID, "permissions", a.Permissions)
	middleware.JSONResponse(w, http.StatusCreated, a)
}

// ListAdmins handles GET /admin/admins
func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	admins, err := h.store.ListAdmins(r.Context(), page)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AdminListResponse{
		Admins: admins,
		Page:   page.Page,
		Limit:  page.Limit,
	})
}
