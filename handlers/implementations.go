// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/civicvote/middleware"
	"github.com/danielhkuo/civicvote/models"
	"github.com/danielhkuo/civicvote/store"
	"github.com/danielhkuo/civicvote/validate"
)

type ImplementationHandler struct {
	store     *store.Store
	validator *validate.Validator
}

func NewImplementationHandler(st *store.Store, v *validate.Validator) *ImplementationHandler {
	return &ImplementationHandler{store: st, validator: v}
}

// CreateImplementation handles POST /admin/implementations
func (h *ImplementationHandler) CreateImplementation(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req models.ImplementationRequest
	if err := h.validator.Decode(r, validate.Implementation, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	im, err := h.store.CreateImplementation(r.Context(), id, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("implementation recorded",
		"implementation_id", im.ID,
		"proposal_id", im.ProposalID,
		"status", im.Status,
		"progress", im.ProgressPercentage,
	)
	middleware.JSONResponse(w, http.StatusCreated, im)
}

// UpdateImplementation handles PUT /admin/implementations/{id}
func (h *ImplementationHandler) UpdateImplementation(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req models.ImplementationRequest
	if err := h.validator.Decode(r, validate.Implementation, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	im, err := h.store.UpdateImplementation(r.Context(), id, r.PathValue("id"), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("implementation updated",
		"implementation_id", im.ID,
		"status", im.Status,
		"progress", im.ProgressPercentage,
	)
	middleware.JSONResponse(w, http.StatusOK, im)
}

// ListImplementations handles GET /proposals/{id}/implementations
func (h *ImplementationHandler) ListImplementations(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("id")
	if _, err := h.store.GetProposal(r.Context(), proposalID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	items, err := h.store.ListImplementations(r.Context(), proposalID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ImplementationListResponse{Implementations: items})
}
