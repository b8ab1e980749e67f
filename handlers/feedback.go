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

// FeedbackHandler serves citizen feedback and complaints
type FeedbackHandler struct {
	store     *store.Store
	validator *validate.Validator
}

func NewFeedbackHandler(st *store.Store, v *validate.Validator) *FeedbackHandler {
	return &FeedbackHandler{store: st, validator: v}
}

// SubmitFeedback handles POST /feedback
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req models.FeedbackRequest
	if err := h.validator.Decode(r, validate.Feedback, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	f, err := h.store.CreateFeedback(r.Context(), id, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("feedback submitted", "feedback_id", f.ID, "category", f.Category, "priority", f.Priority)
	middleware.JSONResponse(w, http.StatusCreated, f)
}

// ListMyFeedback handles GET /feedback
func (h *FeedbackHandler) ListMyFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	h.list(w, r, id.UserID, "")
}

// ListAllFeedback handles GET /admin/feedback
func (h *FeedbackHandler) ListAllFeedback(w http.ResponseWriter, r *http.Request) {
	status := models.FeedbackStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		middleware.WriteError(w, r, &models.ValidationError{
			Issues: []string{"status: must be pending or seen"},
		})
		return
	}
	h.list(w, r, "", status)
}

func (h *FeedbackHandler) list(w http.ResponseWriter, r *http.Request, userID string, status models.FeedbackStatus) {
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	items, err := h.store.ListFeedback(r.Context(), userID, status, page)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.FeedbackListResponse{
		Feedback: items,
		Page:     page.Page,
		Limit:    page.Limit,
	})
}

// SetFeedbackStatus handles PATCH /admin/feedback/{id}/status
func (h *FeedbackHandler) SetFeedbackStatus(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackStatusRequest
	if err := h.validator.Decode(r, validate.FeedbackStatus, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	f, err := h.store.SetFeedbackStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, f)
}

// SubmitComplaint handles POST /complaints
func (h *FeedbackHandler) SubmitComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	var req models.ComplaintRequest
	if err := h.validator.Decode(r, validate.Complaint, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	c, err := h.store.CreateComplaint(r.Context(), id, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("complaint submitted", "complaint_id", c.ID, "to_admin", c.ToAdmin)
	middleware.JSONResponse(w, http.StatusCreated, c)
}

// ListComplaints handles GET /admin/complaints
func (h *FeedbackHandler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	complaints, err := h.store.ListComplaints(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ComplaintListResponse{Complaints: complaints})
}
