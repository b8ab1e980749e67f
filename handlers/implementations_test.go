// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/civicvote/models"
	"github.com/danielhkuo/civicvote/testutil"
)

func progressRequest(proposalID string, status models.ImplementationStatus, progress int) models.ImplementationRequest {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.ImplementationRequest{
		ProposalID:         proposalID,
		Status:             status,
		ProgressPercentage: progress,
		BudgetAllocated:    decimal.NewFromInt(500000),
		BudgetSpent:        decimal.NewFromInt(125000),
		StartDate:          start,
		ExpectedCompletion: start.AddDate(1, 0, 0),
	}
}

func TestImplementationTracking(t *testing.T) {
	f := newFixture(t)
	h := NewImplementationHandler(f.store, f.validator)
	owner := testutil.Admin("a1")

	proposalID := testutil.CreateTestProposal(t, f.conn, testutil.TestProposal{CreatedBy: "a1"})

	w := httptest.NewRecorder()
	h.CreateImplementation(w, request("POST", "/admin/implementations",
		progressRequest(proposalID, models.ImplementationNotStarted, 0), owner, ""))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.Implementation
	testutil.AssertJSON(t, w, &created)
	if created.Status != models.ImplementationNotStarted {
		t.Errorf("Expected not_started, got %s", created.Status)
	}

	tests := []struct {
		name           string
		identity       models.Identity
		request        models.ImplementationRequest
		expectedStatus int
		wantStatus     models.ImplementationStatus
	}{
		{"other admin", testutil.Admin("a2"), progressRequest(proposalID, models.ImplementationInProgress, 10), http.StatusForbidden, ""},
		{"progress over 100", owner, progressRequest(proposalID, models.ImplementationInProgress, 101), http.StatusBadRequest, ""},
		{"partial progress", owner, progressRequest(proposalID, models.ImplementationNotStarted, 55), http.StatusOK, models.ImplementationInProgress},
		{"finished", owner, progressRequest(proposalID, models.ImplementationInProgress, 100), http.StatusOK, models.ImplementationCompleted},
		{"cancelled sticks", testutil.Superadmin("root"), progressRequest(proposalID, models.ImplementationCancelled, 100), http.StatusOK, models.ImplementationCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.UpdateImplementation(w, request("PUT", "/admin/implementations/"+created.ID, tt.request, tt.identity, created.ID))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var im models.Implementation
			testutil.AssertJSON(t, w, &im)
			if im.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, im.Status)
			}
		})
	}

	w = httptest.NewRecorder()
	h.ListImplementations(w, request("GET", "/proposals/"+proposalID+"/implementations", nil, testutil.Citizen("c1", ""), proposalID))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ImplementationListResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Implementations) != 1 {
		t.Fatalf("Expected 1 implementation, got %d", len(resp.Implementations))
	}
	if !resp.Implementations[0].BudgetSpent.Equal(decimal.NewFromInt(125000)) {
		t.Errorf("Expected budget spent 125000, got %s", resp.Implementations[0].BudgetSpent)
	}
}

func TestListImplementations_MissingProposal(t *testing.T) {
	f := newFixture(t)
	h := NewImplementationHandler(f.store, f.validator)

	w := httptest.NewRecorder()
	h.ListImplementations(w, request("GET", "/proposals/missing/implementations", nil, testutil.Citizen("c1", ""), "missing"))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
