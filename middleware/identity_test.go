// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/civicvote/models"
)

// stubVerifier accepts tokens present in its map
type stubVerifier map[string]models.Identity

func (s stubVerifier) Verify(token string) (models.Identity, error) {
	id, ok := s[token]
	if !ok {
		return models.Identity{}, errors.New("unknown token")
	}
	return id, nil
}

var testVerifier = stubVerifier{
	"citizen-token": {UserID: "u1", Role: models.RoleCitizen, Jurisdiction: models.Jurisdiction{Region: "Oromia"}},
	"admin-token":   {UserID: "a1", Role: models.RoleAdmin},
	"super-token":   {UserID: "s1", Role: models.RoleSuperadmin},
}

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		want   string
	}{
		{"standard", "Bearer abc", "abc"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"extra spaces", "Bearer   abc  ", "abc"},
		{"missing", "", ""},
		{"basic scheme", "Basic abc", ""},
		{"scheme only", "Bearer", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if got := BearerToken(req); got != tc.want {
				t.Errorf("Expected token '%s', got '%s'", tc.want, got)
			}
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	var seen models.Identity
	handler := RequireIdentity(testVerifier, func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/proposals", nil)
		req.Header.Set("Authorization", "Bearer citizen-token")
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if seen.UserID != "u1" || seen.Jurisdiction.Region != "Oromia" {
			t.Errorf("Expected identity u1 in Oromia, got %+v", seen)
		}
	})

	for _, header := range []string{"", "Bearer nope", "Token citizen-token"} {
		t.Run("rejects "+header, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/proposals", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", w.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	testCases := []struct {
		name    string
		handler http.HandlerFunc
		token   string
		want    int
	}{
		{"admin route citizen", RequireAdmin(testVerifier, ok), "citizen-token", http.StatusForbidden},
		{"admin route admin", RequireAdmin(testVerifier, ok), "admin-token", http.StatusOK},
		{"admin route superadmin", RequireAdmin(testVerifier, ok), "super-token", http.StatusOK},
		{"admin route anonymous", RequireAdmin(testVerifier, ok), "", http.StatusUnauthorized},
		{"superadmin route admin", RequireSuperadmin(testVerifier, ok), "admin-token", http.StatusForbidden},
		{"superadmin route superadmin", RequireSuperadmin(testVerifier, ok), "super-token", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/admin/proposals", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()

			tc.handler(w, req)

			if w.Code != tc.want {
				t.Errorf("Expected status %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestIdentityFrom_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := IdentityFrom(req.Context()); ok {
		t.Error("Expected no identity on a bare context")
	}
}
