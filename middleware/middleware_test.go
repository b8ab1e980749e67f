// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/civicvote/models"
)

func TestWithLogging(t *testing.T) {
	testCases := []struct {
		name   string
		method string
		status int
		body   string
	}{
		{"list proposals", "GET", http.StatusOK, `{"proposals":[]}`},
		{"vote cast", "POST", http.StatusCreated, `{"message":"Vote cast successfully"}`},
		{"duplicate vote", "POST", http.StatusConflict, `{"error":"Conflict"}`},
		{"store failure", "PUT", http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			w := httptest.NewRecorder()
			handler(w, httptest.NewRequest(tc.method, "/votes", nil))

			if calls != 1 {
				t.Fatalf("Expected handler to run once, ran %d times", calls)
			}
			if w.Code != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body %q, got %q", tc.body, w.Body.String())
			}
		})
	}
}

func TestWithLogging_RecordsStatus(t *testing.T) {
	var inner *statusRecorder
	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		inner, _ = w.(*statusRecorder)
		w.WriteHeader(http.StatusTeapot)
	})

	handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if inner == nil {
		t.Fatal("Expected handler to receive a status recorder")
	}
	if inner.status != http.StatusTeapot {
		t.Errorf("Expected recorded status 418, got %d", inner.status)
	}
}

func TestWithLogging_DefaultStatus(t *testing.T) {
	var inner *statusRecorder
	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		inner, _ = w.(*statusRecorder)
		w.Write([]byte("ok"))
	})

	handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	if inner == nil || inner.status != http.StatusOK {
		t.Errorf("Expected implicit 200 to be recorded, got %+v", inner)
	}
}

func TestJSONResponse(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		data   any
		want   string
	}{
		{
			name:   "tally",
			status: http.StatusOK,
			data:   models.TallyResponse{ProposalID: "p-1", Tally: models.Tally{Total: 3, Yes: 2, Abstain: 1}},
			want:   `{"proposal_id":"p-1","tally":{"total_votes":3,"yes_votes":2,"no_votes":0,"abstain_votes":1}}`,
		},
		{
			name:   "deleted",
			status: http.StatusOK,
			data:   map[string]string{"message": "Proposal deleted"},
			want:   `{"message":"Proposal deleted"}`,
		},
		{
			name:   "validation issues",
			status: http.StatusBadRequest,
			data: models.ErrorResponse{
				Error:   "Bad Request",
				Message: "validation failed",
				Issues:  []string{"title must be at least 10 characters"},
			},
			want: `{"error":"Bad Request","message":"validation failed","issues":["title must be at least 10 characters"]}`,
		},
		{
			name:   "scopes",
			status: http.StatusOK,
			data:   models.Scopes,
			want:   `["national","regional","zoneOrSubcity","woreda"]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSONResponse(w, tc.status, tc.data)

			if w.Code != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %q", ct)
			}
			if body := strings.TrimSpace(w.Body.String()); body != tc.want {
				t.Errorf("Expected body %s, got %s", tc.want, body)
			}
		})
	}
}

// Each case uses a message the server actually sends for that status.
func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		status  int
		message string
	}{
		{http.StatusUnauthorized, "valid identity token required"},
		{http.StatusForbidden, "admin privilege required"},
		{http.StatusNotFound, models.ErrNotFound.Error()},
		{http.StatusConflict, models.ErrAlreadyVoted.Error()},
		{http.StatusUnprocessableEntity, models.ErrNotEligible.Error()},
		{http.StatusTooManyRequests, "rate limit exceeded"},
		{http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range testCases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorResponse(w, tc.status, tc.message)

			if w.Code != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error != http.StatusText(tc.status) {
				t.Errorf("Expected error %q, got %q", http.StatusText(tc.status), resp.Error)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message %q, got %q", tc.message, resp.Message)
			}
			if len(resp.Issues) != 0 {
				t.Errorf("Expected no issues, got %v", resp.Issues)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("handled"))
	})
	handler := CORS(next)

	send := func(method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/proposals", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("preflight stops before the handler", func(t *testing.T) {
		w := send("OPTIONS", "http://localhost:5173")
		if w.Code != http.StatusOK || w.Body.Len() != 0 {
			t.Errorf("Expected empty 200, got %d %q", w.Code, w.Body.String())
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("Expected origin to be echoed, got %q", got)
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Expected credentials to be allowed")
		}
		if h := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(h, "Authorization") {
			t.Errorf("Expected Authorization in allowed headers, got %q", h)
		}
		methods := w.Header().Get("Access-Control-Allow-Methods")
		for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
			if !strings.Contains(methods, m) {
				t.Errorf("Expected %s in allowed methods %q", m, methods)
			}
		}
	})

	t.Run("request reaches the handler", func(t *testing.T) {
		w := send("PATCH", "https://civic.example")
		if w.Body.String() != "handled" {
			t.Errorf("Expected next handler to run, got %q", w.Body.String())
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://civic.example" {
			t.Errorf("Expected origin to be echoed, got %q", got)
		}
	})

	t.Run("no origin", func(t *testing.T) {
		w := send("GET", "")
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Expected wildcard origin, got %q", got)
		}
	})
}
