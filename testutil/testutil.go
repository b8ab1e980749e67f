// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/civicvote/auth"
	"github.com/danielhkuo/civicvote/cliparse"
	"github.com/danielhkuo/civicvote/db"
	"github.com/danielhkuo/civicvote/models"
)

// TestIdentitySecret signs identity tokens in tests
const TestIdentitySecret = "test-identity-secret"

// SetupTestDB creates a fresh SQLite database with the full schema in a
// temporary directory. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "civicvote.db")
	conn, err := db.Open(context.Background(), db.TypeSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    "file:test.db",
		DatabaseType:   db.TypeSQLite,
		IdentitySecret: TestIdentitySecret,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		Tracing:        cliparse.TracingNone,
		MetricsEnabled: true,
	}
}

// Citizen returns a citizen identity in the given region.
func Citizen(userID, region string) models.Identity {
	return models.Identity{
		UserID:       userID,
		Role:         models.RoleCitizen,
		Jurisdiction: models.Jurisdiction{Region: region},
	}
}

// Admin returns an identity with the admin role.
func Admin(userID string) models.Identity {
	return models.Identity{UserID: userID, Role: models.RoleAdmin}
}

// Superadmin returns an identity with the superadmin role.
func Superadmin(userID string) models.Identity {
	return models.Identity{UserID: userID, Role: models.RoleSuperadmin}
}

// TestProposal describes a proposal row. Zero fields take defaults:
// national scope, active, ending tomorrow, created by "admin-1".
type TestProposal struct {
	Title     string
	Scope     models.Scope
	Target    string
	Category  models.Category
	CreatedBy string
	StartsAt  time.Time
	EndsAt    time.Time
	Inactive  bool
	Deleted   bool
	CreatedAt time.Time
}

// CreateTestProposal inserts a proposal directly and returns its ID
func CreateTestProposal(t *testing.T, conn *sql.DB, p TestProposal) string {
	t.Helper()

	now := time.Now().UTC()
	if p.Title == "" {
		p.Title = "Test proposal title"
	}
	if p.Scope == "" {
		p.Scope = models.ScopeNational
	}
	if p.Category == "" {
		p.Category = models.CategoryInfrastructure
	}
	if p.CreatedBy == "" {
		p.CreatedBy = "admin-1"
	}
	if p.StartsAt.IsZero() {
		p.StartsAt = now.Add(-time.Hour)
	}
	if p.EndsAt.IsZero() {
		p.EndsAt = now.Add(24 * time.Hour)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	id := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO proposals (id, title, description, created_by, scope, target, category,
			starts_at, ends_at, is_active, is_deleted, created_at, updated_at)
		VALUES ($1, $2, 'A test proposal description', $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, id, p.Title, p.CreatedBy, p.Scope, p.Target, p.Category,
		p.StartsAt.UTC(), p.EndsAt.UTC(), !p.Inactive, p.Deleted, p.CreatedAt.UTC(), p.CreatedAt.UTC())
	if err != nil {
		t.Fatalf("Failed to create test proposal: %v", err)
	}

	return id
}

// CreateTestAdmin inserts an active admin record and returns its ID
func CreateTestAdmin(t *testing.T, conn *sql.DB, userID string, permissions ...models.Scope) string {
	t.Helper()

	if permissions == nil {
		permissions = []models.Scope{}
	}
	perms, _ := json.Marshal(permissions)

	id := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO admins (id, user_id, assigned_region, assigned_zone_or_subcity, assigned_woreda,
			job_description, permissions, created_at)
		VALUES ($1, $2, 'Oromia', 'Adama', 'Woreda 01', 'Test admin', $3, $4)
	`, id, userID, string(perms), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	return id
}

// TestToken signs an identity token valid for an hour
func TestToken(t *testing.T, id models.Identity) string {
	t.Helper()

	token, err := auth.IssueToken(TestIdentitySecret, "", id, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// AuthHeaders returns request headers carrying a bearer token for id
func AuthHeaders(t *testing.T, id models.Identity) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + TestToken(t, id)}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
