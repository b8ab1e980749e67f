// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/civicvote/models"
)

// Verifier turns a bearer token into the caller's identity.
type Verifier interface {
	Verify(token string) (models.Identity, error)
}

type identityKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by RequireIdentity.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireIdentity rejects requests without a valid identity token and puts
// the identity on the request context.
func RequireIdentity(v Verifier, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := v.Verify(BearerToken(r))
		if err != nil {
			slog.Debug("identity rejected", "path", r.URL.Path, "error", err)
			ErrorResponse(w, http.StatusUnauthorized, "valid identity token required")
			return
		}
		next(w, r.WithContext(WithIdentity(r.Context(), id)))
	}
}

// RequireAdmin is RequireIdentity restricted to admins and superadmins.
func RequireAdmin(v Verifier, next http.HandlerFunc) http.HandlerFunc {
	return RequireIdentity(v, func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFrom(r.Context())
		if !id.Role.HasAdminPrivilege() {
			ErrorResponse(w, http.StatusForbidden, "admin privilege required")
			return
		}
		next(w, r)
	})
}

// RequireSuperadmin is RequireIdentity restricted to superadmins.
func RequireSuperadmin(v Verifier, next http.HandlerFunc) http.HandlerFunc {
	return RequireIdentity(v, func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFrom(r.Context())
		if id.Role != models.RoleSuperadmin {
			ErrorResponse(w, http.StatusForbidden, "superadmin privilege required")
			return
		}
		next(w, r)
	})
}
