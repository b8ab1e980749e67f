// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).
WithMetrics records the same request into the latency histogram.

# Identity

Routes that need a caller are wrapped with RequireIdentity, RequireAdmin or
RequireSuperadmin. The identity is read from "Authorization: Bearer <token>"
and placed on the request context:

	id, _ := middleware.IdentityFrom(r.Context())

# Errors

WriteError maps the models error taxonomy onto status codes:

	ErrValidation    400 (with issues)
	ErrUnauthorized  401
	ErrForbidden     403
	ErrNotFound      404
	ErrAlreadyVoted  409
	ErrNotEligible   422

Everything else is logged and answered with a generic 500.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, PATCH, DELETE, OPTIONS with headers
Content-Type and Authorization.

# Rate Limiting

RateLimit keys clients by TrustedProxies.ClientIP and answers 429 once a
client is over budget. A failing limiter lets requests through.

ClientIP is the socket peer. Forwarding headers are read only when the peer
is in TRUSTED_PROXIES, and then the rightmost untrusted X-Forwarded-For hop
is the client.
*/
package middleware
