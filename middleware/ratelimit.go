// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/civicvote/metrics"
	"github.com/danielhkuo/civicvote/ratelimit"
)

// RateLimit refuses requests from clients over their budget with 429.
// Clients are keyed by proxies.ClientIP. If the limiter itself fails the
// request is let through.
func RateLimit(l ratelimit.Limiter, proxies TrustedProxies, m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := proxies.ClientIP(r)
		allowed, err := l.Allow(r.Context(), ip)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err)
			allowed = true
		}
		if !allowed {
			m.RateLimited()
			w.Header().Set("Retry-After", "1")
			ErrorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
