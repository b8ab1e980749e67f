// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics defines the Prometheus collectors for votes, rejections,
// rate limiting and HTTP latency, and serves them at /metrics.
package metrics
