// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ratelimit provides per-client token bucket limiters: an
// in-memory one for a single server and a Redis-backed one shared by
// replicas.
package ratelimit
