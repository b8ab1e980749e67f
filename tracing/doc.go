// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tracing configures the OpenTelemetry tracer provider used by the
// store's transaction spans.
package tracing
