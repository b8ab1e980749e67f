// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	ModeNone   = "none"
	ModeStdout = "stdout"
	ModeOTLP   = "otlp"
)

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(context.Context) error

// Setup installs a global tracer provider for mode. ModeStdout writes
// spans to w; ModeOTLP sends them over HTTP, configured by the standard
// OTEL_EXPORTER_OTLP_* variables. ModeNone leaves the no-op provider in
// place.
func Setup(ctx context.Context, mode string, w io.Writer) (ShutdownFunc, error) {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch mode {
	case ModeNone, "":
		return func(context.Context) error { return nil }, nil
	case ModeStdout:
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
	case ModeOTLP:
		exporter, err = otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported tracing mode %q", mode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s trace exporter: %w", mode, err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", "civicvote")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
