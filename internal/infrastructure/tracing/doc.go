/*
Package tracing wires OpenTelemetry tracing.

# Overview

Setup installs a global tracer provider that exports over OTLP/HTTP. Tracing
is opt-in: when disabled or without an endpoint, Setup leaves the global
no-op provider in place and returns a no-op shutdown.

Middleware starts one server span per HTTP request, continuing any W3C
traceparent sent by the caller, and echoes the trace ID in X-Trace-ID.
Storage operations open child spans from the request context.

# Usage

	shutdown, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     true,
		Endpoint:    "http://collector:4318",
		ServiceName: "persistfs",
	})
	defer shutdown(context.Background())

	router.Use(tracing.Middleware(otel.GetTracerProvider()))
*/
package tracing
