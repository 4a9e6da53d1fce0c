// Package main is the entry point for the persistfs server.
//
// The server exposes a sandboxed, quota-limited persistent storage area over
// HTTP. Every storage operation is asynchronous internally and settles on a
// single scheduler loop; handlers wait for the result.
//
// Configuration:
//   - Environment variables (12-factor, see internal/infrastructure/config)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -quota-mb 5
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
