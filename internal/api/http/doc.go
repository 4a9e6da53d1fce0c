// Package http provides the REST facade over the storage service.
//
// Handlers await the storage promises with the request context, bounded by a
// per-handler timeout, and map storage error kinds to status codes.
//
// Endpoints (under /api/v1):
//   - Storage: /storage/supported, /storage/usage, /storage/quota
//   - Folders: /folders/*path (GET list, POST create, DELETE ?recursive=)
//   - Files: /files/*path (PUT ?append=, GET ?decoding=, DELETE)
//   - Entries: /entries/*path, /resolve?url=
//   - Client logs: /logs
//   - Metrics snapshot: /metrics
//
// Errors are returned as {"error": {"kind": "...", "message": "..."}}.
//
// Example Usage:
//
//	handlers := http.NewHandlers(svc, http.WithMetrics(metrics), http.WithLogger(logger))
//	handlers.Register(router.Group("/api/v1"))
//	router.GET("/health", handlers.Health)
package http
