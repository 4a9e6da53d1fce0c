// Package middleware provides the HTTP middleware stack.
//
//   - RequestID: tags each request with a req_* ULID (X-Request-ID)
//   - Logger: one zap entry per request
//   - Recovery: panic recovery with a JSON 500
//   - CORS: cross-origin resource sharing via gin-contrib/cors
//   - RateLimit: per-IP token bucket, idle clients swept
//   - BodyLimit: request body size cap
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
