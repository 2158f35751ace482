// Package middleware provides the net/http middleware wrapped around the
// route inspector.
//
//   - RequestID: request identifier injection
//   - Logging: structured request logging
//   - Recovery: panic recovery with stack trace logging
//   - BodyLimit: request body size limiting
//   - RateLimit: token bucket rate limiting, global or per client
//   - ClientIPExtractor: trusted proxy-aware client IP extraction
//
// Middleware functions follow the standard Go pattern:
//
//	handler := middleware.Recovery(logger)(
//	    middleware.RequestID()(
//	        middleware.Logging(logger, extractor)(yourHandler),
//	    ),
//	)
package middleware
