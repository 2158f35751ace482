package main

import (
	"net/http"

	"github.com/vyrodovalexey/sprout/internal/config"
	"github.com/vyrodovalexey/sprout/internal/middleware"
	"github.com/vyrodovalexey/sprout/internal/observability"
)

// middlewareChainResult holds the result of building the middleware chain.
type middlewareChainResult struct {
	handler     http.Handler
	rateLimiter *middleware.RateLimiter
}

// buildMiddlewareChain builds the middleware chain.
// The execution order (outermost executes first):
// Recovery -> RequestID -> Tracing -> Logging -> RateLimit -> BodyLimit -> [inspector]
func buildMiddlewareChain(
	handler http.Handler,
	cfg *config.Config,
	logger observability.Logger,
	extractor *middleware.ClientIPExtractor,
	tracer *observability.Tracer,
) middlewareChainResult {
	h := handler
	h = middleware.BodyLimit(cfg.Server.MaxBodySize, logger)(h)

	var rateLimiter *middleware.RateLimiter
	if rl := cfg.Server.RateLimit; rl.Enabled {
		rateLimiter = middleware.NewRateLimiter(rl.RequestsPerSecond, rl.Burst, rl.PerClient,
			middleware.WithRateLimiterLogger(logger),
		)
		rateLimiter.StartAutoCleanup()
		h = middleware.RateLimit(rateLimiter, extractor)(h)
	}

	h = middleware.Logging(logger, extractor)(h)
	h = middleware.Tracing(tracer)(h)
	h = middleware.RequestID()(h)
	h = middleware.Recovery(logger)(h)

	return middlewareChainResult{
		handler:     h,
		rateLimiter: rateLimiter,
	}
}
