package main

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/sprout/internal/config"
	"github.com/vyrodovalexey/sprout/internal/health"
	"github.com/vyrodovalexey/sprout/internal/middleware"
	"github.com/vyrodovalexey/sprout/internal/observability"
	"github.com/vyrodovalexey/sprout/internal/request"
	"github.com/vyrodovalexey/sprout/internal/router"
	"github.com/vyrodovalexey/sprout/internal/util"
)

// errorResponse is the JSON body of failed resolutions.
type errorResponse struct {
	Error     string `json:"error"`
	Path      string `json:"path"`
	RequestID string `json:"requestId,omitempty"`
}

// inspector answers every request that is not a probe or the metrics
// endpoint with the JSON form of its resolution.
type inspector struct {
	resolver *request.Resolver
	metrics  *observability.Metrics
	health   *health.Checker
	logger   observability.Logger
	engine   *gin.Engine
	handler  http.Handler
	limiter  *middleware.RateLimiter

	mu            sync.RWMutex
	lastReloadErr error
	lastReload    time.Time
}

// newInspector wires the gin engine, probes, metrics endpoint and
// middleware chain around table.
func newInspector(
	cfg *config.Config,
	table *router.Table,
	logger observability.Logger,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
) *inspector {
	extractor := middleware.NewClientIPExtractor(cfg.Server.TrustedProxies)

	ins := &inspector{
		resolver: request.NewResolver(table,
			request.WithLogger(logger),
			request.WithTracer(tracer),
			request.WithClientIP(extractor.Extract),
		),
		metrics:    metrics,
		health:     health.NewChecker(version, logger),
		logger:     logger,
		lastReload: time.Now(),
	}
	metrics.SetTableSize(table.Len())

	ins.health.RegisterCheck("route_table", ins.checkRouteTable)
	ins.health.RegisterCheck("config", ins.checkConfig)

	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.HandleMethodNotAllowed = false

	ins.health.RegisterRoutes(engine)
	if cfg.Observability.Metrics.Enabled {
		engine.GET(cfg.Observability.Metrics.Path, gin.WrapH(metrics.Handler()))
	}
	engine.NoRoute(ins.resolve)

	chain := buildMiddlewareChain(engine, cfg, logger, extractor, tracer)
	ins.engine = engine
	ins.handler = chain.handler
	ins.limiter = chain.rateLimiter

	return ins
}

// ServeHTTP implements http.Handler.
func (ins *inspector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ins.handler.ServeHTTP(w, r)
}

// Close releases background resources of the middleware chain.
func (ins *inspector) Close() {
	if ins.limiter != nil {
		ins.limiter.Stop()
	}
}

// resolve is the catch-all handler.
func (ins *inspector) resolve(c *gin.Context) {
	start := time.Now()

	resolved, err := ins.resolver.Resolve(c.Request.Context(), c.Request)
	if err != nil {
		status := statusForError(err)
		ins.metrics.RecordRequest(c.Request.Method, "", status, time.Since(start))
		c.JSON(status, errorResponse{
			Error:     err.Error(),
			Path:      c.Request.URL.Path,
			RequestID: observability.RequestIDFromContext(c.Request.Context()),
		})
		return
	}

	ins.metrics.RecordRequest(c.Request.Method, resolved.RouteName, http.StatusOK, time.Since(start))
	c.JSON(http.StatusOK, resolved)
}

// statusForError maps resolution errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case request.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, middleware.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case util.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (ins *inspector) checkRouteTable() health.Check {
	table := ins.resolver.Table()
	if table == nil || table.Len() == 0 {
		return health.Check{Status: health.StatusUnhealthy, Message: "no route table"}
	}
	return health.Check{
		Status:  health.StatusHealthy,
		Message: fmt.Sprintf("%d routes", table.Len()),
	}
}

func (ins *inspector) checkConfig() health.Check {
	ins.mu.RLock()
	defer ins.mu.RUnlock()

	if ins.lastReloadErr != nil {
		return health.Check{
			Status:  health.StatusDegraded,
			Message: "last reload failed: " + ins.lastReloadErr.Error(),
		}
	}
	return health.Check{
		Status:  health.StatusHealthy,
		Message: "loaded " + ins.lastReload.Format(time.RFC3339),
	}
}

// recordReload stores the outcome of a configuration reload.
func (ins *inspector) recordReload(err error) {
	ins.mu.Lock()
	ins.lastReloadErr = err
	if err == nil {
		ins.lastReload = time.Now()
	}
	ins.mu.Unlock()

	ins.metrics.RecordReload(err == nil)
}
