package request

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/sprout/internal/observability"
	"github.com/vyrodovalexey/sprout/internal/params"
	"github.com/vyrodovalexey/sprout/internal/router"
	"github.com/vyrodovalexey/sprout/internal/util"
)

// Request is a resolved HTTP request.
type Request struct {
	Method    string `json:"method"`
	Protocol  string `json:"protocol"`
	Scheme    string `json:"scheme"`
	Host      string `json:"host"`
	Path      string `json:"path"`
	URI       string `json:"uri"`
	QueryURI  string `json:"queryUri,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	RemoteIP  string `json:"remoteIp,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`

	RouteName    string          `json:"route"`
	RoutePattern string          `json:"pattern"`
	Strategy     router.Strategy `json:"strategy"`

	// Query holds the query string folded with inline path parameters.
	Query params.Params `json:"query"`
	// Data holds the decoded request body.
	Data params.Params `json:"data"`
	// Params is Query, Data and the route parameters folded in that order.
	Params params.Params `json:"params"`
	Files  []File        `json:"files,omitempty"`

	Headers http.Header `json:"headers,omitempty"`

	// Route is the matched route. It must not be modified.
	Route *router.Route `json:"-"`
}

// Resolver resolves HTTP requests against a route table. The table may be
// replaced at any time; each resolution uses the table current when it
// starts.
type Resolver struct {
	table     atomic.Pointer[router.Table]
	tracer    *observability.Tracer
	logger    observability.Logger
	clientIP  func(*http.Request) string
	maxMemory int64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTracer sets the tracer used for resolution spans.
func WithTracer(tracer *observability.Tracer) Option {
	return func(r *Resolver) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClientIP sets the function that extracts the client address.
func WithClientIP(fn func(*http.Request) string) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.clientIP = fn
		}
	}
}

// WithMaxMemory sets the in-memory limit for multipart bodies.
func WithMaxMemory(n int64) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxMemory = n
		}
	}
}

// NewResolver creates a resolver over table.
func NewResolver(table *router.Table, opts ...Option) *Resolver {
	r := &Resolver{
		tracer:    observability.NoopTracer(),
		logger:    observability.NopLogger(),
		clientIP:  remoteIP,
		maxMemory: DefaultMaxMemory,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.SetTable(table)
	return r
}

// SetTable replaces the route table. A nil table is ignored.
func (r *Resolver) SetTable(table *router.Table) {
	if table != nil {
		r.table.Store(table)
	}
}

// Table returns the current route table.
func (r *Resolver) Table() *router.Table {
	return r.table.Load()
}

// Resolve normalizes, matches and merges req into a Request. It returns
// a *util.RouteNotFoundError when no route matches and an error wrapping
// util.ErrInvalidInput when the body cannot be decoded.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (*Request, error) {
	start := time.Now()
	ctx, span := r.tracer.StartSpan(ctx, "route.resolve",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()

	logger := r.logger.WithContext(ctx)

	table := r.Table()
	if table == nil {
		table = router.New()
	}
	frontController := table.FrontController()

	normalized := Normalize(rawTarget(req), frontController)

	match, err := table.Match(normalized.Path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no route match")
		logger.Debug("request not routed",
			observability.String("path", normalized.Path),
			observability.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("route.name", match.Route.Name),
		attribute.String("route.pattern", match.Route.Pattern),
		attribute.String("route.strategy", string(match.Strategy)),
	)

	data, files, err := decodeBody(req, r.maxMemory)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid body")
		return nil, err
	}

	scheme := requestScheme(req)
	path := frontController + normalized.Path

	resolved := &Request{
		Method:       req.Method,
		Protocol:     req.Proto,
		Scheme:       scheme,
		Host:         req.Host,
		Path:         path,
		URI:          buildURI(scheme, req.Host, path, normalized.Suffix),
		QueryURI:     normalized.Suffix,
		Referrer:     req.Referer(),
		RemoteIP:     r.clientIP(req),
		UserAgent:    req.UserAgent(),
		RouteName:    match.Route.Name,
		RoutePattern: match.Route.Pattern,
		Strategy:     match.Strategy,
		Query:        normalized.Combined,
		Data:         data,
		Params:       params.Merge(normalized.Combined, data, match.Params),
		Files:        files,
		Headers:      req.Header.Clone(),
		Route:        match.Route,
	}

	logger.Debug("request resolved",
		observability.String("path", normalized.Path),
		observability.String("route", match.Route.Name),
		observability.String("strategy", string(match.Strategy)),
		observability.Duration("duration", time.Since(start)),
	)
	return resolved, nil
}

// IsNotFound reports whether err means no route matched.
func IsNotFound(err error) bool {
	return errors.Is(err, util.ErrNoRouteMatch)
}

// rawTarget rebuilds the escaped request target. The query form of the
// front controller ("/index.php?/users") arrives in RawQuery.
func rawTarget(req *http.Request) string {
	target := req.URL.EscapedPath()
	if req.URL.RawQuery != "" {
		target += "?" + req.URL.RawQuery
	}
	return target
}

func requestScheme(req *http.Request) string {
	if req.TLS != nil {
		return "https"
	}
	if proto := req.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		return proto
	}
	return "http"
}

// buildURI renders the absolute request URI. The port is part of host
// when it was sent.
func buildURI(scheme, host, path, suffix string) string {
	uri := scheme + "://" + host + path
	if suffix != "" {
		uri = strings.TrimRight(uri, "/") + "/" + suffix
	}
	return uri
}

func remoteIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
