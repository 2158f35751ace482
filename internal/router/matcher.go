package router

import (
	"strings"
	"time"

	"github.com/vyrodovalexey/sprout/internal/observability"
	"github.com/vyrodovalexey/sprout/internal/params"
	"github.com/vyrodovalexey/sprout/internal/util"
)

// Strategy names how a route was found.
type Strategy string

// Match strategies.
const (
	StrategyFast Strategy = "fast"
	StrategyScan Strategy = "scan"
)

// MatchResult is the outcome of a successful match. It is allocated per
// call and never shares maps with the Route.
type MatchResult struct {
	// Route is the matched route. It must not be modified.
	Route *Route
	// Extracted holds the static components overlaid by token values.
	Extracted map[string]string
	// Params holds the canonicalized route parameters seeded with the
	// table defaults.
	Params params.Params
	// Strategy is the strategy that found the route.
	Strategy Strategy
}

// Match resolves path against the table. Fallback routes are ensured
// first. A route whose pattern equals the path is returned with its static
// components only, without regex evaluation; otherwise routes are tried in
// registration order and the first match wins. It returns a
// *util.RouteNotFoundError when nothing matches.
func (t *Table) Match(path string) (*MatchResult, error) {
	start := time.Now()
	t.EnsureDefaults()

	path = canonicalPath(StripFrontController(path, t.frontController))

	if idx, ok := t.byPattern[path]; ok {
		route := t.routes[idx]
		return t.result(route, route.staticValues(), StrategyFast, start), nil
	}

	for _, route := range t.routes {
		if extracted, ok := route.extract(path); ok {
			return t.result(route, extracted, StrategyScan, start), nil
		}
	}

	t.metrics.misses.Inc()
	t.metrics.matchDuration.Observe(time.Since(start).Seconds())
	t.logger.Debug("no route match", observability.String("path", path))
	return nil, util.NewRouteNotFoundError(path)
}

func (t *Table) result(route *Route, extracted map[string]string, strategy Strategy, start time.Time) *MatchResult {
	t.metrics.matches.WithLabelValues(string(strategy)).Inc()
	t.metrics.matchDuration.Observe(time.Since(start).Seconds())

	return &MatchResult{
		Route:     route,
		Extracted: extracted,
		Params:    t.RouteParams(extracted),
		Strategy:  strategy,
	}
}

// StripFrontController removes the front-controller prefix from path when
// it ends on a segment boundary. A query-form remainder such as
// "?/users/1?x=y" is reduced to "/users/1?x=y". Paths without the prefix
// are returned unchanged.
func StripFrontController(path, frontController string) string {
	if frontController == "" {
		return path
	}
	rooted := path
	if !strings.HasPrefix(rooted, "/") {
		rooted = "/" + rooted
	}
	if !strings.HasPrefix(rooted, frontController) {
		return path
	}

	rest := rooted[len(frontController):]
	switch {
	case rest == "":
		return "/"
	case strings.HasPrefix(rest, "?/"):
		return rest[1:]
	case rest[0] == '/' || rest[0] == '?':
		return rest
	default:
		return path
	}
}

// canonicalPath renders path with one leading slash and no trailing slash.
// Root is "/".
func canonicalPath(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return "/"
	}
	return "/" + path
}
