package router

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/vyrodovalexey/sprout/internal/inflect"
	"github.com/vyrodovalexey/sprout/internal/observability"
	"github.com/vyrodovalexey/sprout/internal/util"
)

// Table defaults.
const (
	DefaultController = "pages"
	DefaultAction     = "index"
	DefaultFormat     = "html"
)

// defaultActionPlaceholder is replaced by the default action in
// fallbackPatterns.
const defaultActionPlaceholder = "{default_action}"

// fallbackPatterns are appended, in order, by EnsureDefaults when absent.
var fallbackPatterns = []string{
	"/",
	"/" + defaultActionPlaceholder + ":format",
	"/:controller:format",
	"/:controller/:action:format",
	"/:controller/:action/:id:format",
}

// Table is an ordered route table. Registration order is match priority.
//
// Routes are registered during startup. The first call to EnsureDefaults,
// made implicitly by Match, appends the fallback routes and seals the
// table; after that it is read-only and safe for concurrent use without
// locking.
type Table struct {
	mu     sync.Mutex
	sealed atomic.Bool

	routes    []*Route
	byPattern map[string]int
	byName    map[string]*Route

	frontController   string
	defaultController string
	defaultAction     string
	defaultFormat     string

	inflector inflect.Inflector
	logger    observability.Logger
	metrics   *routerMetrics
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithInflector sets the inflector used for names and canonical values.
func WithInflector(inflector inflect.Inflector) Option {
	return func(t *Table) {
		if inflector != nil {
			t.inflector = inflector
		}
	}
}

// WithFrontController sets the front-controller prefix.
func WithFrontController(name string) Option {
	return func(t *Table) {
		t.setFrontController(name)
	}
}

// New creates an empty table.
func New(opts ...Option) *Table {
	t := &Table{
		byPattern:         make(map[string]int),
		byName:            make(map[string]*Route),
		defaultController: DefaultController,
		defaultAction:     DefaultAction,
		defaultFormat:     DefaultFormat,
		inflector:         inflect.Default,
		logger:            observability.NopLogger(),
		metrics:           getRouterMetrics(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register compiles pattern and stores the route. Re-registering a pattern
// replaces the route in its existing position. A name already held by a
// different pattern is taken over by the new route and a warning is
// logged.
func (t *Table) Register(pattern string, components map[string]string, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sealed.Load() {
		return util.ErrTableSealed
	}

	route, err := Compile(pattern, components, name, t.settings())
	if err != nil {
		t.metrics.compileErrors.Inc()
		return err
	}

	t.store(route, true)

	t.logger.Debug("route registered",
		observability.String("name", route.Name),
		observability.String("pattern", route.Pattern),
		observability.Strings("tokens", route.Tokens),
	)
	return nil
}

// store inserts route under its pattern and name. Fallback routes pass
// claimName false and only take names nobody holds.
func (t *Table) store(route *Route, claimName bool) {
	if idx, ok := t.byPattern[route.Pattern]; ok {
		old := t.routes[idx]
		t.routes[idx] = route
		if t.byName[old.Name] == old {
			delete(t.byName, old.Name)
		}
	} else {
		t.byPattern[route.Pattern] = len(t.routes)
		t.routes = append(t.routes, route)
	}

	existing, taken := t.byName[route.Name]
	switch {
	case !taken:
		t.byName[route.Name] = route
	case claimName:
		if existing.Pattern != route.Pattern {
			t.logger.Warn("route name overridden",
				observability.String("name", route.Name),
				observability.String("previous_pattern", existing.Pattern),
				observability.String("pattern", route.Pattern),
			)
		}
		t.byName[route.Name] = route
	}
}

// EnsureDefaults appends any missing fallback route and seals the table.
// It is idempotent and safe for concurrent use.
func (t *Table) EnsureDefaults() {
	if t.sealed.Load() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sealed.Load() {
		return
	}

	settings := t.settings()
	inserted := 0
	for _, fallback := range fallbackPatterns {
		pattern := strings.ReplaceAll(fallback, defaultActionPlaceholder, t.defaultAction)
		canonical, err := canonicalPattern(pattern)
		if err != nil {
			continue
		}
		if _, ok := t.byPattern[canonical]; ok {
			continue
		}

		route, err := Compile(canonical, nil, "", settings)
		if err != nil {
			t.metrics.compileErrors.Inc()
			t.logger.Error("fallback route failed to compile",
				observability.String("pattern", canonical),
				observability.Error(err),
			)
			continue
		}
		t.store(route, false)
		inserted++
	}

	t.sealed.Store(true)
	t.metrics.routes.Set(float64(len(t.routes)))

	t.logger.Debug("default routes ensured",
		observability.Int("inserted", inserted),
		observability.Int("routes", len(t.routes)),
	)
}

// Sealed reports whether EnsureDefaults has run.
func (t *Table) Sealed() bool {
	return t.sealed.Load()
}

// Route returns the route registered under name.
func (t *Table) Route(name string) (*Route, bool) {
	unlock := t.readLock()
	defer unlock()

	route, ok := t.byName[name]
	return route, ok
}

// RouteByPattern returns the route registered under pattern. Trailing
// slashes are ignored.
func (t *Table) RouteByPattern(pattern string) (*Route, bool) {
	canonical, err := canonicalPattern(pattern)
	if err != nil {
		return nil, false
	}

	unlock := t.readLock()
	defer unlock()

	idx, ok := t.byPattern[canonical]
	if !ok {
		return nil, false
	}
	return t.routes[idx], true
}

// Routes returns the routes in match order.
func (t *Table) Routes() []*Route {
	unlock := t.readLock()
	defer unlock()

	routes := make([]*Route, len(t.routes))
	copy(routes, t.routes)
	return routes
}

// Len returns the number of routes.
func (t *Table) Len() int {
	unlock := t.readLock()
	defer unlock()

	return len(t.routes)
}

// readLock locks the table until it is sealed. Sealed tables are read
// without locking.
func (t *Table) readLock() func() {
	if t.sealed.Load() {
		return func() {}
	}
	t.mu.Lock()
	return t.mu.Unlock
}

// settings must be called with mu held or on a sealed table.
func (t *Table) settings() Settings {
	return Settings{
		DefaultController: t.defaultController,
		DefaultAction:     t.defaultAction,
		Inflector:         t.inflector,
	}
}

// Inflector returns the inflector used by the table.
func (t *Table) Inflector() inflect.Inflector {
	return t.inflector
}

// SetFrontController sets the front-controller prefix, e.g. "index.php".
// Empty input is ignored.
func (t *Table) SetFrontController(name string) error {
	return t.set(func() { t.setFrontController(name) })
}

func (t *Table) setFrontController(name string) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return
	}
	t.frontController = "/" + name
}

// FrontController returns the front-controller prefix with a leading
// slash, or "".
func (t *Table) FrontController() string {
	unlock := t.readLock()
	defer unlock()

	return t.frontController
}

// SetDefaultController sets the controller injected into patterns without
// one. The name is normalized, so "UserAccountsController",
// "user-accounts" and "user_accounts" are equivalent. Empty input is
// ignored.
func (t *Table) SetDefaultController(name string) error {
	return t.set(func() {
		if name = strings.TrimSpace(name); name == "" {
			return
		}
		underscored := t.inflector.Underscore(t.inflector.Controllerize(name))
		t.defaultController = strings.TrimSuffix(underscored, "_controller")
	})
}

// DefaultController returns the default controller.
func (t *Table) DefaultController() string {
	unlock := t.readLock()
	defer unlock()

	return t.defaultController
}

// SetDefaultAction sets the action injected into patterns without one.
// Empty input is ignored.
func (t *Table) SetDefaultAction(name string) error {
	return t.set(func() {
		if name = strings.TrimSpace(name); name != "" {
			t.defaultAction = t.inflector.Underscore(name)
		}
	})
}

// DefaultAction returns the default action.
func (t *Table) DefaultAction() string {
	unlock := t.readLock()
	defer unlock()

	return t.defaultAction
}

// SetDefaultFormat sets the format used when a request names none. A
// leading "." is dropped. Empty input is ignored.
func (t *Table) SetDefaultFormat(format string) error {
	return t.set(func() {
		if format = strings.TrimPrefix(strings.TrimSpace(format), "."); format != "" {
			t.defaultFormat = format
		}
	})
}

// DefaultFormat returns the default format.
func (t *Table) DefaultFormat() string {
	unlock := t.readLock()
	defer unlock()

	return t.defaultFormat
}

func (t *Table) set(apply func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sealed.Load() {
		return util.ErrTableSealed
	}
	apply()
	return nil
}
