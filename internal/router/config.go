package router

import (
	"fmt"

	"github.com/vyrodovalexey/sprout/internal/config"
)

// FromConfig builds a sealed table from cfg: routing settings first, then
// the routes in document order, then the fallback routes.
func FromConfig(cfg *config.Config, opts ...Option) (*Table, error) {
	t := New(opts...)
	if cfg == nil {
		t.EnsureDefaults()
		return t, nil
	}

	routing := cfg.Routing
	if err := t.SetFrontController(routing.FrontController); err != nil {
		return nil, err
	}
	if err := t.SetDefaultController(routing.DefaultController); err != nil {
		return nil, err
	}
	if err := t.SetDefaultAction(routing.DefaultAction); err != nil {
		return nil, err
	}
	if err := t.SetDefaultFormat(routing.DefaultFormat); err != nil {
		return nil, err
	}

	for i, route := range cfg.Routes {
		if err := t.Register(route.Pattern, route.Components, route.Name); err != nil {
			return nil, fmt.Errorf("routes[%d]: %w", i, err)
		}
	}

	t.EnsureDefaults()
	return t, nil
}
