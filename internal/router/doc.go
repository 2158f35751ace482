// Package router compiles route patterns and resolves request paths
// against an ordered route table.
//
// A pattern is a slash-delimited template with ":name" tokens. Each token
// becomes one capturing group of an anchored, case-insensitive expression.
// Components keyed by a token override its expression; all other
// components are static values of the route. Patterns without a
// controller or action receive the table defaults.
//
// # Resolution
//
// Match first appends the fallback routes and seals the table. A path
// equal to a static pattern is resolved without regex evaluation. Other
// paths are tried against every route in registration order and the first
// match wins, regardless of specificity.
//
//	t := router.New(router.WithLogger(logger))
//	_ = t.Register("/profile/:username", map[string]string{
//	    "controller": "users",
//	    "action":     "view",
//	}, "")
//
//	res, err := t.Match("/profile/bob")
//	if errors.Is(err, util.ErrNoRouteMatch) {
//	    // not found
//	}
//	// res.Route.Name == "view_users", res.Params.Get("username") == "bob"
//
// # Concurrency
//
// Register and the setters may only be called before the table is sealed;
// afterwards they return util.ErrTableSealed. A sealed table is immutable
// and every MatchResult is freshly allocated.
package router
