// Package health provides the liveness and readiness probes of the route
// inspector.
//
// Readiness checks are plain functions; the inspector registers one for
// the active route table and one for the last configuration reload:
//
//	checker := health.NewChecker(version, logger)
//
//	checker.RegisterCheck("route_table", func() health.Check {
//	    return health.Check{Status: health.StatusHealthy}
//	})
//
//	engine := gin.New()
//	checker.RegisterRoutes(engine) // /healthz and /readyz
package health
