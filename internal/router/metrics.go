package router

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// routerMetrics contains Prometheus metrics for route resolution.
type routerMetrics struct {
	matches       *prometheus.CounterVec
	misses        prometheus.Counter
	matchDuration prometheus.Histogram
	compileErrors prometheus.Counter
	routes        prometheus.Gauge
}

var (
	routerMetricsInstance *routerMetrics
	routerMetricsOnce     sync.Once
)

// getRouterMetrics returns the singleton router metrics instance.
func getRouterMetrics() *routerMetrics {
	routerMetricsOnce.Do(func() {
		routerMetricsInstance = &routerMetrics{
			matches: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "sprout",
					Subsystem: "router",
					Name:      "matches_total",
					Help:      "Total number of resolved paths by match strategy",
				},
				[]string{"strategy"},
			),
			misses: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "sprout",
					Subsystem: "router",
					Name:      "misses_total",
					Help:      "Total number of paths no route matched",
				},
			),
			matchDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "sprout",
					Subsystem: "router",
					Name:      "match_duration_seconds",
					Help:      "Time spent resolving a path against the route table",
					Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
				},
			),
			compileErrors: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "sprout",
					Subsystem: "router",
					Name:      "compile_errors_total",
					Help:      "Total number of route patterns that failed to compile",
				},
			),
			routes: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "sprout",
					Subsystem: "router",
					Name:      "routes",
					Help:      "Number of routes in the most recently sealed table",
				},
			),
		}
	})
	return routerMetricsInstance
}
