package middleware

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for middleware operations.
type Metrics struct {
	bodyLimitRejected prometheus.Counter
	panicsRecovered   prometheus.Counter
	rateLimited       prometheus.Counter
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
)

// GetMetrics returns the singleton middleware metrics instance.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			bodyLimitRejected: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "sprout",
					Subsystem: "middleware",
					Name:      "body_limit_rejected_total",
					Help:      "Total number of requests rejected due to body size limit",
				},
			),
			panicsRecovered: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "sprout",
					Subsystem: "middleware",
					Name:      "panics_recovered_total",
					Help:      "Total number of panics recovered",
				},
			),
			rateLimited: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "sprout",
					Subsystem: "middleware",
					Name:      "rate_limited_total",
					Help:      "Total number of requests rejected by the rate limiter",
				},
			),
		}
	})
	return metricsInstance
}
