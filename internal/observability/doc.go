// Package observability provides logging, metrics, and tracing
// functionality for the routing engine and its tools.
//
// # Logging
//
// The Logger interface provides structured logging over zap:
//
//	logger, err := observability.NewLogger(observability.LogConfig{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("route registered",
//	    observability.String("pattern", "/users/:id"),
//	)
//
// # Metrics
//
// Prometheus metrics for the route inspector. Router metrics live in
// the default registry and are served by the same handler:
//
//	metrics := observability.NewMetrics("sprout")
//	handler := metrics.Handler()
//
// # Tracing
//
// OpenTelemetry tracing with optional OTLP/gRPC export:
//
//	tracer, err := observability.NewTracer(observability.TracerConfig{
//	    Enabled:      true,
//	    OTLPEndpoint: "localhost:4317",
//	})
package observability
