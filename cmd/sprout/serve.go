package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/sprout/internal/config"
	"github.com/vyrodovalexey/sprout/internal/observability"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the route inspector HTTP server",
		Long: `Serve every request path as the JSON form of its resolution.

Unmatched paths answer 404. The server exposes /healthz, /readyz and the
Prometheus metrics endpoint, and reloads the route table when the
configuration file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, flags, address)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address (overrides server.address)")

	return cmd
}

// runServe runs the inspector until ctx is cancelled.
func runServe(ctx context.Context, flags *globalFlags, address string) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Server.Address = address
	}

	logger, err := initLogger(flags, cfg, "")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting sprout",
		observability.String("version", version),
		observability.String("config", flags.configPath),
	)

	table, err := buildTable(cfg, logger)
	if err != nil {
		return err
	}

	tracer, err := initTracer(cfg)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	metrics := observability.NewMetrics("sprout")
	metrics.SetBuildInfo(version, gitCommit, buildTime)

	ins := newInspector(cfg, table, logger, metrics, tracer)
	defer ins.Close()

	listener, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           ins,
		ReadTimeout:       cfg.Server.ReadTimeout.Duration(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout.Duration(),
		WriteTimeout:      cfg.Server.WriteTimeout.Duration(),
	}

	var watcher *config.Watcher
	if flags.configPath != "" {
		// loadConfig already resolved this path once.
		path, _ := config.ResolveConfigPath(flags.configPath)
		watcher = startConfigWatcher(ctx, ins, path, logger)
	}

	logger.Info("route inspector listening",
		observability.String("address", listener.Addr().String()),
		observability.Int("routes", table.Len()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case serveErr = <-errCh:
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
	}

	shutdown(srv, watcher, tracer, cfg.Server.ShutdownTimeout.Duration(), logger)
	return serveErr
}

// initTracer creates the tracer described by cfg.
func initTracer(cfg *config.Config) (*observability.Tracer, error) {
	tracing := cfg.Observability.Tracing
	return observability.NewTracer(observability.TracerConfig{
		ServiceName:  tracing.ServiceName,
		OTLPEndpoint: tracing.OTLPEndpoint,
		SamplingRate: tracing.SamplingRate,
		Enabled:      tracing.Enabled,
	})
}

// shutdown stops the watcher, drains the server and flushes the tracer.
func shutdown(
	srv *http.Server,
	watcher *config.Watcher,
	tracer *observability.Tracer,
	timeout time.Duration,
	logger observability.Logger,
) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if watcher != nil {
		_ = watcher.Stop()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to stop server gracefully", observability.Error(err))
	}

	if err := tracer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown tracer", observability.Error(err))
	}

	logger.Info("sprout stopped")
}
