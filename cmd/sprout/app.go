package main

import (
	"fmt"

	"github.com/vyrodovalexey/sprout/internal/config"
	"github.com/vyrodovalexey/sprout/internal/observability"
	"github.com/vyrodovalexey/sprout/internal/router"
)

// loadConfig loads and validates the configuration at path. An empty
// path yields the default configuration.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}

	resolved, err := config.ResolveConfigPath(path)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogger builds the process logger. Flags override the configured
// level and format; output overrides the configured destination when set.
func initLogger(flags *globalFlags, cfg *config.Config, output string) (observability.Logger, error) {
	logCfg := observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if flags.logLevel != "" {
		logCfg.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		logCfg.Format = flags.logFormat
	}
	if output != "" {
		logCfg.Output = output
	}

	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	observability.SetGlobalLogger(logger)
	return logger, nil
}

// buildTable compiles the route table of cfg.
func buildTable(cfg *config.Config, logger observability.Logger) (*router.Table, error) {
	table, err := router.FromConfig(cfg, router.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build route table: %w", err)
	}
	return table, nil
}

// setup loads the configuration, logger and route table shared by the
// offline commands. Their logs go to stderr so stdout carries only the
// command output.
func setup(flags *globalFlags) (*config.Config, observability.Logger, *router.Table, error) {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := initLogger(flags, cfg, "stderr")
	if err != nil {
		return nil, nil, nil, err
	}

	table, err := buildTable(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, table, nil
}
