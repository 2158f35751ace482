package main

import (
	"context"
	"time"

	"github.com/vyrodovalexey/sprout/internal/config"
	"github.com/vyrodovalexey/sprout/internal/observability"
)

// startConfigWatcher starts the configuration watcher. It returns nil
// when the watcher cannot be created; the inspector keeps serving the
// table it started with.
func startConfigWatcher(
	ctx context.Context,
	ins *inspector,
	configPath string,
	logger observability.Logger,
) *config.Watcher {
	watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
		logger.Info("configuration changed, reloading")
		ins.applyConfig(newCfg)
	},
		config.WithLogger(logger),
		config.WithErrorCallback(func(err error) {
			ins.recordReload(err)
		}),
	)
	if err != nil {
		logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(ctx); err != nil {
		logger.Warn("failed to start config watcher", observability.Error(err))
		return watcher
	}

	return watcher
}

// applyConfig rebuilds the route table from cfg and swaps it in. A table
// that fails to build leaves the current one in place.
//
// Server settings (address, timeouts, trusted proxies, body limit) are
// not reloaded; they require a restart.
func (ins *inspector) applyConfig(cfg *config.Config) {
	start := time.Now()

	table, err := buildTable(cfg, ins.logger)
	if err != nil {
		ins.logger.Error("failed to reload route table", observability.Error(err))
		ins.recordReload(err)
		return
	}

	ins.resolver.SetTable(table)
	ins.metrics.SetTableSize(table.Len())
	ins.recordReload(nil)

	ins.logger.Info("route table reloaded",
		observability.Int("routes", table.Len()),
		observability.Duration("duration", time.Since(start)),
	)
}
