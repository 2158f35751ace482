package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/sprout/internal/health"
	"github.com/vyrodovalexey/sprout/internal/observability"
)

func TestStartConfigWatcher(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, testConfig)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	table, err := buildTable(cfg, observability.NopLogger())
	require.NoError(t, err)

	ins := newInspector(cfg, table, observability.NopLogger(),
		observability.NewMetrics("sprout_reload_test"), observability.NoopTracer())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := startConfigWatcher(ctx, ins, path, observability.NopLogger())
	require.NotNil(t, watcher)
	defer func() { _ = watcher.Stop() }()

	updated := `
routes:
  - pattern: /docs/:page
    name: docs
    components:
      controller: docs
      action: show
logging:
  level: error
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	require.Eventually(t, func() bool {
		_, ok := ins.resolver.Table().Route("docs")
		return ok
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, health.StatusHealthy, ins.checkConfig().Status)

	require.NoError(t, os.WriteFile(path, []byte("routes:\n  - pattern: relative\n"), 0o600))

	require.Eventually(t, func() bool {
		return ins.checkConfig().Status == health.StatusDegraded
	}, 5*time.Second, 20*time.Millisecond)
}

func TestStartConfigWatcher_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig("")
	require.NoError(t, err)

	table, err := buildTable(cfg, nil)
	require.NoError(t, err)

	ins := newInspector(cfg, table, observability.NopLogger(),
		observability.NewMetrics("sprout_reload_missing_test"), observability.NoopTracer())

	watcher := startConfigWatcher(context.Background(), ins, "/nonexistent/dir/sprout.yaml", observability.NopLogger())
	if watcher != nil {
		_ = watcher.Stop()
	}
	assert.Equal(t, health.StatusHealthy, ins.checkConfig().Status)
}
