package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/sprout/internal/config"
)

// Not parallel: runServe sets the gin mode and the global logger.
func TestRunServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- runServe(ctx, &globalFlags{
			configPath: writeConfig(t, testConfig),
			logLevel:   "error",
		}, "127.0.0.1:0")
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

// Not parallel: runServe sets the gin mode and the global logger.
func TestRunServe_Errors(t *testing.T) {
	tests := []struct {
		name    string
		flags   *globalFlags
		address string
	}{
		{name: "missing config", flags: &globalFlags{configPath: "/nonexistent/sprout.yaml"}},
		{name: "invalid log level", flags: &globalFlags{logLevel: "chatty"}},
		{name: "invalid address", flags: &globalFlags{logLevel: "error"}, address: "127.0.0.1:99999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runServe(context.Background(), tt.flags, tt.address)
			require.Error(t, err)
		})
	}
}

func TestInitTracer(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	tracer, err := initTracer(cfg)
	require.NoError(t, err)
	require.NotNil(t, tracer)
	assert.NoError(t, tracer.Shutdown(context.Background()))
}
