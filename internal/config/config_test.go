package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Empty(t, cfg.Routing.FrontController)
	assert.Equal(t, "pages", cfg.Routing.DefaultController)
	assert.Equal(t, "index", cfg.Routing.DefaultAction)
	assert.Equal(t, "html", cfg.Routing.DefaultFormat)
	assert.Empty(t, cfg.Routes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.True(t, cfg.Observability.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Observability.Metrics.Path)
	assert.False(t, cfg.Observability.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Observability.Tracing.SamplingRate)
	assert.Equal(t, "sprout", cfg.Observability.Tracing.ServiceName)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, int64(DefaultMaxBodySize), cfg.Server.MaxBodySize)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestConfig_ApplyDefaults_KeepsValues(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Routing: RoutingConfig{DefaultController: "home", DefaultFormat: "json"},
		Server:  ServerConfig{Address: ":1", ReadTimeout: Duration(time.Second)},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "home", cfg.Routing.DefaultController)
	assert.Equal(t, "index", cfg.Routing.DefaultAction)
	assert.Equal(t, "json", cfg.Routing.DefaultFormat)
	assert.Equal(t, ":1", cfg.Server.Address)
	assert.Equal(t, time.Second, cfg.Server.ReadTimeout.Duration())
}

func TestDuration(t *testing.T) {
	t.Parallel()

	var holder struct {
		Timeout Duration `yaml:"timeout" json:"timeout"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("timeout: 1m30s"), &holder))
	assert.Equal(t, 90*time.Second, holder.Timeout.Duration())

	require.NoError(t, yaml.Unmarshal([]byte(`timeout: ""`), &holder))
	assert.Zero(t, holder.Timeout)

	assert.Error(t, yaml.Unmarshal([]byte("timeout: later"), &holder))
	assert.Error(t, yaml.Unmarshal([]byte("timeout: [1s]"), &holder))

	out, err := yaml.Marshal(struct {
		Timeout Duration `yaml:"timeout"`
	}{Duration(5 * time.Second)})
	require.NoError(t, err)
	assert.Equal(t, "timeout: 5s\n", string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"timeout":"250ms"}`), &holder))
	assert.Equal(t, 250*time.Millisecond, holder.Timeout.Duration())

	require.NoError(t, json.Unmarshal([]byte(`{"timeout":null}`), &holder))
	assert.Zero(t, holder.Timeout)

	data, err := json.Marshal(Duration(2 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(data))
}
