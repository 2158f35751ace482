package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfigYAML = `
routing:
  frontController: /index.php
  defaultController: pages
  defaultAction: index
  defaultFormat: html
routes:
  - pattern: /dashboard
    name: dashboard
    components: {controller: users, action: dashboard}
  - pattern: /profile/:username
    components: {controller: users, action: view}
  - pattern: /store/products/:sku:format
    name: view_product
    components:
      controller: products
      action: find_by_sku
      sku: '([a-zA-Z]{3}-[0-9]{12})'
logging:
  level: debug
  format: console
observability:
  metrics:
    enabled: false
    path: /stats
  tracing:
    enabled: true
    otlpEndpoint: localhost:4317
    samplingRate: 0.5
server:
  address: ":9090"
  readTimeout: 5s
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewLoader(t *testing.T) {
	t.Parallel()

	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.loadedFiles)
	assert.Equal(t, 10, loader.maxIncludes)
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "sprout.yaml", fullConfigYAML)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/index.php", cfg.Routing.FrontController)
	require.Len(t, cfg.Routes, 3)
	assert.Equal(t, "dashboard", cfg.Routes[0].Name)
	assert.Equal(t, "/profile/:username", cfg.Routes[1].Pattern)
	assert.Empty(t, cfg.Routes[1].Name)
	assert.Equal(t, "([a-zA-Z]{3}-[0-9]{12})", cfg.Routes[2].Components["sku"])

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, DefaultLogOutput, cfg.Logging.Output)

	assert.False(t, cfg.Observability.Metrics.Enabled)
	assert.Equal(t, "/stats", cfg.Observability.Metrics.Path)
	assert.True(t, cfg.Observability.Tracing.Enabled)
	assert.Equal(t, 0.5, cfg.Observability.Tracing.SamplingRate)
	assert.Equal(t, DefaultServiceName, cfg.Observability.Tracing.ServiceName)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Duration())
	assert.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout.Duration())
}

func TestLoader_Load_Defaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "empty.yaml", "routes: []\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultDefaultController, cfg.Routing.DefaultController)
	assert.Equal(t, DefaultDefaultAction, cfg.Routing.DefaultAction)
	assert.Equal(t, DefaultDefaultFormat, cfg.Routing.DefaultFormat)
	assert.True(t, cfg.Observability.Metrics.Enabled)
	assert.Equal(t, DefaultMetricsPath, cfg.Observability.Metrics.Path)
	assert.Equal(t, 1.0, cfg.Observability.Tracing.SamplingRate)
	assert.Equal(t, DefaultServerAddress, cfg.Server.Address)
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadConfigFromReader(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFromReader(strings.NewReader(fullConfigYAML))
	require.NoError(t, err)
	assert.Len(t, cfg.Routes, 3)
	assert.Equal(t, ":9090", cfg.Server.Address)
}

func TestLoader_ParseConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := LoadConfigFromReader(strings.NewReader("routes: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")

	_, err = LoadConfigFromReader(strings.NewReader("server:\n  readTimeout: soon\n"))
	assert.Error(t, err)
}

func TestLoader_SubstituteEnvVars(t *testing.T) {
	t.Setenv("SPROUT_TEST_FRONT", "/app.php")
	t.Setenv("SPROUT_TEST_EMPTY", "")

	loader := NewLoader()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"set variable", "fc: ${SPROUT_TEST_FRONT}", "fc: /app.php"},
		{"default unused", "fc: ${SPROUT_TEST_FRONT:-/x.php}", "fc: /app.php"},
		{"default used", "fc: ${SPROUT_TEST_UNSET:-/x.php}", "fc: /x.php"},
		{"unset without default", "fc: ${SPROUT_TEST_UNSET}", "fc: "},
		{"set but empty", "fc: ${SPROUT_TEST_EMPTY:-/x.php}", "fc: "},
		{"escaped dollar", "price: $$5", "price: $5"},
		{"no variables", "plain: text", "plain: text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loader.substituteEnvVars(tt.input))
		})
	}
}

func TestLoader_Includes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "routes/admin.yaml", `
routes:
  - pattern: /admin
    name: admin
    components: {controller: admin, action: index}
logging:
  level: warn
`)
	path := writeFile(t, dir, "sprout.yaml", `
includes:
  - routes/admin.yaml
routes:
  - pattern: /dashboard
    name: dashboard
logging:
  format: console
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Len(t, cfg.Routes, 2)
	assert.Equal(t, "admin", cfg.Routes[0].Name)
	assert.Equal(t, "dashboard", cfg.Routes[1].Name)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Includes)
}

func TestLoader_Includes_Glob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "routes/b.yaml", "routes:\n  - pattern: /b\n    name: b\n")
	writeFile(t, dir, "routes/a.yaml", "routes:\n  - pattern: /a\n    name: a\n")
	writeFile(t, dir, "routes/nested/c.yaml", "routes:\n  - pattern: /c\n    name: c\n")
	path := writeFile(t, dir, "sprout.yaml", `
includes:
  - "routes/**/*.yaml"
  - "optional/*.yaml"
routes:
  - pattern: /main
    name: main
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	names := make([]string, 0, len(cfg.Routes))
	for _, route := range cfg.Routes {
		names = append(names, route.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "main"}, names)
}

func TestExpandInclude(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "x.yaml", "")
	writeFile(t, dir, "sub/y.yaml", "")

	files, err := expandInclude(filepath.Join(dir, "plain.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "plain.yaml")}, files)

	files, err = expandInclude(filepath.Join(dir, "*.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "x.yaml")}, files)

	files, err = expandInclude(filepath.Join(dir, "**", "*.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sub", "y.yaml"), filepath.Join(dir, "x.yaml")}, files)
}

func TestLoader_Includes_Circular(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "includes: [a.yaml]\n")
	path := writeFile(t, dir, "a.yaml", "includes: [b.yaml]\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular include")
}

func TestLoader_Includes_Missing(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "a.yaml", "includes: [missing.yaml]\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestMergeConfigs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultConfig(), MergeConfigs())

	base := &Config{
		Routing: RoutingConfig{DefaultController: "home"},
		Routes:  []RouteConfig{{Pattern: "/a"}},
		Server:  ServerConfig{Address: ":1", ReadTimeout: Duration(time.Second)},
	}
	override := &Config{
		Routing: RoutingConfig{DefaultAction: "show"},
		Routes:  []RouteConfig{{Pattern: "/b"}},
		Server: ServerConfig{
			Address:        ":2",
			TrustedProxies: []string{"10.0.0.0/8"},
			RateLimit:      RateLimitConfig{Enabled: true, RequestsPerSecond: 5},
		},
	}

	merged := MergeConfigs(base, override, nil)

	assert.Equal(t, "home", merged.Routing.DefaultController)
	assert.Equal(t, "show", merged.Routing.DefaultAction)
	require.Len(t, merged.Routes, 2)
	assert.Equal(t, "/a", merged.Routes[0].Pattern)
	assert.Equal(t, "/b", merged.Routes[1].Pattern)
	assert.Equal(t, ":2", merged.Server.Address)
	assert.Equal(t, time.Second, merged.Server.ReadTimeout.Duration())
	assert.Equal(t, []string{"10.0.0.0/8"}, merged.Server.TrustedProxies)
	assert.True(t, merged.Server.RateLimit.Enabled)

	// Inputs are untouched.
	assert.Len(t, base.Routes, 1)
}

func TestResolveConfigPath(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "sprout.yaml", "routes: []\n")

	resolved, err := ResolveConfigPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	_, err = ResolveConfigPath("/definitely/not/here.yaml")
	assert.Error(t, err)

	_, err = ResolveConfigPath("definitely-not-here.yaml")
	assert.Error(t, err)
}
