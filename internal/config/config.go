package config

import "time"

// Default values applied to fields left empty in a configuration file.
const (
	DefaultDefaultController = "pages"
	DefaultDefaultAction     = "index"
	DefaultDefaultFormat     = "html"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultLogOutput         = "stdout"
	DefaultMetricsPath       = "/metrics"
	DefaultServiceName       = "sprout"
	DefaultServerAddress     = ":8080"
	DefaultReadTimeout       = 10 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second
	DefaultMaxBodySize       = 10 << 20
)

// Config is the root configuration document.
type Config struct {
	Routing       RoutingConfig       `yaml:"routing" json:"routing"`
	Routes        []RouteConfig       `yaml:"routes,omitempty" json:"routes,omitempty"`
	Logging       LoggingConfig       `yaml:"logging" json:"logging"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
	Server        ServerConfig        `yaml:"server" json:"server"`
	Includes      []string            `yaml:"includes,omitempty" json:"includes,omitempty"`
}

// RoutingConfig holds the route table settings. These are the only
// recognized routing keys.
type RoutingConfig struct {
	FrontController   string `yaml:"frontController,omitempty" json:"frontController,omitempty"`
	DefaultController string `yaml:"defaultController,omitempty" json:"defaultController,omitempty"`
	DefaultAction     string `yaml:"defaultAction,omitempty" json:"defaultAction,omitempty"`
	DefaultFormat     string `yaml:"defaultFormat,omitempty" json:"defaultFormat,omitempty"`
}

// RouteConfig describes one route registration. Components keyed by a
// token of the pattern are regex overrides; all others are static values.
type RouteConfig struct {
	Pattern    string            `yaml:"pattern" json:"pattern"`
	Name       string            `yaml:"name,omitempty" json:"name,omitempty"`
	Components map[string]string `yaml:"components,omitempty" json:"components,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// ObservabilityConfig groups metrics and tracing settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Tracing TracingConfig `yaml:"tracing" json:"tracing"`
}

// MetricsConfig configures the Prometheus endpoint of the inspector.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path,omitempty" json:"path,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	OTLPEndpoint string  `yaml:"otlpEndpoint,omitempty" json:"otlpEndpoint,omitempty"`
	ServiceName  string  `yaml:"serviceName,omitempty" json:"serviceName,omitempty"`
	SamplingRate float64 `yaml:"samplingRate" json:"samplingRate"`
}

// ServerConfig configures the inspector HTTP server.
type ServerConfig struct {
	Address         string          `yaml:"address,omitempty" json:"address,omitempty"`
	ReadTimeout     Duration        `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`
	WriteTimeout    Duration        `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`
	ShutdownTimeout Duration        `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`
	MaxBodySize     int64           `yaml:"maxBodySize,omitempty" json:"maxBodySize,omitempty"`
	TrustedProxies  []string        `yaml:"trustedProxies,omitempty" json:"trustedProxies,omitempty"`
	RateLimit       RateLimitConfig `yaml:"rateLimit" json:"rateLimit"`
}

// RateLimitConfig configures token bucket rate limiting of the inspector.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" json:"enabled"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty" json:"requestsPerSecond,omitempty"`
	Burst             int     `yaml:"burst,omitempty" json:"burst,omitempty"`
	PerClient         bool    `yaml:"perClient,omitempty" json:"perClient,omitempty"`
}

// DefaultConfig returns a configuration with every default applied and no
// routes. Only the fallback routes are served from it.
func DefaultConfig() *Config {
	cfg := &Config{
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{Enabled: true},
			Tracing: TracingConfig{SamplingRate: 1.0},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.Routing.DefaultController == "" {
		c.Routing.DefaultController = DefaultDefaultController
	}
	if c.Routing.DefaultAction == "" {
		c.Routing.DefaultAction = DefaultDefaultAction
	}
	if c.Routing.DefaultFormat == "" {
		c.Routing.DefaultFormat = DefaultDefaultFormat
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Logging.Output == "" {
		c.Logging.Output = DefaultLogOutput
	}

	if c.Observability.Metrics.Path == "" {
		c.Observability.Metrics.Path = DefaultMetricsPath
	}
	if c.Observability.Tracing.ServiceName == "" {
		c.Observability.Tracing.ServiceName = DefaultServiceName
	}

	if c.Server.Address == "" {
		c.Server.Address = DefaultServerAddress
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(DefaultReadTimeout)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(DefaultWriteTimeout)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}
	if c.Server.MaxBodySize == 0 {
		c.Server.MaxBodySize = DefaultMaxBodySize
	}
}
