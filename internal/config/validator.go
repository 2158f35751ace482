package config

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/vyrodovalexey/sprout/internal/observability"
	"github.com/vyrodovalexey/sprout/internal/util"
)

// Validator validates configuration documents.
type Validator struct {
	errors *util.ValidationError
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateConfig validates cfg. It returns a *util.ValidationError listing
// every offending field, or nil.
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = util.NewValidationError("invalid configuration")

	if cfg == nil {
		v.addError("", "configuration is nil")
		return v.errors
	}

	v.validateRouting(&cfg.Routing)
	v.validateRoutes(cfg.Routes)
	v.validateLogging(&cfg.Logging)
	v.validateObservability(&cfg.Observability)
	v.validateServer(&cfg.Server)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) validateRouting(routing *RoutingConfig) {
	if strings.ContainsAny(routing.FrontController, "?#") {
		v.addError("routing.frontController", "frontController must not contain '?' or '#'")
	}
	if strings.Contains(routing.DefaultFormat, "/") {
		v.addError("routing.defaultFormat", "defaultFormat must not contain '/'")
	}
}

func (v *Validator) validateRoutes(routes []RouteConfig) {
	for i := range routes {
		route := &routes[i]
		path := fmt.Sprintf("routes[%d]", i)

		switch {
		case route.Pattern == "":
			v.addError(path+".pattern", "pattern is required")
		case !strings.HasPrefix(route.Pattern, "/"):
			v.addError(path+".pattern", "pattern must start with /")
		}

		for key := range route.Components {
			if strings.TrimSpace(key) == "" {
				v.addError(path+".components", "component keys must not be empty")
			}
		}
	}
}

func (v *Validator) validateLogging(logging *LoggingConfig) {
	if logging.Level != "" && !observability.ValidLogLevel(logging.Level) {
		v.addError("logging.level", fmt.Sprintf("invalid log level: %s", logging.Level))
	}

	validFormats := map[string]bool{
		"":        true,
		"json":    true,
		"console": true,
	}
	if !validFormats[strings.ToLower(logging.Format)] {
		v.addError("logging.format", fmt.Sprintf("invalid log format: %s", logging.Format))
	}
}

func (v *Validator) validateObservability(obs *ObservabilityConfig) {
	if obs.Metrics.Path != "" && !strings.HasPrefix(obs.Metrics.Path, "/") {
		v.addError("observability.metrics.path", "metrics path must start with /")
	}

	if obs.Tracing.SamplingRate < 0 || obs.Tracing.SamplingRate > 1 {
		v.addError("observability.tracing.samplingRate", "samplingRate must be between 0 and 1")
	}
}

func (v *Validator) validateServer(server *ServerConfig) {
	if server.ReadTimeout < 0 {
		v.addError("server.readTimeout", "readTimeout cannot be negative")
	}
	if server.WriteTimeout < 0 {
		v.addError("server.writeTimeout", "writeTimeout cannot be negative")
	}
	if server.ShutdownTimeout < 0 {
		v.addError("server.shutdownTimeout", "shutdownTimeout cannot be negative")
	}
	if server.MaxBodySize < 0 {
		v.addError("server.maxBodySize", "maxBodySize cannot be negative")
	}
	if server.RateLimit.Enabled {
		if server.RateLimit.RequestsPerSecond <= 0 {
			v.addError("server.rateLimit.requestsPerSecond", "requestsPerSecond must be positive")
		}
		if server.RateLimit.Burst < 0 {
			v.addError("server.rateLimit.burst", "burst cannot be negative")
		}
	}
	for i, proxy := range server.TrustedProxies {
		if _, err := netip.ParsePrefix(proxy); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(proxy); err != nil {
			v.addError(fmt.Sprintf("server.trustedProxies[%d]", i),
				fmt.Sprintf("invalid address or CIDR: %s", proxy))
		}
	}
}

func (v *Validator) addError(path, message string) {
	if path == "" {
		path = "config"
	}
	v.errors.AddField(path, message)
}
