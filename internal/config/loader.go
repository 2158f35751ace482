package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

const escapedDollar = "\x00ESCAPED_DOLLAR\x00"

// Loader handles configuration loading from files and readers.
type Loader struct {
	loadedFiles map[string]bool
	maxIncludes int
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		loadedFiles: make(map[string]bool),
		maxIncludes: 10,
	}
}

// LoadConfig loads configuration from a file path, following includes.
func LoadConfig(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// LoadConfigFromReader loads configuration from an io.Reader. Includes are
// not followed.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	return NewLoader().LoadFromReader(r)
}

// Load loads configuration from a file path. Routes of included files are
// registered before the routes of the including file, in include order.
func (l *Loader) Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	cfg, err := l.load(absPath, 0)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Files returns the absolute paths of every file read by Load, including
// included files, sorted.
func (l *Loader) Files() []string {
	files := make([]string, 0, len(l.loadedFiles))
	for file := range l.loadedFiles {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// LoadFromReader loads configuration from an io.Reader.
func (l *Loader) LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := l.parseConfig(data)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func (l *Loader) load(path string, depth int) (*Config, error) {
	if l.loadedFiles[path] {
		return nil, fmt.Errorf("circular include detected: %s", path)
	}
	if depth > l.maxIncludes {
		return nil, fmt.Errorf("maximum include depth (%d) exceeded", l.maxIncludes)
	}
	l.loadedFiles[path] = true

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := l.parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	included := make([]*Config, 0, len(cfg.Includes)+1)
	for _, inc := range cfg.Includes {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(path), inc)
		}
		files, err := expandInclude(filepath.Clean(inc))
		if err != nil {
			return nil, fmt.Errorf("failed to expand include %s: %w", inc, err)
		}
		for _, file := range files {
			incCfg, err := l.load(file, depth+1)
			if err != nil {
				return nil, fmt.Errorf("failed to load include %s: %w", file, err)
			}
			included = append(included, incCfg)
		}
	}

	if len(included) == 0 {
		return cfg, nil
	}
	return MergeConfigs(append(included, cfg)...), nil
}

// expandInclude returns the files named by an include entry. Glob
// patterns, including "**", expand to their sorted matches and may match
// nothing; plain paths are returned as is.
func expandInclude(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// parseConfig parses YAML data on top of an empty document whose metrics
// and sampling defaults are preset, so absent keys keep them.
func (l *Loader) parseConfig(data []byte) (*Config, error) {
	content := l.substituteEnvVars(string(data))

	cfg := &Config{
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{Enabled: true},
			Tracing: TracingConfig{SamplingRate: 1.0},
		},
	}
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment variable values. "$$" yields a literal "$".
func (l *Loader) substituteEnvVars(content string) string {
	content = strings.ReplaceAll(content, "$$", escapedDollar)

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		if value, exists := os.LookupEnv(submatches[1]); exists {
			return value
		}
		if len(submatches) >= 3 {
			return submatches[2]
		}
		return ""
	})

	return strings.ReplaceAll(result, escapedDollar, "$")
}

// MergeConfigs merges configurations in order. Later documents override
// non-empty scalar settings; routes are concatenated.
func MergeConfigs(configs ...*Config) *Config {
	if len(configs) == 0 {
		return DefaultConfig()
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = mergeTwo(result, configs[i])
	}
	return result
}

func mergeTwo(base, override *Config) *Config {
	if override == nil {
		return base
	}
	if base == nil {
		return override
	}

	result := *base
	result.Routes = append(append([]RouteConfig{}, base.Routes...), override.Routes...)
	result.Includes = nil

	mergeString(&result.Routing.FrontController, override.Routing.FrontController)
	mergeString(&result.Routing.DefaultController, override.Routing.DefaultController)
	mergeString(&result.Routing.DefaultAction, override.Routing.DefaultAction)
	mergeString(&result.Routing.DefaultFormat, override.Routing.DefaultFormat)

	mergeString(&result.Logging.Level, override.Logging.Level)
	mergeString(&result.Logging.Format, override.Logging.Format)
	mergeString(&result.Logging.Output, override.Logging.Output)

	result.Observability = override.Observability
	if result.Observability.Metrics.Path == "" {
		result.Observability.Metrics.Path = base.Observability.Metrics.Path
	}

	mergeString(&result.Server.Address, override.Server.Address)
	if override.Server.ReadTimeout != 0 {
		result.Server.ReadTimeout = override.Server.ReadTimeout
	}
	if override.Server.WriteTimeout != 0 {
		result.Server.WriteTimeout = override.Server.WriteTimeout
	}
	if override.Server.ShutdownTimeout != 0 {
		result.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}
	if override.Server.MaxBodySize != 0 {
		result.Server.MaxBodySize = override.Server.MaxBodySize
	}
	if len(override.Server.TrustedProxies) > 0 {
		result.Server.TrustedProxies = override.Server.TrustedProxies
	}
	if override.Server.RateLimit.Enabled {
		result.Server.RateLimit = override.Server.RateLimit
	}

	return &result
}

func mergeString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// ResolveConfigPath resolves a configuration file path, checking common
// locations.
func ResolveConfigPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("config file not found: %s", path)
	}

	if _, err := os.Stat(path); err == nil {
		return filepath.Abs(path)
	}

	commonPaths := []string{
		filepath.Join("configs", path),
		filepath.Join(string(filepath.Separator), "etc", "sprout", path),
		filepath.Join(os.Getenv("HOME"), ".sprout", path),
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("config file not found: %s", path)
}
