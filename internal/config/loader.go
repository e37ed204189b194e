package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/0X4227/Arina/internal/backend"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading from YAML files, .env files and environment variables
type Loader struct {
	configPath string
	envPrefix  string
	envDir     string
	raw        map[string]any
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, envPrefix string) *Loader {
	return &Loader{
		configPath: configPath,
		envPrefix:  envPrefix,
		raw:        make(map[string]any),
	}
}

// WithEnvDir sets the directory .env files are read from (the working directory by default)
func (l *Loader) WithEnvDir(dir string) *Loader {
	l.envDir = dir
	return l
}

// Load loads configuration from YAML file and applies environment variable overrides
func (l *Loader) Load() (*backend.Config, error) {
	config := &backend.Config{}

	// Load from YAML file if it exists
	if l.configPath != "" {
		if err := l.loadFromYAML(config); err != nil {
			return nil, fmt.Errorf("failed to load YAML config: %w", err)
		}
	}

	// .env files only fill variables the environment does not already set,
	// except .env.<ENVIRONMENT> and .env.local which override
	if err := l.loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	l.applyDefaults(config)
	l.applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Raw returns the YAML document as a generic tree, for key/value lookups
func (l *Loader) Raw() map[string]any {
	return l.raw
}

// loadFromYAML loads configuration from YAML file
func (l *Loader) loadFromYAML(config *backend.Config) error {
	if _, err := os.Stat(l.configPath); os.IsNotExist(err) {
		return nil // Config file is optional
	}

	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	raw := make(map[string]any)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	l.raw = raw

	return nil
}

// loadEnvFiles loads .env files in order of precedence
func (l *Loader) loadEnvFiles() error {
	if path := l.envPath(".env"); fileExists(path) {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		if path := l.envPath(".env." + env); fileExists(path) {
			if err := godotenv.Overload(path); err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
		}
	}

	if path := l.envPath(".env.local"); fileExists(path) {
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return nil
}

func (l *Loader) envPath(name string) string {
	if l.envDir == "" {
		return name
	}
	return filepath.Join(l.envDir, name)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// applyDefaults applies default values to configuration fields
func (l *Loader) applyDefaults(config *backend.Config) {
	if config.AppName == "" {
		config.AppName = backend.DefaultAppName
	}

	// Server defaults
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 10 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 10 * time.Second
	}
	if config.Server.IdleTimeout == 0 {
		config.Server.IdleTimeout = 120 * time.Second
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 30 * time.Second
	}

	// Logging defaults
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "json"
	}

	// Metrics defaults. Enabled only defaults when the YAML does not set it.
	if !l.hasYAMLKey("metrics", "enabled") {
		config.Metrics.Enabled = true
	}
	if config.Metrics.Path == "" {
		config.Metrics.Path = "/metrics"
	}
}

// hasYAMLKey reports whether the YAML document sets the key at path
func (l *Loader) hasYAMLKey(path ...string) bool {
	current := l.raw
	for i, part := range path {
		value, ok := current[part]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		if current, ok = value.(map[string]any); !ok {
			return false
		}
	}
	return false
}

// applyEnvOverrides applies environment variable overrides to configuration
func (l *Loader) applyEnvOverrides(config *backend.Config) {
	if appName := os.Getenv(l.envPrefix + "_APP_NAME"); appName != "" {
		config.AppName = appName
	}

	// Server overrides
	if port := os.Getenv(l.envPrefix + "_SERVER_PORT"); port != "" {
		config.Server.Port = port
	}
	if host := os.Getenv(l.envPrefix + "_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if timeout := os.Getenv(l.envPrefix + "_SERVER_READ_TIMEOUT"); timeout != "" {
		if duration, err := time.ParseDuration(timeout); err == nil {
			config.Server.ReadTimeout = duration
		}
	}
	if timeout := os.Getenv(l.envPrefix + "_SERVER_WRITE_TIMEOUT"); timeout != "" {
		if duration, err := time.ParseDuration(timeout); err == nil {
			config.Server.WriteTimeout = duration
		}
	}
	if timeout := os.Getenv(l.envPrefix + "_SERVER_SHUTDOWN_TIMEOUT"); timeout != "" {
		if duration, err := time.ParseDuration(timeout); err == nil {
			config.Server.ShutdownTimeout = duration
		}
	}

	// Logging overrides
	if level := os.Getenv(l.envPrefix + "_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv(l.envPrefix + "_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	// Metrics overrides
	if enabled := os.Getenv(l.envPrefix + "_METRICS_ENABLED"); enabled != "" {
		config.Metrics.Enabled = strings.ToLower(enabled) == "true"
	}
	if path := os.Getenv(l.envPrefix + "_METRICS_PATH"); path != "" {
		config.Metrics.Path = path
	}
}
