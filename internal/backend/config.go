package backend

import "time"

// Config represents the main configuration structure
type Config struct {
	AppName string        `yaml:"app_name"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig represents the status server configuration
type ServerConfig struct {
	Port            string        `yaml:"port" default:"8080"`
	Host            string        `yaml:"host" default:"0.0.0.0"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return ErrConfigurationError
	}

	if c.AppName == "" {
		return ErrConfigurationError
	}

	return nil
}
