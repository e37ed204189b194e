package backend

import "time"

// Metrics interface for monitoring the bootstrapper
type Metrics interface {
	// IncBootstrapAttempts counts EnsureInitialized calls by result: "created", "reused", "failure"
	IncBootstrapAttempts(result string)
	IncAppConstructions()
	ObserveBootstrapDuration(duration time.Duration)

	// IncHandleRequests counts accessor calls by service ("database", "storage", "auth") and result
	IncHandleRequests(service string, result string)
	SetRegisteredApps(count int)
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}
