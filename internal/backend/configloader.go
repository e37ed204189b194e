package backend

// ConfigLoader provides key/value access to configuration that is not part of Config,
// such as the client configuration record and its secrets
type ConfigLoader interface {
	// Get retrieves a configuration value by key
	Get(key string) (string, bool)

	// GetWithDefault retrieves a configuration value with a default fallback
	GetWithDefault(key, defaultValue string) string

	// GetBoolWithDefault retrieves a boolean configuration value with default
	GetBoolWithDefault(key string, defaultValue bool) bool
}
