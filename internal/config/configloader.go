package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvConfigLoader implements backend.ConfigLoader over environment variables with a YAML fallback.
// The key "firebase.project_id" is looked up as PREFIX_FIREBASE_PROJECT_ID, then as
// firebase: {project_id: ...} in the YAML tree.
type EnvConfigLoader struct {
	envPrefix string
	yamlData  map[string]any
}

// NewEnvConfigLoader creates a new environment-based config loader
func NewEnvConfigLoader(envPrefix string, yamlData map[string]any) *EnvConfigLoader {
	if yamlData == nil {
		yamlData = make(map[string]any)
	}

	return &EnvConfigLoader{
		envPrefix: envPrefix,
		yamlData:  yamlData,
	}
}

// Get retrieves a configuration value by key
func (e *EnvConfigLoader) Get(key string) (string, bool) {
	if value := os.Getenv(e.buildEnvKey(key)); value != "" {
		return value, true
	}

	if value := e.getFromYAML(key); value != "" {
		return value, true
	}

	return "", false
}

// GetWithDefault retrieves a configuration value with a default fallback
func (e *EnvConfigLoader) GetWithDefault(key, defaultValue string) string {
	if value, ok := e.Get(key); ok {
		return value
	}
	return defaultValue
}

// GetBoolWithDefault retrieves a boolean configuration value with default
func (e *EnvConfigLoader) GetBoolWithDefault(key string, defaultValue bool) bool {
	value, ok := e.Get(key)
	if !ok {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

// buildEnvKey builds an environment variable key from a config key
func (e *EnvConfigLoader) buildEnvKey(key string) string {
	envKey := strings.ReplaceAll(key, ".", "_")
	envKey = strings.ReplaceAll(envKey, "-", "_")
	envKey = strings.ToUpper(envKey)

	if e.envPrefix != "" {
		return e.envPrefix + "_" + envKey
	}

	return envKey
}

// getFromYAML retrieves a scalar from YAML data using dot notation
func (e *EnvConfigLoader) getFromYAML(key string) string {
	parts := strings.Split(key, ".")
	current := e.yamlData

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			return ""
		}
		current = next
	}

	switch value := current[parts[len(parts)-1]].(type) {
	case string:
		return value
	case int, bool, float64:
		return fmt.Sprint(value)
	default:
		return ""
	}
}
