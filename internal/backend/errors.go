package backend

import "errors"

var (
	// ErrAppNotFound is returned by the registry while no instance is registered
	ErrAppNotFound = errors.New("backend app does not exist")

	// ErrConfigurationError is returned when the service configuration fails validation
	ErrConfigurationError = errors.New("configuration error")
)
