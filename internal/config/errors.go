package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidApolloConfigs indicates invalid config-server settings
	// (for example, missing server URL or app id, or a negative timeout).
	ErrInvalidApolloConfigs = errors.New("invalid apollo configuration")
	// ErrInvalidWatcherConfigs indicates invalid poll-loop settings
	// (for example, a negative interval).
	ErrInvalidWatcherConfigs = errors.New("invalid watcher configuration")
)
