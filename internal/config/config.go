// SPDX-License-Identifier: Apache-2.0

// Package config loads the apogo-watch configuration by merging values from
// environment variables, command-line flags, and an optional JSON file.
// The library itself does not depend on this package; embedding
// applications construct the client with whatever configuration mechanism
// they already have.
package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for
// apogo-watch. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Apollo holds the connection and credential settings for the remote
	// config service.
	Apollo Apollo `envPrefix:"APOLLO_"`

	// Snapshot holds the on-disk fallback settings.
	Snapshot Snapshot `envPrefix:"SNAPSHOT_"`

	// Watcher holds the poll-loop settings of the watcher binary.
	Watcher Watcher `envPrefix:"WATCHER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config
	// flag.
	JSONFilePath string `env:"CONFIG"`
}

// Apollo holds everything needed to reach one Apollo config service on
// behalf of one application.
type Apollo struct {
	// ServerURL is the config service base URL.
	// Env: APOLLO_SERVER_URL
	ServerURL string `env:"SERVER_URL"`

	// AppID identifies the application whose configuration is read.
	// Env: APOLLO_APP_ID
	AppID string `env:"APP_ID"`

	// Cluster is the cluster to read releases from. Defaults to
	// "default" when empty.
	// Env: APOLLO_CLUSTER
	Cluster string `env:"CLUSTER"`

	// Secret is the access-key secret used to sign every request.
	// Empty disables signing. Must be kept confidential.
	// Env: APOLLO_SECRET
	Secret string `env:"SECRET"`

	// IP is reported to the server for grayscale release targeting.
	// Env: APOLLO_IP
	IP string `env:"IP"`

	// RequestTimeout bounds a single namespace fetch (e.g. "15s").
	// Env: APOLLO_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// PollTimeout bounds the long-poll call and must exceed the server's
	// hold time (e.g. "90s").
	// Env: APOLLO_POLL_TIMEOUT
	PollTimeout time.Duration `env:"POLL_TIMEOUT"`
}

// Snapshot holds the on-disk fallback settings.
type Snapshot struct {
	// Dir is the directory snapshots are written to. Empty disables
	// snapshots.
	// Env: SNAPSHOT_DIR
	Dir string `env:"DIR"`
}

// Watcher holds the poll-loop settings of the watcher binary.
type Watcher struct {
	// Interval is the pause between poll cycles (e.g. "1s").
	// Env: WATCHER_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// Namespaces is the precedence-ordered list of namespaces to watch.
	// Defaults to ["application"].
	// Env: WATCHER_NAMESPACES (comma-separated)
	Namespaces []string `env:"NAMESPACES" envSeparator:","`
}

// GetStructuredConfig loads, merges, and validates the apogo-watch
// configuration from all available sources in the following priority order
// (first non-zero value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
