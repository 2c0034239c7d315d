// SPDX-License-Identifier: Apache-2.0

package config

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants the watcher relies on at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Apollo.ServerURL == "" || cfg.Apollo.AppID == "" {
		return ErrInvalidApolloConfigs
	}

	if cfg.Apollo.RequestTimeout < 0 || cfg.Apollo.PollTimeout < 0 {
		return ErrInvalidApolloConfigs
	}

	if cfg.Watcher.Interval < 0 {
		return ErrInvalidWatcherConfigs
	}

	return nil
}
