package apogo

import (
	"time"

	"github.com/apogo/apogo/logger"
)

// Config holds the required settings for one client instance.
type Config struct {
	// ServerURL is the config service base URL, e.g. "http://apollo.meta:8080".
	ServerURL string
	// AppID identifies the application whose configuration is read.
	AppID string
	// Cluster is the cluster to read releases from. Defaults to
	// "default" when empty.
	Cluster string
	// Secret is the access-key secret used to sign every request.
	// Empty disables signing.
	Secret string
	// IP is reported to the server for grayscale release targeting.
	// Optional.
	IP string
}

type options struct {
	requestTimeout          time.Duration
	pollTimeout             time.Duration
	namespaces              []string
	snapshotDir             string
	updateCacheOnDirectRead bool
	logger                  *logger.Logger
}

// Option adjusts optional client behavior at construction time.
type Option func(*options)

func defaultOptions() options {
	return options{
		namespaces: []string{"application"},
		logger:     logger.Nop(),
	}
}

// WithRequestTimeout bounds a single namespace fetch. Default 15s.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithPollTimeout bounds the long-poll notification call. Must exceed the
// server's hold time. Default 90s.
func WithPollTimeout(d time.Duration) Option {
	return func(o *options) { o.pollTimeout = d }
}

// WithNamespaces sets the precedence-ordered namespace list consulted by
// [Client.Get] and polled by [Client.PollAndUpdate]. Default
// ["application"]. Earlier namespaces win key lookups.
func WithNamespaces(namespaces ...string) Option {
	return func(o *options) {
		if len(namespaces) > 0 {
			o.namespaces = namespaces
		}
	}
}

// WithSnapshotDir enables on-disk snapshots under dir. Snapshots are
// written after successful fetches and read back when the server is
// unreachable. Disabled when unset.
func WithSnapshotDir(dir string) Option {
	return func(o *options) { o.snapshotDir = dir }
}

// WithUpdateCacheOnDirectRead makes [Client.ReadNamespaceWithoutCache]
// store what it fetched. By default a direct read bypasses the cache in
// both directions.
func WithUpdateCacheOnDirectRead() Option {
	return func(o *options) { o.updateCacheOnDirectRead = true }
}

// WithLogger attaches a logger. Default is a no-op logger.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}
