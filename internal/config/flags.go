package config

import (
	"flag"
	"strings"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-server-url config server base URL
//	-app-id application id
//	-cluster cluster name
//	-secret access-key secret used for request signing
//	-ip client ip reported for grayscale targeting
//	-request-timeout namespace fetch timeout (e.g., "15s")
//	-poll-timeout long-poll timeout (e.g., "90s")
//	-snapshot-dir directory for on-disk snapshots
//	-interval pause between poll cycles (e.g., "1s")
//	-namespaces comma-separated namespace precedence list
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var serverURL string
	var appID string
	var cluster string
	var secret string
	var ip string
	var requestTimeout time.Duration
	var pollTimeout time.Duration
	var snapshotDir string
	var interval time.Duration
	var namespaces string
	var jsonConfigPath string

	flag.StringVar(&serverURL, "server-url", "", "Config server base URL")
	flag.StringVar(&appID, "app-id", "", "Application id")
	flag.StringVar(&cluster, "cluster", "", "Cluster name")
	flag.StringVar(&secret, "secret", "", "Access-key secret")
	flag.StringVar(&ip, "ip", "", "Client IP for grayscale targeting")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Namespace fetch timeout (e.g., 15s)")
	flag.DurationVar(&pollTimeout, "poll-timeout", 0, "Long-poll timeout (e.g., 90s)")
	flag.StringVar(&snapshotDir, "snapshot-dir", "", "Snapshot directory")
	flag.DurationVar(&interval, "interval", 0, "Pause between poll cycles (e.g., 1s)")
	flag.StringVar(&namespaces, "namespaces", "", "Comma-separated namespace list")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Apollo: Apollo{
			ServerURL:      serverURL,
			AppID:          appID,
			Cluster:        cluster,
			Secret:         secret,
			IP:             ip,
			RequestTimeout: requestTimeout,
			PollTimeout:    pollTimeout,
		},
		Snapshot: Snapshot{
			Dir: snapshotDir,
		},
		Watcher: Watcher{
			Interval:   interval,
			Namespaces: splitNamespaces(namespaces),
		},
		JSONFilePath: jsonConfigPath,
	}
}

func splitNamespaces(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
