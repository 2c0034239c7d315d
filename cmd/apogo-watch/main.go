// apogo-watch is a headless driver around the apogo client: it loads its
// configuration from env/flags/JSON, restores snapshots, and keeps the
// configured namespaces fresh until interrupted.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/apogo/apogo"
	"github.com/apogo/apogo/internal/config"
	"github.com/apogo/apogo/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("apogo-watch")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	opts := []apogo.Option{
		apogo.WithLogger(log),
		apogo.WithRequestTimeout(cfg.Apollo.RequestTimeout),
		apogo.WithPollTimeout(cfg.Apollo.PollTimeout),
	}
	if len(cfg.Watcher.Namespaces) > 0 {
		opts = append(opts, apogo.WithNamespaces(cfg.Watcher.Namespaces...))
	}
	if cfg.Snapshot.Dir != "" {
		opts = append(opts, apogo.WithSnapshotDir(cfg.Snapshot.Dir))
	}

	client, err := apogo.New(apogo.Config{
		ServerURL: cfg.Apollo.ServerURL,
		AppID:     cfg.Apollo.AppID,
		Cluster:   cfg.Apollo.Cluster,
		Secret:    cfg.Apollo.Secret,
		IP:        cfg.Apollo.IP,
	}, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("create client")
	}

	client.RestoreFromSnapshots()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := apogo.NewWatcher(client, cfg.Watcher.Interval)
	watcher.Start(ctx)
	log.Info().Strs("namespaces", cfg.Watcher.Namespaces).Msg("watching for configuration changes")

	<-ctx.Done()
	watcher.Stop()
	client.SaveSnapshots()
	log.Info().Msg("shut down")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
