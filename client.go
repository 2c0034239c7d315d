// SPDX-License-Identifier: Apache-2.0

// Package apogo is a client for Apollo-style configuration services. It
// fetches namespaces over HTTP, keeps them in an in-memory cache backed by
// optional on-disk snapshots, and detects remote changes through the
// server's long-poll notification endpoint.
//
// The client performs no background work on its own: each call does exactly
// one unit of work and returns. Applications that want continuous updates
// run a [Watcher], or call [Client.PollAndUpdate] from their own scheduler.
//
// Methods on one Client are not safe for unsynchronized concurrent use;
// the embedding application coordinates access. The internal cache is
// still updated atomically per namespace, so misuse can lose a write but
// never exposes a half-updated namespace.
package apogo

import (
	"context"
	"fmt"

	"github.com/apogo/apogo/internal/adapter"
	"github.com/apogo/apogo/internal/cache"
	"github.com/apogo/apogo/models"
)

// Client is the public surface of the library: remote reads, cached reads,
// and one-shot poll cycles over a fixed set of namespaces.
type Client struct {
	cfg  Config
	opts options

	adapter   adapter.ConfigServerAdapter
	cache     *cache.Cache
	snapshots *cache.SnapshotStore
}

// New constructs a Client for one application on one config service.
// Returns an error if cfg.ServerURL or cfg.AppID is missing or the server
// URL cannot be parsed. A snapshot directory that cannot be created is
// logged and disables snapshots; it never fails construction.
func New(cfg Config, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Cluster == "" {
		cfg.Cluster = "default"
	}

	serverAdapter, err := adapter.NewApolloAdapter(adapter.Config{
		ServerURL:      cfg.ServerURL,
		AppID:          cfg.AppID,
		Cluster:        cfg.Cluster,
		Secret:         cfg.Secret,
		IP:             cfg.IP,
		RequestTimeout: o.requestTimeout,
		PollTimeout:    o.pollTimeout,
	}, o.logger)
	if err != nil {
		return nil, fmt.Errorf("create config server adapter: %w", err)
	}

	c := &Client{
		cfg:     cfg,
		opts:    o,
		adapter: serverAdapter,
		cache:   cache.New(),
	}

	if o.snapshotDir != "" {
		snapshots, err := cache.NewSnapshotStore(o.snapshotDir)
		if err != nil {
			o.logger.Warn().Err(err).Str("dir", o.snapshotDir).Msg("snapshots disabled")
		} else {
			c.snapshots = snapshots
		}
	}

	return c, nil
}

// Get returns the value of key from the first namespace defining it, in
// precedence order. The namespaces arguments override the configured list
// for this lookup. Namespaces not yet cached are fetch-filled first (with
// snapshot fallback); a namespace that cannot be filled at all is skipped.
// Returns ErrKeyNotFound when no namespace defines the key.
func (c *Client) Get(ctx context.Context, key string, namespaces ...string) (string, error) {
	if len(namespaces) == 0 {
		namespaces = c.opts.namespaces
	}

	for _, name := range namespaces {
		ns, err := c.ReadNamespaceWithCache(ctx, name, models.Properties)
		if err != nil {
			c.opts.logger.Warn().Err(err).Str("namespace", name).Msg("skip unreadable namespace in lookup")
			continue
		}
		if v, ok := ns.Value(key); ok {
			return v, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrKeyNotFound, key)
}

// ReadNamespaceWithCache returns the cached namespace if one is present.
// On a cache miss it fetches from the authoritative endpoint, stores the
// result, and writes a snapshot. If the fetch fails and a snapshot exists,
// the snapshot is served (and cached) instead; otherwise the fetch error
// is returned and the cache is left untouched.
func (c *Client) ReadNamespaceWithCache(ctx context.Context, name string, nsType models.NamespaceType) (models.Namespace, error) {
	key := cache.Key(name, nsType)
	if entry, ok := c.cache.Get(key); ok {
		return entry.Namespace, nil
	}

	ns, err := c.adapter.FetchNamespace(ctx, name, nsType)
	if err != nil {
		if entry, ok := c.loadSnapshot(key); ok {
			c.opts.logger.Warn().Err(err).Str("namespace", name).Msg("config server unreachable, serving snapshot")
			c.cache.Put(key, entry)
			return entry.Namespace, nil
		}
		return models.Namespace{}, err
	}

	entry := cache.Entry{Namespace: ns, NotificationID: c.cache.NotificationID(key)}
	c.cache.Put(key, entry)
	c.saveSnapshot(key, entry)

	return ns, nil
}

// ReadNamespaceWithoutCache always fetches from the authoritative endpoint.
// It neither consults nor updates the cache unless the client was built
// with WithUpdateCacheOnDirectRead, in which case the fetched release is
// stored like any other.
func (c *Client) ReadNamespaceWithoutCache(ctx context.Context, name string, nsType models.NamespaceType) (models.Namespace, error) {
	ns, err := c.adapter.FetchNamespace(ctx, name, nsType)
	if err != nil {
		return models.Namespace{}, err
	}

	if c.opts.updateCacheOnDirectRead {
		key := cache.Key(name, nsType)
		entry := cache.Entry{Namespace: ns, NotificationID: c.cache.NotificationID(key)}
		c.cache.Put(key, entry)
		c.saveSnapshot(key, entry)
	}

	return ns, nil
}

// ReadNamespaceFromServerCache reads the namespace's key/value mapping from
// the server-side cache endpoint. Cheap enough for tight polling but may
// lag the authoritative state by about a second. Bypasses the local cache.
func (c *Client) ReadNamespaceFromServerCache(ctx context.Context, name string, nsType models.NamespaceType) (models.Configurations, error) {
	return c.adapter.FetchNamespaceCached(ctx, name, nsType)
}

// PollAndUpdate runs one poll-and-maybe-refresh cycle over the configured
// namespace list: one long-poll call, then a re-fetch of exactly the
// namespaces the server reported as changed. An unchanged poll returns nil
// and leaves the cache untouched. Scheduling and retries belong to the
// caller (see [Watcher]).
func (c *Client) PollAndUpdate(ctx context.Context) error {
	targets := make([]watchTarget, 0, len(c.opts.namespaces))
	for _, name := range c.opts.namespaces {
		targets = append(targets, watchTarget{name: name, nsType: models.Properties})
	}
	return c.pollAndUpdate(ctx, targets)
}

// PollNamespace is PollAndUpdate for a single namespace of any type.
func (c *Client) PollNamespace(ctx context.Context, name string, nsType models.NamespaceType) error {
	return c.pollAndUpdate(ctx, []watchTarget{{name: name, nsType: nsType}})
}

// watchTarget is one namespace the poll cycle watches. Notifications are
// keyed by wire name, so the type is carried alongside the local name.
type watchTarget struct {
	name   string
	nsType models.NamespaceType
}

func (c *Client) pollAndUpdate(ctx context.Context, targets []watchTarget) error {
	known := make([]models.Notification, 0, len(targets))
	byWireName := make(map[string]watchTarget, len(targets))
	for _, target := range targets {
		wireName := models.WireName(target.name, target.nsType)
		byWireName[wireName] = target
		known = append(known, models.Notification{
			NamespaceName:  wireName,
			NotificationID: c.cache.NotificationID(cache.Key(target.name, target.nsType)),
		})
	}

	changed, err := c.adapter.PollNotifications(ctx, known)
	if err != nil {
		return fmt.Errorf("poll cycle: %w", err)
	}
	if len(changed) == 0 {
		return nil
	}

	for _, notification := range changed {
		target, ok := byWireName[notification.NamespaceName]
		if !ok {
			c.opts.logger.Warn().Str("namespace", notification.NamespaceName).Msg("notification for unwatched namespace")
			continue
		}
		if err := c.refresh(ctx, target, notification.NotificationID); err != nil {
			return err
		}
	}
	return nil
}

// refresh re-fetches one changed namespace and stores it under the
// notification id that announced the change. Updates whose id does not move
// the cached id forward are dropped: equal ids are duplicates, lower ids
// mean the server answered with something older than what we hold, which
// is a consistency error worth logging but never worth overwriting newer
// state with.
func (c *Client) refresh(ctx context.Context, target watchTarget, notificationID int64) error {
	key := cache.Key(target.name, target.nsType)
	current := c.cache.NotificationID(key)

	if notificationID <= current {
		if notificationID < current {
			c.opts.logger.Error().
				Str("namespace", target.name).
				Int64("cached_id", current).
				Int64("server_id", notificationID).
				Msg("cache ahead of server notification id")
		}
		return nil
	}

	ns, err := c.adapter.FetchNamespace(ctx, target.name, target.nsType)
	if err != nil {
		return fmt.Errorf("refresh namespace %q: %w", target.name, err)
	}

	entry := cache.Entry{Namespace: ns, NotificationID: notificationID}
	c.cache.Put(key, entry)
	c.saveSnapshot(key, entry)

	c.opts.logger.Info().
		Str("namespace", target.name).
		Int64("notification_id", notificationID).
		Str("release_key", ns.ReleaseKey).
		Msg("namespace updated")
	return nil
}

// RestoreFromSnapshots loads every snapshot on disk into the cache, skipping
// namespaces that already have a cached entry. Returns the number of
// entries restored. Useful at startup when the server may be down.
func (c *Client) RestoreFromSnapshots() int {
	if c.snapshots == nil {
		return 0
	}

	restored := 0
	for key, entry := range c.snapshots.LoadAll() {
		if _, ok := c.cache.Get(key); ok {
			continue
		}
		c.cache.Put(key, entry)
		restored++
	}

	if restored > 0 {
		c.opts.logger.Info().Int("namespaces", restored).Msg("cache restored from snapshots")
	}
	return restored
}

// SaveSnapshots writes every cached namespace to disk. Failures are logged
// per namespace and do not stop the others.
func (c *Client) SaveSnapshots() {
	if c.snapshots == nil {
		return
	}
	for key, entry := range c.cache.Entries() {
		c.saveSnapshot(key, entry)
	}
}

func (c *Client) saveSnapshot(key string, entry cache.Entry) {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.Save(key, entry); err != nil {
		c.opts.logger.Warn().Err(err).Str("namespace", key).Msg("snapshot write failed")
	}
}

func (c *Client) loadSnapshot(key string) (cache.Entry, bool) {
	if c.snapshots == nil {
		return cache.Entry{}, false
	}
	entry, err := c.snapshots.Load(key)
	if err != nil {
		return cache.Entry{}, false
	}
	return entry, true
}
