// Package cache holds the client's local view of every namespace it has
// read: an in-memory map of whole-value entries plus an on-disk snapshot
// store used as a cold-start fallback.
package cache

import (
	"sync"
	"time"

	"github.com/apogo/apogo/models"
)

// Entry is the locally held state of one namespace: the last fetched
// release, the notification id it corresponds to, and when it was fetched.
type Entry struct {
	// Namespace is the last known release of the namespace.
	Namespace models.Namespace

	// NotificationID is the server notification id the entry was fetched
	// under. InitialNotificationID for entries never seen by the poller
	// (e.g. restored from a snapshot or read outside a poll cycle).
	NotificationID int64

	// FetchedAt is when the entry was last written.
	FetchedAt time.Time
}

// Key is the cache key for a namespace: "name.type", with the properties
// default spelled out, so namespaces sharing a name but not a type never
// collide.
func Key(name string, nsType models.NamespaceType) string {
	if nsType == "" {
		nsType = models.Properties
	}
	return name + "." + string(nsType)
}

// Cache is an in-memory namespace cache. Entries are replaced whole, so a
// reader never observes a partially updated namespace. Entries are kept
// until overwritten; there is no expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Get returns the entry stored under key and whether one is present.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Put stores entry under key, overwriting any previous value and stamping
// FetchedAt when the caller left it zero. Writing the same entry twice is
// a no-op beyond the timestamp.
func (c *Cache) Put(key string, entry Entry) {
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

// NotificationID returns the notification id cached under key, or
// models.InitialNotificationID when the namespace has never been stored.
func (c *Cache) NotificationID(key string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[key]; ok {
		return e.NotificationID
	}
	return models.InitialNotificationID
}

// Entries returns a copy of all cached entries, keyed as stored.
func (c *Cache) Entries() map[string]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of cached namespaces.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
