// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apogo/apogo/models"
)

// SnapshotStore persists cache entries as one JSON file per namespace under
// a directory. The snapshot is a derived, best-effort copy of the in-memory
// cache: callers log its errors and carry on, they never fail on them.
type SnapshotStore struct {
	dir string
}

// snapshotFile is the on-disk layout of one entry. The namespace type is
// stored explicitly because it is not part of the wire payload.
type snapshotFile struct {
	Namespace      models.Namespace     `json:"namespace"`
	Type           models.NamespaceType `json:"type"`
	NotificationID int64                `json:"notificationId"`
	FetchedAt      time.Time            `json:"fetchedAt"`
}

// NewSnapshotStore creates dir if needed and returns a store writing into
// it.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

// Save writes the entry for key to its snapshot file. The write goes
// through a temp file and a rename, so a concurrent reader sees either the
// old snapshot or the new one, never a torn file.
func (s *SnapshotStore) Save(key string, entry Entry) error {
	payload, err := json.MarshalIndent(snapshotFile{
		Namespace:      entry.Namespace,
		Type:           entry.Namespace.Type,
		NotificationID: entry.NotificationID,
		FetchedAt:      entry.FetchedAt,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", key, err)
	}

	path := s.path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot %q: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot %q: %w", key, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publish snapshot %q: %w", key, err)
	}
	return nil
}

// Load reads the snapshot for key. A missing file surfaces as an
// os.ErrNotExist-wrapping error.
func (s *SnapshotStore) Load(key string) (Entry, error) {
	payload, err := os.ReadFile(s.path(key))
	if err != nil {
		return Entry{}, fmt.Errorf("read snapshot %q: %w", key, err)
	}

	var f snapshotFile
	if err = json.Unmarshal(payload, &f); err != nil {
		return Entry{}, fmt.Errorf("decode snapshot %q: %w", key, err)
	}

	f.Namespace.Type = f.Type
	return Entry{
		Namespace:      f.Namespace,
		NotificationID: f.NotificationID,
		FetchedAt:      f.FetchedAt,
	}, nil
}

// LoadAll reads every readable snapshot in the directory, keyed by the file
// base name. Unreadable files are skipped, not reported; the snapshot is an
// optimization, not a source of truth.
func (s *SnapshotStore) LoadAll() map[string]Entry {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil
	}

	out := make(map[string]Entry, len(matches))
	for _, path := range matches {
		key := filepath.Base(path)
		key = key[:len(key)-len(".json")]

		entry, err := s.Load(key)
		if err != nil {
			continue
		}
		out[key] = entry
	}
	return out
}

func (s *SnapshotStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
