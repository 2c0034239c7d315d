// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apogo/apogo/models"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s, err := NewSnapshotStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	entry := Entry{
		Namespace: models.Namespace{
			AppID:          "demo-app",
			Cluster:        "default",
			Name:           "settings",
			Type:           models.YAML,
			Configurations: models.Configurations{"content": "a: 1\n"},
			ReleaseKey:     "rk-9",
		},
		NotificationID: 9,
		FetchedAt:      time.Now().Truncate(time.Second),
	}

	require.NoError(t, s.Save("settings.yaml", entry))

	got, err := s.Load("settings.yaml")
	require.NoError(t, err)
	assert.Equal(t, entry.Namespace, got.Namespace)
	assert.Equal(t, entry.NotificationID, got.NotificationID)
	assert.True(t, entry.FetchedAt.Equal(got.FetchedAt))
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load("nope.properties")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSnapshotStore_SaveOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save("k", Entry{NotificationID: 1}))
	require.NoError(t, s.Save("k", Entry{NotificationID: 2}))

	got, err := s.Load("k")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.NotificationID)
}

func TestSnapshotStore_LoadAllSkipsGarbage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSnapshotStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save("application.properties", Entry{
		Namespace:      models.Namespace{Name: "application"},
		NotificationID: 3,
	}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0o644))

	entries := s.LoadAll()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries["application.properties"].NotificationID)
}

func TestNewSnapshotStore_EmptyDir(t *testing.T) {
	_, err := NewSnapshotStore("")
	assert.Error(t, err)
}

func TestNewSnapshotStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "snapshots")

	_, err := NewSnapshotStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
