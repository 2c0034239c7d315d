// SPDX-License-Identifier: Apache-2.0

package apogo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/apogo/apogo/internal/cache"
	"github.com/apogo/apogo/internal/mock"
	"github.com/apogo/apogo/models"
)

// newTestClient строит клиента с подменённым транспортом
func newTestClient(t *testing.T, ctrl *gomock.Controller, opts ...Option) (*Client, *mock.MockConfigServerAdapter) {
	t.Helper()

	c, err := New(Config{ServerURL: "http://apollo.test:8080", AppID: "demo-app"}, opts...)
	require.NoError(t, err)

	adapterMock := mock.NewMockConfigServerAdapter(ctrl)
	c.adapter = adapterMock
	return c, adapterMock
}

func propertiesNamespace(name string, kv models.Configurations) models.Namespace {
	return models.Namespace{
		AppID:          "demo-app",
		Cluster:        "default",
		Name:           name,
		Type:           models.Properties,
		Configurations: kv,
		ReleaseKey:     "rk-" + name,
	}
}

// ── New ─────────────────────────────────────────────────────────────────────

func TestNew_RequiresServerURL(t *testing.T) {
	_, err := New(Config{AppID: "demo-app"})
	assert.Error(t, err)
}

func TestNew_DefaultsCluster(t *testing.T) {
	c, err := New(Config{ServerURL: "http://apollo.test:8080", AppID: "demo-app"})
	require.NoError(t, err)
	assert.Equal(t, "default", c.cfg.Cluster)
}

// ── Get ─────────────────────────────────────────────────────────────────────

func TestGet_FetchFillsThenServesFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl)
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "application", models.Properties).
		Return(propertiesNamespace("application", models.Configurations{"test": "1"}), nil).
		Times(1)

	ctx := context.Background()

	v, err := c.Get(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	// second lookup is served from cache, no further fetch
	v, err = c.Get(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestGet_KeyNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl)
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "application", models.Properties).
		Return(propertiesNamespace("application", models.Configurations{}), nil)

	_, err := c.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestGet_PrecedenceOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl, WithNamespaces("overrides", "application"))
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "overrides", models.Properties).
		Return(propertiesNamespace("overrides", models.Configurations{"shared": "from-overrides"}), nil)
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "application", models.Properties).
		Return(propertiesNamespace("application", models.Configurations{"shared": "from-application", "only": "here"}), nil)

	ctx := context.Background()

	v, err := c.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "from-overrides", v, "earlier namespace wins")

	v, err = c.Get(ctx, "only")
	require.NoError(t, err)
	assert.Equal(t, "here", v)
}

func TestGet_SkipsUnreadableNamespace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl, WithNamespaces("broken", "application"))
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "broken", models.Properties).
		Return(models.Namespace{}, ErrTransport)
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "application", models.Properties).
		Return(propertiesNamespace("application", models.Configurations{"test": "1"}), nil)

	v, err := c.Get(context.Background(), "test")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

// ── ReadNamespaceWithCache ──────────────────────────────────────────────────

func TestReadNamespaceWithCache_MissThenHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl)
	want := propertiesNamespace("application", models.Configurations{"test": "1"})
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "application", models.Properties).
		Return(want, nil).
		Times(1)

	ctx := context.Background()

	got, err := c.ReadNamespaceWithCache(ctx, "application", models.Properties)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = c.ReadNamespaceWithCache(ctx, "application", models.Properties)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadNamespaceWithCache_FetchFailureLeavesCacheEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl)
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "application", models.Properties).
		Return(models.Namespace{}, ErrTransport)

	_, err := c.ReadNamespaceWithCache(context.Background(), "application", models.Properties)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 0, c.cache.Len())
}

func TestReadNamespaceWithCache_SnapshotFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	store, err := cache.NewSnapshotStore(dir)
	require.NoError(t, err)
	want := propertiesNamespace("application", models.Configurations{"test": "from-snapshot"})
	require.NoError(t, store.Save(cache.Key("application", models.Properties), cache.Entry{
		Namespace:      want,
		NotificationID: 12,
	}))

	c, adapterMock := newTestClient(t, ctrl, WithSnapshotDir(dir))
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "application", models.Properties).
		Return(models.Namespace{}, ErrTransport).
		Times(1)

	got, err := c.ReadNamespaceWithCache(context.Background(), "application", models.Properties)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// snapshot content is now cached; a later read needs no network at all
	got, err = c.ReadNamespaceWithCache(context.Background(), "application", models.Properties)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// ── ReadNamespaceWithoutCache ───────────────────────────────────────────────

func TestReadNamespaceWithoutCache_BypassesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl)
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "application", models.Properties).
		Return(propertiesNamespace("application", models.Configurations{"test": "1"}), nil).
		Times(2)

	ctx := context.Background()

	_, err := c.ReadNamespaceWithoutCache(ctx, "application", models.Properties)
	require.NoError(t, err)
	assert.Equal(t, 0, c.cache.Len(), "direct read must not populate the cache")

	_, err = c.ReadNamespaceWithoutCache(ctx, "application", models.Properties)
	require.NoError(t, err)
}

func TestReadNamespaceWithoutCache_OptInUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl, WithUpdateCacheOnDirectRead())
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "application", models.Properties).
		Return(propertiesNamespace("application", models.Configurations{"test": "1"}), nil).
		Times(1)

	ctx := context.Background()

	_, err := c.ReadNamespaceWithoutCache(ctx, "application", models.Properties)
	require.NoError(t, err)
	assert.Equal(t, 1, c.cache.Len())

	// cached read is now free
	v, err := c.Get(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

// ── PollAndUpdate ───────────────────────────────────────────────────────────

func TestPollAndUpdate_UnchangedLeavesCacheAlone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl)
	adapterMock.EXPECT().
		PollNotifications(gomock.Any(), []models.Notification{
			{NamespaceName: "application", NotificationID: models.InitialNotificationID},
		}).
		Return(nil, nil).
		Times(3)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, c.PollAndUpdate(ctx))
	}
	assert.Equal(t, 0, c.cache.Len())
}

func TestPollAndUpdate_ChangedRefetchesAndAdvancesID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl)

	adapterMock.EXPECT().
		PollNotifications(gomock.Any(), []models.Notification{
			{NamespaceName: "application", NotificationID: models.InitialNotificationID},
		}).
		Return([]models.Notification{{NamespaceName: "application", NotificationID: 17135}}, nil)
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "application", models.Properties).
		Return(propertiesNamespace("application", models.Configurations{"test": "2"}), nil)

	require.NoError(t, c.PollAndUpdate(context.Background()))
	assert.Equal(t, int64(17135), c.cache.NotificationID(cache.Key("application", models.Properties)))

	// the next cycle advertises the new id
	adapterMock.EXPECT().
		PollNotifications(gomock.Any(), []models.Notification{
			{NamespaceName: "application", NotificationID: 17135},
		}).
		Return(nil, nil)
	require.NoError(t, c.PollAndUpdate(context.Background()))
}

func TestPollAndUpdate_StaleNotificationIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl)
	key := cache.Key("application", models.Properties)
	c.cache.Put(key, cache.Entry{
		Namespace:      propertiesNamespace("application", models.Configurations{"test": "current"}),
		NotificationID: 100,
	})

	// ids 99 and 100 must both be dropped without a refetch
	adapterMock.EXPECT().
		PollNotifications(gomock.Any(), gomock.Any()).
		Return([]models.Notification{
			{NamespaceName: "application", NotificationID: 99},
			{NamespaceName: "application", NotificationID: 100},
		}, nil)

	require.NoError(t, c.PollAndUpdate(context.Background()))

	entry, ok := c.cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, int64(100), entry.NotificationID)
	assert.Equal(t, "current", entry.Namespace.Configurations["test"])
}

func TestPollAndUpdate_RefetchesOnlyChangedNamespaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl, WithNamespaces("application", "features"))

	adapterMock.EXPECT().
		PollNotifications(gomock.Any(), gomock.Any()).
		Return([]models.Notification{{NamespaceName: "features", NotificationID: 5}}, nil)
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "features", models.Properties).
		Return(propertiesNamespace("features", models.Configurations{"flag": "on"}), nil)

	require.NoError(t, c.PollAndUpdate(context.Background()))
	assert.Equal(t, 1, c.cache.Len(), "unchanged namespaces are not fetched")
}

func TestPollNamespace_TypedNamespaceUsesWireName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl)

	adapterMock.EXPECT().
		PollNotifications(gomock.Any(), []models.Notification{
			{NamespaceName: "settings.yaml", NotificationID: models.InitialNotificationID},
		}).
		Return([]models.Notification{{NamespaceName: "settings.yaml", NotificationID: 3}}, nil)
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "settings", models.YAML).
		Return(models.Namespace{
			Name:           "settings",
			Type:           models.YAML,
			Configurations: models.Configurations{"content": "limit: 10\n"},
		}, nil)

	require.NoError(t, c.PollNamespace(context.Background(), "settings", models.YAML))
	assert.Equal(t, int64(3), c.cache.NotificationID(cache.Key("settings", models.YAML)))
}

func TestPollAndUpdate_AuthErrorSurfacesAndCacheStaysEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, adapterMock := newTestClient(t, ctrl)
	adapterMock.EXPECT().
		PollNotifications(gomock.Any(), gomock.Any()).
		Return(nil, ErrAuth)

	err := c.PollAndUpdate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, 0, c.cache.Len())
}

// ── Snapshots ───────────────────────────────────────────────────────────────

func TestSnapshots_SaveThenRestoreWithoutNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()

	first, adapterMock := newTestClient(t, ctrl, WithSnapshotDir(dir))
	adapterMock.EXPECT().
		FetchNamespace(gomock.Any(), "application", models.Properties).
		Return(propertiesNamespace("application", models.Configurations{"test": "1"}), nil)

	_, err := first.ReadNamespaceWithCache(context.Background(), "application", models.Properties)
	require.NoError(t, err)
	first.SaveSnapshots()

	// a fresh client on the same dir reproduces the content with no fetches
	second, _ := newTestClient(t, ctrl, WithSnapshotDir(dir))
	assert.Equal(t, 1, second.RestoreFromSnapshots())

	ns, err := second.ReadNamespaceWithCache(context.Background(), "application", models.Properties)
	require.NoError(t, err)
	assert.Equal(t, models.Configurations{"test": "1"}, ns.Configurations)

	v, err := second.Get(context.Background(), "test")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

// ── End to end against a fake config server ─────────────────────────────────

func TestClient_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/configs/demo-app/default/application":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"appId":          "demo-app",
				"cluster":        "default",
				"namespaceName":  "application",
				"configurations": map[string]string{"test": "1"},
				"releaseKey":     "rk-1",
			})
		case "/notifications/v2":
			w.WriteHeader(http.StatusNotModified)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := New(Config{ServerURL: srv.URL, AppID: "demo-app"})
	require.NoError(t, err)

	ctx := context.Background()

	ns, err := c.ReadNamespaceWithCache(ctx, "application", models.Properties)
	require.NoError(t, err)
	assert.Equal(t, models.Configurations{"test": "1"}, ns.Configurations)

	v, err := c.Get(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, c.PollAndUpdate(ctx))
	assert.Equal(t, "1", ns.Configurations["test"], "unchanged poll leaves config as is")
}
