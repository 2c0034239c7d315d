// Package adapter implements the outbound HTTP transport of the apogo
// client: authoritative and server-cached namespace fetches plus the
// long-poll notification call, all signed with the Apollo HMAC-SHA1
// request signature when a secret is configured.
package adapter

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

import (
	"context"

	"github.com/apogo/apogo/models"
)

// ConfigServerAdapter is the transport seam between the client facade and
// the remote config server. Implementations perform no caching and no
// retries; every call is exactly one HTTP request.
type ConfigServerAdapter interface {
	// FetchNamespace reads a namespace from the authoritative
	// /configs endpoint. The returned Namespace carries the release
	// key of the current server-side release.
	FetchNamespace(ctx context.Context, name string, nsType models.NamespaceType) (models.Namespace, error)

	// FetchNamespaceCached reads a namespace's key/value mapping from
	// the server-side cache endpoint /configfiles/json. Cheaper for the
	// server but may lag the authoritative state by about a second and
	// carries no release key.
	FetchNamespaceCached(ctx context.Context, name string, nsType models.NamespaceType) (models.Configurations, error)

	// PollNotifications long-polls /notifications/v2 with the ids the
	// client currently holds. It blocks until the server reports a
	// change or its hold timeout elapses. A (nil, nil) return means
	// nothing changed (HTTP 304); a non-empty slice lists only the
	// namespaces whose id moved past the one sent.
	PollNotifications(ctx context.Context, known []models.Notification) ([]models.Notification, error)
}
