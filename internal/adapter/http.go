// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/apogo/apogo/logger"
	"github.com/apogo/apogo/models"
)

const (
	defaultRequestTimeout = 15 * time.Second

	// Apollo servers hold a notification poll open for up to 60 seconds;
	// the client-side deadline leaves headroom on top of that.
	defaultPollTimeout = 90 * time.Second
)

// Config holds everything the transport needs to talk to one Apollo config
// service on behalf of one application.
type Config struct {
	// ServerURL is the config service base URL, e.g. "http://apollo.meta:8080".
	ServerURL string
	// AppID identifies the application whose configuration is read.
	AppID string
	// Cluster is the cluster to read releases from ("default" if unsure).
	Cluster string
	// Secret is the access-key secret used for request signing.
	// Empty disables signing.
	Secret string
	// IP is reported to the server for grayscale release targeting.
	// Optional.
	IP string
	// RequestTimeout bounds namespace fetches. Zero means 15s.
	RequestTimeout time.Duration
	// PollTimeout bounds the long-poll call and must exceed the server's
	// hold time. Zero means 90s.
	PollTimeout time.Duration
}

type apolloAdapter struct {
	client *resty.Client
	cfg    Config

	logger *logger.Logger
}

// NewApolloAdapter constructs the HTTP implementation of
// [ConfigServerAdapter]. It normalises and validates cfg.ServerURL and
// applies the default timeouts. Returns an error if the base URL is empty
// or unparsable, or if AppID is missing.
func NewApolloAdapter(cfg Config, log *logger.Logger) (ConfigServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid config server url: %w", err)
	}
	if cfg.AppID == "" {
		return nil, fmt.Errorf("app id is required")
	}
	if cfg.Cluster == "" {
		cfg.Cluster = "default"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = defaultPollTimeout
	}
	cfg.ServerURL = baseURL

	client := resty.New().SetBaseURL(baseURL)

	return &apolloAdapter{client: client, cfg: cfg, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchNamespace implements [ConfigServerAdapter]. It GETs the
// authoritative endpoint GET /configs/{app}/{cluster}/{namespace} and
// decodes the full release payload including the release key.
func (a *apolloAdapter) FetchNamespace(ctx context.Context, name string, nsType models.NamespaceType) (models.Namespace, error) {
	uri := a.namespaceURI("configs", name, nsType)

	resp, err := a.get(ctx, uri, a.cfg.RequestTimeout)
	if err != nil {
		return models.Namespace{}, fmt.Errorf("fetch namespace %q: %w", name, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Namespace{}, fmt.Errorf("fetch namespace %q: %w", name, err)
	}

	var ns models.Namespace
	if err = json.Unmarshal(resp.Body(), &ns); err != nil {
		return models.Namespace{}, fmt.Errorf("fetch namespace %q: %w: %v", name, ErrDecode, err)
	}

	ns.Name = name
	ns.Type = nsType
	return ns, nil
}

// FetchNamespaceCached implements [ConfigServerAdapter]. It GETs the
// server-cache endpoint GET /configfiles/json/{app}/{cluster}/{namespace},
// which returns the bare key/value mapping.
func (a *apolloAdapter) FetchNamespaceCached(ctx context.Context, name string, nsType models.NamespaceType) (models.Configurations, error) {
	uri := a.namespaceURI("configfiles/json", name, nsType)

	resp, err := a.get(ctx, uri, a.cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("fetch cached namespace %q: %w", name, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("fetch cached namespace %q: %w", name, err)
	}

	var configurations models.Configurations
	if err = json.Unmarshal(resp.Body(), &configurations); err != nil {
		return nil, fmt.Errorf("fetch cached namespace %q: %w: %v", name, ErrDecode, err)
	}

	return configurations, nil
}

// PollNotifications implements [ConfigServerAdapter]. It long-polls
// GET /notifications/v2 with the ids in known. HTTP 304 means no namespace
// changed and yields (nil, nil).
func (a *apolloAdapter) PollNotifications(ctx context.Context, known []models.Notification) ([]models.Notification, error) {
	payload, err := json.Marshal(known)
	if err != nil {
		return nil, fmt.Errorf("encode notifications: %w", err)
	}

	query := url.Values{}
	query.Set("appId", a.cfg.AppID)
	query.Set("cluster", a.cfg.Cluster)
	query.Set("notifications", string(payload))
	uri := "/notifications/v2?" + query.Encode()

	resp, err := a.get(ctx, uri, a.cfg.PollTimeout)
	if err != nil {
		return nil, fmt.Errorf("poll notifications: %w", err)
	}
	if resp.StatusCode() == http.StatusNotModified {
		// Nothing changed before the server-side hold timeout elapsed.
		return nil, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("poll notifications: %w", err)
	}

	var changed []models.Notification
	if err = json.Unmarshal(resp.Body(), &changed); err != nil {
		return nil, fmt.Errorf("poll notifications: %w: %v", ErrDecode, err)
	}

	return changed, nil
}

// namespaceURI builds the path-and-query part of a namespace read. The
// signature is computed over exactly this string, so it must match what
// goes on the wire byte for byte.
func (a *apolloAdapter) namespaceURI(apiPath, name string, nsType models.NamespaceType) string {
	uri := fmt.Sprintf("/%s/%s/%s/%s", apiPath, a.cfg.AppID, a.cfg.Cluster, models.WireName(name, nsType))
	if a.cfg.IP != "" {
		query := url.Values{}
		query.Set("ip", a.cfg.IP)
		uri += "?" + query.Encode()
	}
	return uri
}

func (a *apolloAdapter) get(ctx context.Context, uri string, timeout time.Duration) (*resty.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := a.client.R().
		SetContext(reqCtx).
		SetHeaders(authHeaders(a.cfg.AppID, a.cfg.Secret, uri, time.Now())).
		SetHeader("X-Request-Id", uuid.NewString()).
		Get(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	a.logger.Debug().
		Str("uri", uri).
		Int("status", resp.StatusCode()).
		Dur("took", resp.Time()).
		Msg("config server request")

	return resp, nil
}
