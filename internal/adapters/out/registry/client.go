// Package registry implements the component registry client over HTTP.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/bnema/gateway-core/internal/boundaries/out"
	"github.com/bnema/gateway-core/internal/domain"
)

// Config locates this component in the registry.
type Config struct {
	Scheme      string
	Host        string
	API         string
	ComponentID string
}

// Client fetches the desired service set from the component registry.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var _ out.ServiceRegistry = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// NewClient creates a new registry client.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// Host returns the registry host.
func (c *Client) Host() string {
	return c.cfg.Host
}

// URL returns {scheme}://{host}/{api}/{component_id}.
func (c *Client) URL() string {
	u := url.URL{
		Scheme: c.cfg.Scheme,
		Host:   c.cfg.Host,
		Path:   "/" + strings.Trim(c.cfg.API, "/") + "/" + url.PathEscape(c.cfg.ComponentID),
	}
	return u.String()
}

type servicesResponse struct {
	Services map[string]domain.ServiceSpec `json:"services"`
}

// FetchServices queries the registry for the services of this component.
// A non-200 status or a transport failure means the registry is not ready yet.
func (c *Client) FetchServices(ctx context.Context) (map[string]domain.ServiceSpec, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "registry",
		zerowrap.FieldAction:  "FetchServices",
		zerowrap.FieldHost:    c.cfg.Host,
	})
	log := zerowrap.FromCtx(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d", domain.ErrRegistryUnavailable, resp.StatusCode)
	}

	var payload servicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if payload.Services == nil {
		return nil, fmt.Errorf("%w: missing key 'services'", domain.ErrMalformedPayload)
	}
	if err := validateServices(payload.Services); err != nil {
		return nil, err
	}

	log.Debug().Int(zerowrap.FieldCount, len(payload.Services)).Msg("services fetched")
	return payload.Services, nil
}

// validateServices rejects entries without a deployment image.
func validateServices(services map[string]domain.ServiceSpec) error {
	for name, spec := range services {
		if strings.TrimSpace(spec.Deployment.Image) == "" {
			return fmt.Errorf("%w: service %q has no deployment_configs.image", domain.ErrMalformedPayload, name)
		}
	}
	return nil
}
