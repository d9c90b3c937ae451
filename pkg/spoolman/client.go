package spoolman

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/petrlinhart/spoolman-to-prusaslicer/internal/transport"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
)

// ServiceName identifies Spoolman in API errors.
const ServiceName = "spoolman"

// Client talks to the Spoolman REST API.
type Client struct {
	baseURL   string
	transport *transport.Client
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout    time.Duration
	token      string
	authHeader string
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithToken sends a token with every request, as a Bearer token unless
// a header name is given.
func WithToken(token, header string) Option {
	return func(o *clientOptions) {
		o.token = token
		o.authHeader = header
	}
}

// NewClient creates a client for the API rooted at baseURL, for example
// http://localhost:7912/api/v1.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &errors.ConfigError{
			Component: ServiceName,
			Message:   fmt.Sprintf("invalid base URL %q", baseURL),
			Err:       err,
		}
	}

	return &Client{
		baseURL:   base,
		transport: transport.New(transport.AuthenticatorFor(o.token, o.authHeader), o.token, o.timeout),
	}, nil
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Spools returns every spool, archived ones included, so callers can tell
// an archived spool from one that was deleted.
func (c *Client) Spools(ctx context.Context) ([]Spool, error) {
	var spools []Spool
	if err := c.get(ctx, "/spool?allow_archived=true", &spools); err != nil {
		return nil, err
	}
	return spools, nil
}

// Vendors returns all vendors.
func (c *Client) Vendors(ctx context.Context) ([]Vendor, error) {
	var vendors []Vendor
	if err := c.get(ctx, "/vendor", &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

// Filaments returns all filaments.
func (c *Client) Filaments(ctx context.Context) ([]Filament, error) {
	var filaments []Filament
	if err := c.get(ctx, "/filament", &filaments); err != nil {
		return nil, err
	}
	return filaments, nil
}

// CreateVendor creates a vendor with the given name.
func (c *Client) CreateVendor(ctx context.Context, name string) (*Vendor, error) {
	var created Vendor
	if err := c.send(ctx, http.MethodPost, "/vendor", Vendor{Name: name}, &created); err != nil {
		return nil, errors.WrapResource("create", "vendor", name, err)
	}
	return &created, nil
}

// CreateFilament creates a filament.
func (c *Client) CreateFilament(ctx context.Context, payload FilamentPayload) (*Filament, error) {
	var created Filament
	if err := c.send(ctx, http.MethodPost, "/filament", payload, &created); err != nil {
		return nil, errors.WrapResource("create", "filament", payload.Name, err)
	}
	return &created, nil
}

// UpdateFilament patches the filament with the given id.
func (c *Client) UpdateFilament(ctx context.Context, id int, payload FilamentPayload) (*Filament, error) {
	var updated Filament
	path := fmt.Sprintf("/filament/%d", id)
	if err := c.send(ctx, http.MethodPatch, path, payload, &updated); err != nil {
		return nil, errors.WrapResource("update", "filament", payload.Name, err)
	}
	return &updated, nil
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	endpoint := c.baseURL + path
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return requestError(endpoint, err)
	}
	return transport.DecodeResponse(resp, ServiceName, target)
}

func (c *Client) send(ctx context.Context, method, path string, body, target any) error {
	endpoint := c.baseURL + path
	resp, err := c.transport.Send(ctx, method, endpoint, body)
	if err != nil {
		return requestError(endpoint, err)
	}
	return transport.DecodeResponse(resp, ServiceName, target)
}

func requestError(endpoint string, err error) error {
	return &errors.APIError{
		Service:  ServiceName,
		Endpoint: endpoint,
		Message:  "request failed: " + err.Error(),
		Err:      errors.WrapContext(err),
	}
}
