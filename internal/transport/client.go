// Package transport wraps net/http with the authentication, headers and
// JSON handling shared by every Spoolman request.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/constants"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
)

// Client provides HTTP client functionality with authentication.
type Client struct {
	http  *http.Client
	auth  Authenticator
	token string
}

// New creates a new transport client. A zero timeout uses constants.DefaultHTTPTimeout.
func New(auth Authenticator, token string, timeout time.Duration) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}
	return &Client{
		http:  &http.Client{Timeout: timeout},
		auth:  auth,
		token: token,
	}
}

// Do performs an HTTP request with authentication and common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	return c.Do(req)
}

// Send marshals body as JSON and performs a request with the given method.
func (c *Client) Send(ctx context.Context, method, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapParse("json", "request body", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return nil, errors.WrapResource("create", "request", method+" "+url, err)
	}
	return c.Do(req)
}

// DecodeResponse decodes a JSON response into target and closes the body.
// Any status outside 2xx becomes an *errors.APIError carrying the body text.
func DecodeResponse(resp *http.Response, service string, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		endpoint := ""
		if resp.Request != nil && resp.Request.URL != nil {
			endpoint = resp.Request.URL.String()
		}
		return &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    string(bytes.TrimSpace(body)),
		}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}
	return nil
}
