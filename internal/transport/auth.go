package transport

import (
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// NoAuth implements no authentication. Spoolman itself has none.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth implements Bearer token authentication, for Spoolman instances
// published behind an authenticating reverse proxy.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, token string) {
	req.Header.Set(a.Header, token)
}

// AuthenticatorFor picks an authenticator for a configured token and header.
// An empty token means no authentication; an empty header means a Bearer token.
func AuthenticatorFor(token, header string) Authenticator {
	switch {
	case token == "":
		return &NoAuth{}
	case header == "" || http.CanonicalHeaderKey(header) == "Authorization":
		return &BearerAuth{}
	default:
		return &HeaderAuth{Header: header}
	}
}
