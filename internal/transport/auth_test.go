package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&NoAuth{}).Apply(req, "token")
	assert.Empty(t, req.Header)
}

func TestBearerAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&BearerAuth{}).Apply(req, "secret")
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
}

func TestHeaderAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&HeaderAuth{Header: "X-Api-Key"}).Apply(req, "secret")
	assert.Equal(t, "secret", req.Header.Get("X-Api-Key"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestAuthenticatorFor(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   Authenticator
	}{
		{"no token", "", "X-Api-Key", &NoAuth{}},
		{"default bearer", "t", "", &BearerAuth{}},
		{"explicit authorization", "t", "authorization", &BearerAuth{}},
		{"custom header", "t", "X-Api-Key", &HeaderAuth{Header: "X-Api-Key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthenticatorFor(tt.token, tt.header))
		})
	}
}
