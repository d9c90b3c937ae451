package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/errors"
)

func TestClient_GetAppliesHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := New(&BearerAuth{}, "secret", 0)
	resp, err := c.Get(context.Background(), server.URL)
	require.NoError(t, err)

	var out struct{ OK bool }
	require.NoError(t, DecodeResponse(resp, "test", &out))
	assert.True(t, out.OK)
}

func TestClient_SendEncodesJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PLA", body["material"])
		_, _ = w.Write([]byte(`{"id":9}`))
	}))
	defer server.Close()

	c := New(nil, "", 0)
	resp, err := c.Send(context.Background(), http.MethodPatch, server.URL, map[string]any{"material": "PLA"})
	require.NoError(t, err)

	var out struct{ ID int }
	require.NoError(t, DecodeResponse(resp, "test", &out))
	assert.Equal(t, 9, out.ID)
}

func TestDecodeResponse_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down\n"))
	}))
	defer server.Close()

	resp, err := New(nil, "", 0).Get(context.Background(), server.URL)
	require.NoError(t, err)

	err = DecodeResponse(resp, "spoolman", nil)
	require.Error(t, err)
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.True(t, errors.IsServiceUnavailable(err))
}

func TestDecodeResponse_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	resp, err := New(nil, "", 0).Get(context.Background(), server.URL)
	require.NoError(t, err)

	var out map[string]any
	err = DecodeResponse(resp, "spoolman", &out)
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
