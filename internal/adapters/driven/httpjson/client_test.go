package httpjson

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"echo":"` + body["q"] + `"}`))
	}))
	defer server.Close()

	c := New("openai", server.URL+"/v1/", time.Second, http.Header{"Authorization": {"Bearer k"}})
	defer c.Close()

	var out struct {
		Echo string `json:"echo"`
	}
	require.NoError(t, c.Post(context.Background(), "/chat", map[string]string{"q": "TC at L5"}, &out))
	assert.Equal(t, "TC at L5", out.Echo)
	assert.Equal(t, server.URL+"/v1", c.BaseURL())
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	c := New("ollama", server.URL, time.Second, nil)
	assert.NoError(t, c.Get(context.Background(), "/api/tags"))
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		rateLimited bool
	}{
		{
			name:        "nested message",
			status:      http.StatusUnauthorized,
			body:        `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`,
			wantMessage: "Incorrect API key provided",
		},
		{
			name:        "string error",
			status:      http.StatusNotFound,
			body:        `{"error":"model \"llama9\" not found"}`,
			wantMessage: `model "llama9" not found`,
		},
		{
			name:        "plain text",
			status:      http.StatusBadGateway,
			body:        "  <html>bad gateway</html>\n",
			wantMessage: "<html>bad gateway</html>",
		},
		{
			name:        "empty body",
			status:      http.StatusServiceUnavailable,
			wantMessage: "Service Unavailable",
		},
		{
			name:        "rate limited",
			status:      http.StatusTooManyRequests,
			body:        `{"error":{"message":"slow down"}}`,
			wantMessage: "slow down",
			rateLimited: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := New("anthropic", server.URL, time.Second, nil)
			err := c.Post(context.Background(), "/v1/messages", struct{}{}, &struct{}{})

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, "anthropic", statusErr.Provider)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.wantMessage, statusErr.Message)
			assert.Equal(t, tt.rateLimited, errors.Is(err, domain.ErrRateLimited))
		})
	}
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := New("ollama", server.URL, time.Second, nil)
	err := c.Post(context.Background(), "/api/chat", struct{}{}, &struct{}{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama: decode response")
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c := New("openai", url, time.Second, nil)
	err := c.Get(context.Background(), "/models")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai: GET /models")
}

func TestClient_EncodeError(t *testing.T) {
	c := New("openai", "http://unused", time.Second, nil)
	err := c.Post(context.Background(), "/x", map[string]any{"bad": make(chan int)}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai: encode request")
}
