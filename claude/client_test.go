package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penbridge/apierr"
	"penbridge/upstream"
)

func newTestClient(baseURL, key string) *Client {
	return NewClient(Config{
		APIKey:    key,
		BaseURL:   baseURL,
		Model:     "claude-sonnet-4-20250514",
		MaxTokens: 1024,
	}, upstream.NewClient("claude", 0, nil, nil), nil)
}

func TestClient_Complete(t *testing.T) {
	const reply = `{"id":"msg_01","type":"message","role":"assistant","content":[{"type":"text","text":"Hi!"}],"model":"claude-sonnet-4-20250514","stop_reason":"end_turn"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, APIVersion, r.Header.Get("anthropic-version"))

		var body messagesRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-sonnet-4-20250514", body.Model)
		assert.Equal(t, 1024, body.MaxTokens)
		assert.Equal(t, "Be brief.", body.System)
		assert.Equal(t, []message{{Role: "user", Content: "Hello"}}, body.Messages)

		w.Write([]byte(reply))
	}))
	defer server.Close()

	out, err := newTestClient(server.URL, "sk-test").Complete(context.Background(), "Hello", "Be brief.")

	require.NoError(t, err)
	assert.JSONEq(t, reply, string(out))
}

func TestClient_Complete_OmitsEmptySystem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasSystem := raw["system"]
		assert.False(t, hasSystem)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, "sk-test").Complete(context.Background(), "Hello", "")
	require.NoError(t, err)
}

func TestClient_Complete_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"Number of requests has exceeded your rate limit"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, "sk-test").Complete(context.Background(), "Hello", "")

	status, msg := apierr.StatusOf(err)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "Number of requests has exceeded your rate limit", msg)
}

func TestClient_Complete_Validation(t *testing.T) {
	_, err := newTestClient("http://unused", "").Complete(context.Background(), "Hello", "")
	status, _ := apierr.StatusOf(err)
	assert.Equal(t, http.StatusInternalServerError, status)

	_, err = newTestClient("http://unused", "sk-test").Complete(context.Background(), "", "")
	status, _ = apierr.StatusOf(err)
	assert.Equal(t, http.StatusBadRequest, status)
}
