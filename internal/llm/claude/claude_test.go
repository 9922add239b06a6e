package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sys", body["system"])
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"verdict\":"},{"type":"text","text":"\"SELL\"}"}]}`))
	}))
	defer srv.Close()

	out, err := New(Params{APIKey: "key", Model: "claude-test", MaxTokens: 10, Endpoint: srv.URL}).
		Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, `{"verdict":"SELL"}`, out)
}

func TestCompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad model"}}`))
	}))
	defer srv.Close()

	_, err := New(Params{APIKey: "key", Endpoint: srv.URL}).Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
