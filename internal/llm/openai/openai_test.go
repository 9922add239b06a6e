package openai

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
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body["model"])
		msgs := body["messages"].([]any)
		assert.Len(t, msgs, 2)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"verdict\":\"BUY\"}  "}}]}`))
	}))
	defer srv.Close()

	c := New(Params{APIKey: "sk-test", Model: "gpt-test", MaxTokens: 10, Endpoint: srv.URL})
	out, err := c.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, `{"verdict":"BUY"}`, out)
}

func TestCompleteWithoutKey(t *testing.T) {
	_, err := New(Params{}).Complete(context.Background(), "s", "u")
	assert.EqualError(t, err, "OPENAI_API_KEY missing")
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := New(Params{APIKey: "k", Endpoint: srv.URL}).Complete(context.Background(), "s", "u")
	assert.EqualError(t, err, "no choices")
}
