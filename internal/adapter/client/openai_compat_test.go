package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"miseai/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "llama3-70b-8192",
	"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "1. Mochi\n2. Dango"}}],
	"usage": {"prompt_tokens": 40, "completion_tokens": 60, "total_tokens": 100}
}`

func newCompatServer(t *testing.T, status int, body string) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		requests = append(requests, payload)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestOpenAICompatClient_Complete(t *testing.T) {
	srv, requests := newCompatServer(t, http.StatusOK, completionBody)
	c := NewOpenAICompatClient("gsk_test", srv.URL+"/v1/", "llama3-70b-8192")

	resp, err := c.Complete(context.Background(), entity.ChatRequest{
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: "You are a chef."},
			{Role: entity.RoleUser, Content: "Give me 2 desserts"},
		},
		Sampling: entity.Sampling{MaxTokens: 1000, Temperature: 0.7, TopP: 0.9, FrequencyPenalty: 0.1, PresencePenalty: 0.1},
	})
	require.NoError(t, err)
	assert.Equal(t, "1. Mochi\n2. Dango", resp.Content)
	assert.Equal(t, "llama3-70b-8192", resp.Model)
	assert.Equal(t, 100, resp.TokenCount)

	require.Len(t, *requests, 1)
	got := (*requests)[0]
	assert.Equal(t, "llama3-70b-8192", got["model"])
	assert.Equal(t, 0.7, got["temperature"])
	assert.Equal(t, 0.9, got["top_p"])
	assert.Equal(t, float64(1000), got["max_tokens"])
	assert.Equal(t, 0.1, got["frequency_penalty"])
	assert.Equal(t, 0.1, got["presence_penalty"])
	assert.NotContains(t, got, "response_format")

	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestOpenAICompatClient_OmitsZeroPenalties(t *testing.T) {
	srv, requests := newCompatServer(t, http.StatusOK, completionBody)
	c := NewOpenAICompatClient("gsk_test", srv.URL+"/v1/", "llama3-70b-8192")

	_, err := c.Complete(context.Background(), entity.ChatRequest{
		Model:    "llama-3.3-70b-versatile",
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "structure this"}},
		Sampling: entity.Sampling{MaxTokens: 3000, Temperature: 0.5, TopP: 0.8},
		JSONMode: true,
	})
	require.NoError(t, err)

	got := (*requests)[0]
	assert.Equal(t, "llama-3.3-70b-versatile", got["model"])
	assert.NotContains(t, got, "frequency_penalty")
	assert.NotContains(t, got, "presence_penalty")
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
}

func TestOpenAICompatClient_Errors(t *testing.T) {
	t.Run("upstream status is not retried", func(t *testing.T) {
		srv, requests := newCompatServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`)
		c := NewOpenAICompatClient("gsk_test", srv.URL+"/v1/", "m")

		_, err := c.Complete(context.Background(), entity.ChatRequest{Messages: []entity.Message{{Role: entity.RoleUser, Content: "hi"}}})
		require.Error(t, err)
		assert.Len(t, *requests, 1)
	})

	t.Run("no choices", func(t *testing.T) {
		srv, _ := newCompatServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","model":"m","choices":[]}`)
		c := NewOpenAICompatClient("gsk_test", srv.URL+"/v1/", "m")

		_, err := c.Complete(context.Background(), entity.ChatRequest{Messages: []entity.Message{{Role: entity.RoleUser, Content: "hi"}}})
		assert.ErrorContains(t, err, "no choices")
	})

	t.Run("unknown role", func(t *testing.T) {
		c := NewOpenAICompatClient("gsk_test", "http://127.0.0.1:1/v1/", "m")
		_, err := c.Complete(context.Background(), entity.ChatRequest{Messages: []entity.Message{{Role: "tool", Content: "hi"}}})
		assert.ErrorContains(t, err, "unsupported role")
	})
}
