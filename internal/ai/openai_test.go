package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newFakeOpenAI(t *testing.T) (*httptest.Server, *[]Message) {
	t.Helper()
	var captured []Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/embeddings":
			var req openAIEmbedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.NotEmpty(t, req.Input)
			_ = json.NewEncoder(w).Encode(openAIEmbedResponse{
				Data: []struct {
					Embedding []float32 `json:"embedding"`
				}{{Embedding: []float32{0.1, 0.2, 0.3}}},
			})
		case "/chat/completions":
			var req openAIChatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			captured = req.Messages
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello from the model"}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestOpenAIEmbed(t *testing.T) {
	srv, _ := newFakeOpenAI(t)
	provider, err := NewProvider("openai", map[string]interface{}{
		"api_key":  "sk-test",
		"base_url": srv.URL,
	})
	require.NoError(t, err)
	vec, err := provider.Embed(context.Background(), "text-embedding-ada-002", "some text")
	require.NoError(t, err)
	require.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOpenAIComplete(t *testing.T) {
	srv, captured := newFakeOpenAI(t)
	provider, err := NewProvider("openai", map[string]interface{}{
		"api_key":  "sk-test",
		"base_url": srv.URL,
	})
	require.NoError(t, err)
	messages := []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleUser, Content: "question"},
	}
	answer, err := provider.Complete(context.Background(), "gpt-4", messages)
	require.NoError(t, err)
	require.Equal(t, "hello from the model", answer)
	require.Equal(t, messages, *captured)
}

func TestOpenAIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)
	provider, err := NewProvider("openai", map[string]interface{}{
		"api_key":  "sk-test",
		"base_url": srv.URL,
	})
	require.NoError(t, err)
	_, err = provider.Embed(context.Background(), "m", "text")
	require.Error(t, err)
	require.Contains(t, err.Error(), "quota exceeded")
}

func TestOpenAIMissingKey(t *testing.T) {
	provider, err := NewProvider("openai", map[string]interface{}{})
	require.NoError(t, err)
	_, err = provider.Embed(context.Background(), "m", "text")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("clippy", map[string]interface{}{})
	require.Error(t, err)
}
