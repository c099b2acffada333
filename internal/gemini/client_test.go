package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiazJL07/Braincare/internal/gemini"
)

// stubCompletion serves an OpenAI-compatible chat completion response.
func stubCompletion(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"model":   req.Model,
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"}},
		})
	}))
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := gemini.NewClient("")
	require.True(t, gemini.IsNotConfiguredError(err))
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := gemini.NewClient("key")
	require.NoError(t, err)
	assert.Equal(t, gemini.DefaultModel, c.Model())
}

func TestGenerate(t *testing.T) {
	ts := stubCompletion(t, "  Hola 💙 ¿cómo estás?  ")
	defer ts.Close()

	c, err := gemini.NewClient("key",
		gemini.WithBaseURL(ts.URL),
		gemini.WithModel("gemini-2.5-flash"),
	)
	require.NoError(t, err)

	reply, err := c.Generate(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "Hola 💙 ¿cómo estás?", reply, "reply should be trimmed")
}

func TestGenerate_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","choices":[]}`))
	}))
	defer ts.Close()

	c, err := gemini.NewClient("key", gemini.WithBaseURL(ts.URL))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "hola")
	require.True(t, gemini.IsGenerationError(err))
}

func TestGenerate_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	c, err := gemini.NewClient("bad-key", gemini.WithBaseURL(ts.URL))
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "hola")
	require.True(t, gemini.IsGenerationError(err))
}
