package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vokinneberg/rag-chat-assistant/internal/types"
)

func TestGeminiClient_Complete(t *testing.T) {
	var got map[string]any
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{
					"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": "Bonjour"}}},
					"finishReason": "STOP",
				},
			},
		})
	}))
	defer server.Close()

	c, err := NewGeminiClient(context.Background(), "key", "gemini-2.0-flash", server.URL, server.Client())
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), []types.ChatMessage{
		{Role: types.RoleSystem, Content: "context here"},
		{Role: types.RoleAssistant, Content: "earlier answer"},
		{Role: types.RoleUser, Content: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", reply)
	assert.True(t, strings.HasSuffix(path, "models/gemini-2.0-flash:generateContent"), path)

	contents, ok := got["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 2)
	assert.Equal(t, "model", contents[0].(map[string]any)["role"])
	assert.Equal(t, "user", contents[1].(map[string]any)["role"])

	assert.Contains(t, got, "systemInstruction")
	generation, ok := got["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(800), generation["maxOutputTokens"])
}

func TestGeminiClient_Complete_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	c, err := NewGeminiClient(context.Background(), "key", "gemini-2.0-flash", server.URL, server.Client())
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), []types.ChatMessage{{Role: types.RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, types.ErrNoCompletion)
}

func TestGeminiClient_Complete_WhitespaceOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  \n "}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	c, err := NewGeminiClient(context.Background(), "key", "gemini-2.0-flash", server.URL, server.Client())
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), []types.ChatMessage{{Role: types.RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, types.ErrNoCompletion)
}
