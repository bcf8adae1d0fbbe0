package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_GenerateText(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"parts": []any{map[string]any{"text": "  A fine day by the sea.  "}},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := NewGeminiClient(srv.URL, "test-key", "test-model", 5*time.Second)
	require.NoError(t, err)

	out, err := c.GenerateText(context.Background(), "narrate this")
	require.NoError(t, err)
	assert.Equal(t, "A fine day by the sea.", out, "output is trimmed")
	assert.Equal(t, "/v1beta/models/test-model:generateContent", gotPath)

	contents := gotBody["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	assert.Equal(t, "narrate this", parts[0].(map[string]any)["text"])
}

func TestGeminiClient_GenerateWithMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		parts := body["contents"].([]any)[0].(map[string]any)["parts"].([]any)
		require.Len(t, parts, 2)
		inline := parts[1].(map[string]any)["inline_data"].(map[string]any)
		assert.Equal(t, "image/jpeg", inline["mime_type"])
		assert.NotEmpty(t, inline["data"])

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"parts": []any{map[string]any{"text": "a beach"}},
					},
				},
			},
		})
	}))
	defer srv.Close()

	c, err := NewGeminiClient(srv.URL, "test-key", "test-model", 5*time.Second)
	require.NoError(t, err)

	out, err := c.GenerateWithMedia(context.Background(), "describe", []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "a beach", out)
}

func TestGeminiClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota"}`))
	}))
	defer srv.Close()

	c, err := NewGeminiClient(srv.URL, "test-key", "", 5*time.Second)
	require.NoError(t, err)

	_, err = c.GenerateText(context.Background(), "prompt")
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	c, err := NewGeminiClient(srv.URL, "test-key", "", 5*time.Second)
	require.NoError(t, err)

	_, err = c.GenerateText(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient("", "  ", "", time.Second)
	assert.Error(t, err)
}
