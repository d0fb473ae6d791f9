package analyzer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cctvapi/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, baseURL string) *Gemini {
	t.Helper()
	g, err := NewGemini(config.GeminiConfig{
		APIKey:     "test-key",
		Model:      "gemini-2.0-flash",
		BaseURL:    baseURL,
		Prompt:     "Describe this frame.",
		TimeoutSec: 5,
	})
	require.NoError(t, err)
	return g
}

func TestNewGemini_MissingKey(t *testing.T) {
	g, err := NewGemini(config.GeminiConfig{})
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
	assert.Nil(t, g)
}

func TestGemini_Describe(t *testing.T) {
	image := []byte("fake-jpeg-bytes")

	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Contents, 1)
			require.Len(t, req.Contents[0].Parts, 2)
			assert.Equal(t, base64.StdEncoding.EncodeToString(image), req.Contents[0].Parts[0].InlineData.Data)
			assert.Equal(t, "image/jpeg", req.Contents[0].Parts[0].InlineData.MimeType)
			assert.Equal(t, "Describe this frame.", req.Contents[0].Parts[1].Text)

			json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]any{
						{"text": "A parked car "},
						{"text": "near the entrance."},
					}}},
				},
			})
		}))
		defer srv.Close()

		g := newTestGemini(t, srv.URL)
		text, err := g.Describe(context.Background(), image, "image/jpeg")

		assert.NoError(t, err)
		assert.Equal(t, "A parked car near the entrance.", text)
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 429, "message": "quota exceeded"},
			})
		}))
		defer srv.Close()

		g := newTestGemini(t, srv.URL)
		text, err := g.Describe(context.Background(), image, "image/jpeg")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
		assert.Empty(t, text)
	})

	t.Run("no candidates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
		}))
		defer srv.Close()

		g := newTestGemini(t, srv.URL)
		_, err := g.Describe(context.Background(), image, "image/jpeg")

		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("empty image", func(t *testing.T) {
		g := newTestGemini(t, "http://localhost:1")
		_, err := g.Describe(context.Background(), nil, "image/jpeg")

		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		g := newTestGemini(t, srv.URL)
		_, err := g.Describe(ctx, image, "image/jpeg")

		assert.Error(t, err)
	})
}
