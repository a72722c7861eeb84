package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "models/gemini-2.0-flash:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"respuesta generada"}]}}]}`))
	}))
	defer server.Close()

	client := NewClientWithConfig(Config{APIKey: "test-key", BaseURL: server.URL})
	texto, err := client.Generate(context.Background(), "analiza esto")
	require.NoError(t, err)
	assert.Equal(t, "respuesta generada", texto)
}

func TestGenerateAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	client := NewClientWithConfig(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Generate(context.Background(), "analiza esto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESOURCE_EXHAUSTED")
}

func TestGenerateEmptyCandidates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewClientWithConfig(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.Generate(context.Background(), "analiza esto")
	assert.Error(t, err)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	t.Parallel()

	client := NewClient("")
	_, err := client.Generate(context.Background(), "analiza esto")
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	client := NewClientWithConfig(Config{APIKey: "k"})
	assert.Equal(t, "gemini-2.0-flash", client.Model())
}
