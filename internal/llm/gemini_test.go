package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"datastudio/internal/models"
)

// fakeGenerateContentResponse returns a minimal valid generateContent reply.
func fakeGenerateContentResponse() string {
	return `{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": "Gemini reply"}]},
			"finishReason": "STOP",
			"index": 0
		}],
		"usageMetadata": {"promptTokenCount": 9, "candidatesTokenCount": 4, "totalTokenCount": 13}
	}`
}

func newGeminiTestClient(t *testing.T, server *httptest.Server) *GeminiClient {
	t.Helper()
	client, err := NewGeminiClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: server.URL},
	})
	require.NoError(t, err)
	return client
}

// TestGeminiComplete_ResponseParsed verifies candidate text and usage metadata
// extraction.
func TestGeminiComplete_ResponseParsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, fakeGenerateContentResponse())
	}))
	defer server.Close()

	client := newGeminiTestClient(t, server)

	resp, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "hello",
		ModelConfig: models.ModelConfig{Provider: "gemini", Model: "gemini-2.0-flash"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Gemini reply", resp.Text)
	assert.Equal(t, 9, resp.InputTokens)
	assert.Equal(t, 4, resp.OutputTokens)
}

// TestGeminiComplete_ModelInPath verifies the configured model name is used
// in the request URL.
func TestGeminiComplete_ModelInPath(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, fakeGenerateContentResponse())
	}))
	defer server.Close()

	client := newGeminiTestClient(t, server)

	_, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "hello",
		ModelConfig: models.ModelConfig{Provider: "gemini", Model: "gemini-2.0-flash"},
	})
	require.NoError(t, err)

	assert.True(t, strings.Contains(path, "gemini-2.0-flash"), "model name in path, got %q", path)
}

// TestGeminiComplete_ErrorClassified verifies a 429 surfaces as a retryable
// API-limit error.
func TestGeminiComplete_ErrorClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`)
	}))
	defer server.Close()

	client := newGeminiTestClient(t, server)

	_, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "hello",
		ModelConfig: models.ModelConfig{Provider: "gemini", Model: "gemini-2.0-flash"},
	})
	require.Error(t, err)

	var actErr *models.ActivityError
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, models.ErrorTypeAPILimit, actErr.Type)
	assert.True(t, actErr.Retryable)
}
