package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datastudio/internal/models"
)

// TestDetectProviderFromModel covers the model-name to provider mapping.
func TestDetectProviderFromModel(t *testing.T) {
	tests := []struct {
		model    string
		provider string
	}{
		{"claude-3-5-haiku-latest", "anthropic"},
		{"claude-sonnet-4-20250514", "anthropic"},
		{"gemini-2.0-flash", "gemini"},
		{"grok-beta", "grok"},
		{"gpt-4o-mini", "openai"},
		{"o3-mini", "openai"},
		{"", "openai"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.provider, DetectProviderFromModel(tt.model), "model %q", tt.model)
	}
}

// TestMultiProviderComplete_UnsupportedProvider verifies the error names the
// supported set.
func TestMultiProviderComplete_UnsupportedProvider(t *testing.T) {
	client := NewMultiProviderClient()

	_, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "hello",
		ModelConfig: models.ModelConfig{Provider: "cohere", Model: "command-r"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider: cohere")
	assert.Contains(t, err.Error(), "supported: openai, anthropic, gemini, grok")
}
