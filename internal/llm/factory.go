package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MultiProviderClient implements Client by dispatching to the appropriate
// provider based on ModelConfig.Provider.
//
// This lets a single activity worker serve agents configured against any
// provider without knowing the mix at registration time.
type MultiProviderClient struct {
	openai    *OpenAIClient
	anthropic *AnthropicClient
	grok      *GrokClient

	// Gemini construction can fail (client setup validates configuration),
	// so it is created on first use.
	geminiOnce sync.Once
	gemini     *GeminiClient
	geminiErr  error
}

// NewMultiProviderClient creates a client that can dispatch to all providers.
func NewMultiProviderClient() *MultiProviderClient {
	return &MultiProviderClient{
		openai:    NewOpenAIClient(),
		anthropic: NewAnthropicClient(),
		grok:      NewGrokClient(),
	}
}

// Complete dispatches to the provider named in ModelConfig.Provider. When the
// provider is empty it is inferred from the model name, defaulting to OpenAI.
func (c *MultiProviderClient) Complete(ctx context.Context, request CompletionRequest) (CompletionResponse, error) {
	provider := request.ModelConfig.Provider
	if provider == "" {
		provider = DetectProviderFromModel(request.ModelConfig.Model)
	}

	switch provider {
	case "openai":
		return c.openai.Complete(ctx, request)
	case "anthropic":
		return c.anthropic.Complete(ctx, request)
	case "grok":
		return c.grok.Complete(ctx, request)
	case "gemini":
		gemini, err := c.geminiClient(ctx)
		if err != nil {
			return CompletionResponse{}, fmt.Errorf("gemini client init: %w", err)
		}
		return gemini.Complete(ctx, request)
	default:
		return CompletionResponse{}, fmt.Errorf("unsupported LLM provider: %s (supported: openai, anthropic, gemini, grok)", provider)
	}
}

func (c *MultiProviderClient) geminiClient(ctx context.Context) (*GeminiClient, error) {
	c.geminiOnce.Do(func() {
		c.gemini, c.geminiErr = NewGeminiClient(ctx, nil)
	})
	return c.gemini, c.geminiErr
}

// DetectProviderFromModel infers the provider from the model name.
func DetectProviderFromModel(model string) string {
	switch {
	case strings.HasPrefix(model, "claude"):
		return "anthropic"
	case strings.HasPrefix(model, "gemini"):
		return "gemini"
	case strings.HasPrefix(model, "grok"):
		return "grok"
	default:
		return "openai"
	}
}
