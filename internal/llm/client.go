// Package llm provides completion clients for the supported providers
// (OpenAI, Anthropic, Gemini, Grok) behind a single dispatching interface.
//
// The agent runner is completion-shaped: one system prompt, one user prompt,
// one text answer. No tool calls, no streaming.
package llm

import (
	"context"

	"datastudio/internal/models"
)

// CompletionRequest is a single prompt sent to a provider.
type CompletionRequest struct {
	// System is the optional system/instruction prompt.
	System string `json:"system,omitempty"`
	// Prompt is the rendered user prompt.
	Prompt string `json:"prompt"`
	// ModelConfig selects provider, model, and sampling parameters.
	ModelConfig models.ModelConfig `json:"model_config"`
}

// CompletionResponse is the provider's answer.
type CompletionResponse struct {
	Text         string `json:"text"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// Client is implemented by every provider client and by the multi-provider
// dispatcher.
type Client interface {
	Complete(ctx context.Context, request CompletionRequest) (CompletionResponse, error)
}
