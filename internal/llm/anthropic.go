package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicDefaultMaxTokens is used when the agent does not set max_tokens;
// the Messages API requires a positive value.
const anthropicDefaultMaxTokens = 1024

// AnthropicClient talks to the Anthropic Messages API. The API key is read
// from ANTHROPIC_API_KEY unless overridden via options.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates an Anthropic completion client.
func NewAnthropicClient(opts ...option.RequestOption) *AnthropicClient {
	return &AnthropicClient{client: anthropic.NewClient(opts...)}
}

// Complete sends the prompt and returns the concatenated text blocks of the
// response.
func (c *AnthropicClient) Complete(ctx context.Context, request CompletionRequest) (CompletionResponse, error) {
	maxTokens := request.ModelConfig.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(request.ModelConfig.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	}
	if request.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: request.System},
		}
	}
	if t := request.ModelConfig.Temperature; t > 0 {
		params.Temperature = anthropic.Float(t)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return CompletionResponse{}, classifyError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return CompletionResponse{
		Text:         sb.String(),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}, nil
}
