package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// grokBaseURL is the xAI API endpoint. The API is OpenAI-compatible, so the
// client reuses the OpenAI SDK's chat completions surface.
const grokBaseURL = "https://api.x.ai/v1"

// GrokClient talks to xAI's Grok models. The API key is read from
// XAI_API_KEY unless overridden via options.
type GrokClient struct {
	client openai.Client
}

// NewGrokClient creates a Grok completion client. Extra options are applied
// after the defaults so tests can redirect the base URL.
func NewGrokClient(opts ...option.RequestOption) *GrokClient {
	merged := append([]option.RequestOption{
		option.WithBaseURL(grokBaseURL),
		option.WithAPIKey(os.Getenv("XAI_API_KEY")),
	}, opts...)
	return &GrokClient{client: openai.NewClient(merged...)}
}

// Complete sends the prompt via the chat completions endpoint.
func (c *GrokClient) Complete(ctx context.Context, request CompletionRequest) (CompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if request.System != "" {
		messages = append(messages, openai.SystemMessage(request.System))
	}
	messages = append(messages, openai.UserMessage(request.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(request.ModelConfig.Model),
		Messages: messages,
	}
	if t := request.ModelConfig.Temperature; t > 0 {
		params.Temperature = openai.Float(t)
	}
	if m := request.ModelConfig.MaxTokens; m > 0 {
		params.MaxTokens = openai.Int(int64(m))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return CompletionResponse{}, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return CompletionResponse{}, fmt.Errorf("grok returned no choices")
	}

	return CompletionResponse{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
	}, nil
}
