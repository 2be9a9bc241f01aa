package llm

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIClient talks to the OpenAI Responses API. The API key is read from
// OPENAI_API_KEY unless overridden via options.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates an OpenAI completion client.
func NewOpenAIClient(opts ...option.RequestOption) *OpenAIClient {
	return &OpenAIClient{client: openai.NewClient(opts...)}
}

// Complete sends the prompt and returns the response text.
func (c *OpenAIClient) Complete(ctx context.Context, request CompletionRequest) (CompletionResponse, error) {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(request.ModelConfig.Model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(request.Prompt),
		},
	}
	if request.System != "" {
		params.Instructions = openai.String(request.System)
	}
	if t := request.ModelConfig.Temperature; t > 0 {
		params.Temperature = openai.Float(t)
	}
	if m := request.ModelConfig.MaxTokens; m > 0 {
		params.MaxOutputTokens = openai.Int(int64(m))
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return CompletionResponse{}, classifyError(err)
	}

	return CompletionResponse{
		Text:         resp.OutputText(),
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}, nil
}
