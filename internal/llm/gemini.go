package llm

import (
	"context"
	"os"

	"google.golang.org/genai"
)

// GeminiClient talks to the Gemini API via google.golang.org/genai.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini completion client. The API key is read
// from GOOGLE_API_KEY (falling back to GEMINI_API_KEY) when cfg is nil.
func NewGeminiClient(ctx context.Context, cfg *genai.ClientConfig) (*GeminiClient, error) {
	if cfg == nil {
		apiKey := os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		cfg = &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client}, nil
}

// Complete sends the prompt and returns the response text.
func (c *GeminiClient) Complete(ctx context.Context, request CompletionRequest) (CompletionResponse, error) {
	cfg := &genai.GenerateContentConfig{}
	if request.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(request.System, genai.RoleUser)
	}
	if t := request.ModelConfig.Temperature; t > 0 {
		cfg.Temperature = genai.Ptr(float32(t))
	}
	if m := request.ModelConfig.MaxTokens; m > 0 {
		cfg.MaxOutputTokens = int32(m)
	}

	resp, err := c.client.Models.GenerateContent(ctx,
		request.ModelConfig.Model,
		genai.Text(request.Prompt),
		cfg,
	)
	if err != nil {
		return CompletionResponse{}, classifyError(err)
	}

	out := CompletionResponse{Text: resp.Text()}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}
