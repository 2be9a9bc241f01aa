package activities

import (
	"context"

	"datastudio/internal/agents"
	"datastudio/internal/llm"
	"datastudio/internal/models"
)

// RunAgentInput is the input for the RunAgent activity.
type RunAgentInput struct {
	Agent          agents.Definition  `json:"agent"`
	Row            models.RowSnapshot `json:"row"`
	RequiredFields []string           `json:"required_fields,omitempty"`
}

// RunAgentOutput is the output from the RunAgent activity.
type RunAgentOutput struct {
	Text         string `json:"text"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// AgentActivities contains LLM agent activities.
type AgentActivities struct {
	client llm.Client
}

// NewAgentActivities creates a new AgentActivities instance.
func NewAgentActivities(client llm.Client) *AgentActivities {
	return &AgentActivities{client: client}
}

// RunAgent renders the agent's prompt against one worklist row and runs it
// through the agent's configured provider.
func (a *AgentActivities) RunAgent(ctx context.Context, input RunAgentInput) (RunAgentOutput, error) {
	promptCtx := agents.BuildContext(input.Row, input.RequiredFields)
	prompt, err := agents.RenderPrompt(input.Agent, promptCtx, false)
	if err != nil {
		return RunAgentOutput{}, err
	}

	resp, err := a.client.Complete(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		ModelConfig: input.Agent.ModelConfig(),
	})
	if err != nil {
		return RunAgentOutput{}, err
	}
	return RunAgentOutput{
		Text:         resp.Text,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}, nil
}
