// Package agents loads and validates the agents.yaml configuration that
// drives the agent runner: which prompts to run, against which provider and
// model, and with what sampling parameters.
package agents

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"datastudio/internal/models"
)

//go:embed default_agents.yaml
var defaultAgentsYAML []byte

// Definition is a single agent entry from agents.yaml.
type Definition struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name,omitempty"`
	Provider    string  `yaml:"provider" json:"provider,omitempty"`
	Model       string  `yaml:"model" json:"model,omitempty"`
	Temperature float64 `yaml:"temperature" json:"temperature,omitempty"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens,omitempty"`
	Prompt      string  `yaml:"prompt" json:"prompt"`
}

// DisplayName returns the agent's name, falling back to its ID.
func (d Definition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// ModelConfig converts the definition into an LLM model configuration,
// filling gaps from the defaults.
func (d Definition) ModelConfig() models.ModelConfig {
	cfg := models.DefaultModelConfig()
	if d.Provider != "" {
		cfg.Provider = d.Provider
	}
	if d.Model != "" {
		cfg.Model = d.Model
	}
	if d.Temperature != 0 {
		cfg.Temperature = d.Temperature
	}
	if d.MaxTokens != 0 {
		cfg.MaxTokens = d.MaxTokens
	}
	return cfg
}

// knownProviders are the provider names the dispatcher accepts.
var knownProviders = map[string]bool{
	"openai":    true,
	"anthropic": true,
	"gemini":    true,
	"grok":      true,
}

// Parse decodes and validates an agents.yaml document.
func Parse(data []byte) ([]Definition, error) {
	var doc struct {
		Agents []Definition `yaml:"agents"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid agents YAML: %w", err)
	}
	if len(doc.Agents) == 0 {
		return nil, fmt.Errorf("agents list must not be empty")
	}

	seen := make(map[string]bool, len(doc.Agents))
	for i, a := range doc.Agents {
		if a.ID == "" {
			return nil, fmt.Errorf("agent %d: id is required", i+1)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("agent %d: duplicate id %q", i+1, a.ID)
		}
		seen[a.ID] = true

		if a.Prompt == "" {
			return nil, fmt.Errorf("agent %q: prompt is required", a.ID)
		}
		if a.Provider != "" && !knownProviders[a.Provider] {
			return nil, fmt.Errorf("agent %q: unknown provider %q (supported: openai, anthropic, gemini, grok)", a.ID, a.Provider)
		}
		if a.Temperature < 0 || a.Temperature > 2 {
			return nil, fmt.Errorf("agent %q: temperature %.2f out of range [0, 2]", a.ID, a.Temperature)
		}
		if a.MaxTokens < 0 || a.MaxTokens > 4096 {
			return nil, fmt.Errorf("agent %q: max_tokens %d out of range [0, 4096]", a.ID, a.MaxTokens)
		}
	}
	return doc.Agents, nil
}

// Default returns the built-in agent set used when no agents.yaml is provided.
func Default() []Definition {
	defs, err := Parse(defaultAgentsYAML)
	if err != nil {
		// The embedded file is part of the build; a parse failure is a bug.
		panic(fmt.Sprintf("embedded default_agents.yaml is invalid: %v", err))
	}
	return defs
}
