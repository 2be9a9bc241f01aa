package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datastudio/internal/models"
)

func TestParse_Valid(t *testing.T) {
	yaml := `
agents:
  - id: validator
    name: Data Validator
    provider: openai
    model: gpt-4o-mini
    temperature: 0.1
    max_tokens: 512
    prompt: "Validate: {{row_json}}"
  - id: enricher
    provider: gemini
    model: gemini-2.0-flash-exp
    prompt: "Enrich: {{row_json}}"
`
	defs, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "validator", defs[0].ID)
	assert.Equal(t, "Data Validator", defs[0].Name)
	assert.Equal(t, "gemini", defs[1].Provider)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("agents: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid agents YAML")
}

func TestParse_EmptyList(t *testing.T) {
	_, err := Parse([]byte("agents: []"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestParse_MissingID(t *testing.T) {
	_, err := Parse([]byte("agents:\n  - prompt: hi\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id is required")
}

func TestParse_DuplicateID(t *testing.T) {
	yaml := `
agents:
  - id: a
    prompt: one
  - id: a
    prompt: two
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestParse_MissingPrompt(t *testing.T) {
	_, err := Parse([]byte("agents:\n  - id: a\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt is required")
}

func TestParse_UnknownProvider(t *testing.T) {
	yaml := `
agents:
  - id: a
    provider: cohere
    prompt: hi
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
	assert.Contains(t, err.Error(), "cohere")
}

func TestParse_TemperatureOutOfRange(t *testing.T) {
	yaml := `
agents:
  - id: a
    temperature: 2.5
    prompt: hi
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
}

func TestParse_MaxTokensOutOfRange(t *testing.T) {
	yaml := `
agents:
  - id: a
    max_tokens: 100000
    prompt: hi
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens")
}

// TestDefault verifies the embedded default set parses and covers all
// supported providers.
func TestDefault(t *testing.T) {
	defs := Default()
	require.Len(t, defs, 10)

	providers := make(map[string]bool)
	for _, d := range defs {
		providers[d.Provider] = true
	}
	assert.True(t, providers["openai"])
	assert.True(t, providers["gemini"])
	assert.True(t, providers["grok"])
}

func TestDefinition_DisplayName(t *testing.T) {
	assert.Equal(t, "Fancy", Definition{ID: "x", Name: "Fancy"}.DisplayName())
	assert.Equal(t, "x", Definition{ID: "x"}.DisplayName())
}

// TestDefinition_ModelConfig verifies defaults fill unset fields only.
func TestDefinition_ModelConfig(t *testing.T) {
	cfg := Definition{ID: "a", Provider: "grok", Model: "grok-beta"}.ModelConfig()
	assert.Equal(t, "grok", cfg.Provider)
	assert.Equal(t, "grok-beta", cfg.Model)
	assert.InDelta(t, 0.3, cfg.Temperature, 0.001) // default
	assert.Equal(t, 512, cfg.MaxTokens)            // default

	full := Definition{ID: "b", Temperature: 0.9, MaxTokens: 256}.ModelConfig()
	assert.Equal(t, "openai", full.Provider)
	assert.InDelta(t, 0.9, full.Temperature, 0.001)
	assert.Equal(t, 256, full.MaxTokens)
}

func TestBuildContext(t *testing.T) {
	row := models.RowSnapshot{
		SheetRow: 2,
		Values:   map[string]string{"Company": "Acme", "Industry": "Robotics"},
	}
	ctx := BuildContext(row, []string{"Company", "Revenue"})

	assert.Equal(t, "Acme", ctx["Company"])
	assert.Equal(t, "Company, Revenue", ctx["required_fields_csv"])
	assert.Contains(t, ctx["row_json"], `"Company": "Acme"`)
	assert.Contains(t, ctx["row_json"], `"Industry": "Robotics"`)
}

func TestRenderPrompt_Lenient(t *testing.T) {
	d := Definition{ID: "a", Prompt: "Data: {{row_json}} Extra: {{unknown}}"}
	out, err := RenderPrompt(d, map[string]string{"row_json": "{}"}, false)
	require.NoError(t, err)
	assert.Equal(t, "Data: {} Extra: {{unknown}}", out)
}

func TestRenderPrompt_Strict(t *testing.T) {
	d := Definition{ID: "a", Prompt: "Data: {{row_json}} Extra: {{unknown}}"}
	_, err := RenderPrompt(d, map[string]string{"row_json": "{}"}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}
