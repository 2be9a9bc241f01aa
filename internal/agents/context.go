package agents

import (
	"encoding/json"
	"strings"

	"datastudio/internal/models"
	"datastudio/internal/template"
)

// BuildContext assembles the placeholder values available to agent prompts
// for one worklist row:
//
//   - row_json:             the full row as pretty-printed JSON
//   - required_fields_csv:  the required-fields list, comma separated
//   - every column name:    the raw cell value
func BuildContext(row models.RowSnapshot, requiredFields []string) map[string]string {
	ctx := make(map[string]string, len(row.Values)+2)
	for col, val := range row.Values {
		ctx[col] = val
	}

	rowJSON, err := json.MarshalIndent(row.Values, "", "  ")
	if err != nil {
		rowJSON = []byte("{}")
	}
	ctx["row_json"] = string(rowJSON)
	ctx["required_fields_csv"] = strings.Join(requiredFields, ", ")
	return ctx
}

// RenderPrompt substitutes the context into the agent's prompt template.
// Unknown placeholders are preserved verbatim, matching how document
// placeholders behave; pass strict=true to fail on them instead.
func RenderPrompt(d Definition, ctx map[string]string, strict bool) (string, error) {
	if strict {
		return template.RenderStrict(d.Prompt, ctx)
	}
	return template.Render(d.Prompt, ctx), nil
}
