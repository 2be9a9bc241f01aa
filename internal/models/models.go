// Package models contains types shared between the CLI, workflows, and
// activities. Everything here crosses a Temporal payload boundary, so all
// fields are JSON-serializable.
package models

// Control columns appended to every worklist sheet after the user headers.
// Order matters: EnsureControlColumns appends missing ones in this order.
const (
	TriggerColumn   = "Generate"
	StatusColumn    = "Status"
	DocURLColumn    = "Doc URL"
	TimestampColumn = "Generated At"
	PDFURLColumn    = "PDF URL"
)

// ControlColumns returns the control column headers in canonical order.
func ControlColumns() []string {
	return []string{TriggerColumn, StatusColumn, DocURLColumn, TimestampColumn, PDFURLColumn}
}

// StatusDone is written to the status column after successful generation.
// Row failures get "Error: <message>" instead.
const (
	StatusDone        = "Done"
	StatusErrorPrefix = "Error"
)

// TimestampLayout formats the Generated At cell value.
const TimestampLayout = "2006-01-02 15:04:05"

// RowSnapshot is a header-mapped view of a single worklist row.
type RowSnapshot struct {
	// SheetRow is the 1-based sheet row number, where row 1 is the header.
	// The first data row is 2, matching what users see in the sheet UI.
	SheetRow int `json:"sheet_row"`

	Values map[string]string `json:"values"`
}

// Get returns the cell value for the given column, or "" when absent.
func (r RowSnapshot) Get(column string) string {
	if r.Values == nil {
		return ""
	}
	return r.Values[column]
}

// HasDocURL reports whether the row already carries a generated document URL.
// Such rows are never regenerated.
func (r RowSnapshot) HasDocURL() bool {
	return r.Get(DocURLColumn) != ""
}

// ModelConfig selects the LLM provider and sampling parameters for one agent.
type ModelConfig struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultModelConfig returns the fallback model configuration used when an
// agent definition omits model settings.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		MaxTokens:   512,
	}
}

// StatusClass buckets a status cell value for display.
type StatusClass int

const (
	StatusClassPending StatusClass = iota
	StatusClassSuccess
	StatusClassFailed
)

// ClassifyStatus maps a raw status cell value to its display class.
// "Done*" counts as success, "Error*" as failure, everything else
// (including empty) as pending.
func ClassifyStatus(status string) StatusClass {
	switch {
	case hasFold(status, StatusDone):
		return StatusClassSuccess
	case hasFold(status, StatusErrorPrefix):
		return StatusClassFailed
	default:
		return StatusClassPending
	}
}

// hasFold reports whether s starts with prefix, ASCII case-insensitively.
func hasFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		a, b := s[i], prefix[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}
