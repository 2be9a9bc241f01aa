// Package activities holds the Temporal activities: worklist access, document
// generation, agent completions, and run history recording.
package activities

import (
	"context"

	"datastudio/internal/models"
	"datastudio/internal/sheets"
)

// ReadWorklistInput is the input for the ReadWorklist activity.
type ReadWorklistInput struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	SheetName     string `json:"sheet_name"`
}

// ReadWorklistOutput is the output from the ReadWorklist activity.
type ReadWorklistOutput struct {
	Headers []string             `json:"headers,omitempty"`
	Rows    []models.RowSnapshot `json:"rows,omitempty"`
}

// EnsureControlColumnsInput is the input for the EnsureControlColumns activity.
type EnsureControlColumnsInput struct {
	SpreadsheetID string   `json:"spreadsheet_id"`
	SheetName     string   `json:"sheet_name"`
	Headers       []string `json:"headers"`
}

// EnsureControlColumnsOutput is the output from the EnsureControlColumns activity.
type EnsureControlColumnsOutput struct {
	Headers []string `json:"headers"`
}

// WriteRowUpdatesInput is the input for the WriteRowUpdates activity.
type WriteRowUpdatesInput struct {
	SpreadsheetID string            `json:"spreadsheet_id"`
	SheetName     string            `json:"sheet_name"`
	SheetRow      int               `json:"sheet_row"`
	Headers       []string          `json:"headers"`
	Updates       map[string]string `json:"updates"`
}

// SheetActivities contains worklist spreadsheet activities.
type SheetActivities struct {
	client *sheets.Client
}

// NewSheetActivities creates a new SheetActivities instance.
func NewSheetActivities(client *sheets.Client) *SheetActivities {
	return &SheetActivities{client: client}
}

// ReadWorklist reads the worklist header and data rows.
func (a *SheetActivities) ReadWorklist(ctx context.Context, input ReadWorklistInput) (ReadWorklistOutput, error) {
	headers, rows, err := a.client.ReadWorklist(ctx, input.SpreadsheetID, input.SheetName)
	if err != nil {
		return ReadWorklistOutput{}, err
	}
	return ReadWorklistOutput{Headers: headers, Rows: rows}, nil
}

// EnsureControlColumns appends any missing control columns to the header row.
func (a *SheetActivities) EnsureControlColumns(ctx context.Context, input EnsureControlColumnsInput) (EnsureControlColumnsOutput, error) {
	headers, err := a.client.EnsureControlColumns(ctx, input.SpreadsheetID, input.SheetName, input.Headers)
	if err != nil {
		return EnsureControlColumnsOutput{}, err
	}
	return EnsureControlColumnsOutput{Headers: headers}, nil
}

// WriteRowUpdates writes column values into one worklist row.
func (a *SheetActivities) WriteRowUpdates(ctx context.Context, input WriteRowUpdatesInput) error {
	return a.client.WriteRowUpdates(ctx, input.SpreadsheetID, input.SheetName,
		input.SheetRow, input.Headers, input.Updates)
}
