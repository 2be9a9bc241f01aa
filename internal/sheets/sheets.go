// Package sheets wraps the Google Sheets API for worklist access: creating a
// worklist spreadsheet, reading its rows, ensuring the control columns exist,
// and writing per-row status updates back.
package sheets

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"datastudio/internal/models"
)

// DefaultSheetName is the tab name used for worklists created by setup.
const DefaultSheetName = "Sheet1"

// Client wraps the Sheets service with worklist-level operations.
type Client struct {
	svc *sheetsapi.Service
}

// NewClient creates a Sheets client. With no options, credentials are taken
// from the file named by GOOGLE_SERVICE_ACCOUNT_JSON.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	if len(opts) == 0 {
		credsPath := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
		if credsPath == "" {
			return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON is not set")
		}
		opts = append(opts,
			option.WithCredentialsFile(credsPath),
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		)
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// CreateWorklist creates a new spreadsheet with the given title, writes the
// header row followed by the data rows, and returns the spreadsheet ID.
func (c *Client) CreateWorklist(ctx context.Context, title string, headers []string, rows [][]string) (string, error) {
	spreadsheet, err := c.svc.Spreadsheets.Create(&sheetsapi.Spreadsheet{
		Properties: &sheetsapi.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create spreadsheet: %w", err)
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toCells(headers))
	for _, row := range rows {
		values = append(values, toCells(row))
	}

	_, err = c.svc.Spreadsheets.Values.Update(spreadsheet.SpreadsheetId,
		fmt.Sprintf("%s!A1", DefaultSheetName),
		&sheetsapi.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write worklist rows: %w", err)
	}
	return spreadsheet.SpreadsheetId, nil
}

// ReadWorklist reads the header row and all data rows of a worklist. Data
// rows are keyed by header name; rows shorter than the header are padded
// with empty strings. SheetRow is the 1-based row number in the sheet, so
// the first data row is 2.
func (c *Client) ReadWorklist(ctx context.Context, spreadsheetID, sheetName string) ([]string, []models.RowSnapshot, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, sheetName).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("read worklist: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, nil
	}

	headers := fromCells(resp.Values[0])
	rows := make([]models.RowSnapshot, 0, len(resp.Values)-1)
	for i, raw := range resp.Values[1:] {
		cells := fromCells(raw)
		values := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(cells) {
				values[h] = cells[j]
			} else {
				values[h] = ""
			}
		}
		rows = append(rows, models.RowSnapshot{SheetRow: i + 2, Values: values})
	}
	return headers, rows, nil
}

// EnsureControlColumns appends any missing control columns to the header row
// and returns the full header list. Existing columns are never reordered.
func (c *Client) EnsureControlColumns(ctx context.Context, spreadsheetID, sheetName string, headers []string) ([]string, error) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	updated := append([]string(nil), headers...)
	for _, col := range models.ControlColumns() {
		if !present[col] {
			updated = append(updated, col)
		}
	}
	if len(updated) == len(headers) {
		return headers, nil
	}

	_, err := c.svc.Spreadsheets.Values.Update(spreadsheetID,
		fmt.Sprintf("%s!1:1", sheetName),
		&sheetsapi.ValueRange{Values: [][]interface{}{toCells(updated)}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}
	return updated, nil
}

// WriteRowUpdates writes the given column values into a single sheet row in
// one batch. Columns not present in the header are an error.
func (c *Client) WriteRowUpdates(ctx context.Context, spreadsheetID, sheetName string, sheetRow int, headers []string, updates map[string]string) error {
	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		colIndex[h] = i + 1
	}

	data := make([]*sheetsapi.ValueRange, 0, len(updates))
	for col, value := range updates {
		idx, ok := colIndex[col]
		if !ok {
			return fmt.Errorf("column %q not in header row", col)
		}
		data = append(data, &sheetsapi.ValueRange{
			Range:  fmt.Sprintf("%s!%s", sheetName, CellRef(idx, sheetRow)),
			Values: [][]interface{}{{value}},
		})
	}
	if len(data) == 0 {
		return nil
	}

	_, err := c.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write row %d: %w", sheetRow, err)
	}
	return nil
}

// SpreadsheetURL returns the browser URL for a spreadsheet.
func SpreadsheetURL(spreadsheetID string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", spreadsheetID)
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

func fromCells(row []interface{}) []string {
	cells := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		cells[i] = fmt.Sprint(v)
	}
	return cells
}
