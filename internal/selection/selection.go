// Package selection decides which worklist rows a generation run operates
// on: rows with the trigger column checked, rows missing a document, an
// explicit row list, or rows matching a filter expression.
package selection

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"

	"datastudio/internal/models"
)

// Mode names a row selection strategy.
type Mode string

const (
	// ModeTriggered selects rows whose trigger column holds a truthy value.
	ModeTriggered Mode = "triggered"
	// ModeMissingDoc selects rows with no document URL yet.
	ModeMissingDoc Mode = "missing-doc"
	// ModeManual selects an explicit list of 1-based data row numbers.
	ModeManual Mode = "manual"
	// ModeExpr selects rows matching a Starlark predicate over the row.
	ModeExpr Mode = "expr"
)

// Request describes which rows to select and whether to regenerate rows
// that already have a document.
type Request struct {
	Mode  Mode   `json:"mode"`
	Rows  []int  `json:"rows,omitempty"`
	Expr  string `json:"expr,omitempty"`
	Force bool   `json:"force,omitempty"`
}

// Result holds the selected rows plus a count of rows skipped because they
// already have a document URL.
type Result struct {
	Selected []models.RowSnapshot
	Skipped  int
}

// triggerValues are the cell values treated as a checked trigger.
var triggerValues = map[string]bool{
	"true":    true,
	"yes":     true,
	"y":       true,
	"1":       true,
	"checked": true,
}

// IsTriggered reports whether a trigger cell value counts as checked.
func IsTriggered(value string) bool {
	return triggerValues[strings.ToLower(strings.TrimSpace(value))]
}

// Select applies the request to the worklist rows. Unless Force is set, rows
// that already have a document URL are dropped from the selection and
// counted in Skipped, so re-running a generation never overwrites existing
// documents.
func Select(req Request, rows []models.RowSnapshot) (Result, error) {
	var candidates []models.RowSnapshot
	var err error

	switch req.Mode {
	case ModeTriggered:
		for _, row := range rows {
			if IsTriggered(row.Get(models.TriggerColumn)) {
				candidates = append(candidates, row)
			}
		}
	case ModeMissingDoc:
		for _, row := range rows {
			if !row.HasDocURL() {
				candidates = append(candidates, row)
			}
		}
	case ModeManual:
		candidates, err = selectManual(req.Rows, rows)
	case ModeExpr:
		candidates, err = selectExpr(req.Expr, rows)
	default:
		return Result{}, fmt.Errorf("unknown selection mode: %q", req.Mode)
	}
	if err != nil {
		return Result{}, err
	}

	if req.Force {
		return Result{Selected: candidates}, nil
	}

	result := Result{}
	for _, row := range candidates {
		if row.HasDocURL() {
			result.Skipped++
			continue
		}
		result.Selected = append(result.Selected, row)
	}
	return result, nil
}

func selectManual(numbers []int, rows []models.RowSnapshot) ([]models.RowSnapshot, error) {
	if len(numbers) == 0 {
		return nil, fmt.Errorf("manual selection needs at least one row number")
	}
	var selected []models.RowSnapshot
	for _, n := range numbers {
		if n < 1 || n > len(rows) {
			return nil, fmt.Errorf("row %d out of range (worklist has %d data rows)", n, len(rows))
		}
		selected = append(selected, rows[n-1])
	}
	return selected, nil
}

// selectExpr evaluates a Starlark expression once per row with the row's
// values bound to a dict named row, e.g. row["Industry"] == "Technology".
func selectExpr(expr string, rows []models.RowSnapshot) ([]models.RowSnapshot, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("expression selection needs a non-empty expression")
	}

	var selected []models.RowSnapshot
	for _, row := range rows {
		dict := starlark.NewDict(len(row.Values))
		for k, v := range row.Values {
			if err := dict.SetKey(starlark.String(k), starlark.String(v)); err != nil {
				return nil, fmt.Errorf("build row dict: %w", err)
			}
		}

		thread := &starlark.Thread{Name: "row-filter"}
		value, err := starlark.Eval(thread, "filter", expr, starlark.StringDict{"row": dict})
		if err != nil {
			return nil, fmt.Errorf("evaluate filter on sheet row %d: %w", row.SheetRow, err)
		}
		if bool(value.Truth()) {
			selected = append(selected, row)
		}
	}
	return selected, nil
}
