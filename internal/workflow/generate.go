package workflow

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"datastudio/internal/activities"
	"datastudio/internal/models"
	"datastudio/internal/runs"
	"datastudio/internal/selection"
)

// GenerateInput starts a document generation run.
type GenerateInput struct {
	RunID           string            `json:"run_id"`
	SpreadsheetID   string            `json:"spreadsheet_id"`
	SheetName       string            `json:"sheet_name"`
	TemplateDocID   string            `json:"template_doc_id"`
	FolderName      string            `json:"folder_name,omitempty"`
	FilenamePattern string            `json:"filename_pattern"`
	CreatePDF       bool              `json:"create_pdf,omitempty"`
	Selection       selection.Request `json:"selection"`
}

// RowOutcome is the result of one worklist row within a generation run.
type RowOutcome struct {
	SheetRow int    `json:"sheet_row"`
	Status   string `json:"status"`
	DocURL   string `json:"doc_url,omitempty"`
	PDFURL   string `json:"pdf_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GenerateResult is the final result of a generation run.
type GenerateResult struct {
	RunID   string       `json:"run_id"`
	Total   int          `json:"total"`
	Done    int          `json:"done"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	Rows    []RowOutcome `json:"rows,omitempty"`
}

// generateState tracks progress for the query handler.
type generateState struct {
	progress  Progress
	cancelled bool
}

// DocumentGenerationWorkflow generates one document per selected worklist
// row: copy the template, fill in the row's placeholders, and write status,
// document link, timestamp, and (when requested) the PDF export link back to
// the row. A failing row
// records an error status on its row and never aborts the run.
func DocumentGenerationWorkflow(ctx workflow.Context, input GenerateInput) (GenerateResult, error) {
	logger := workflow.GetLogger(ctx)
	state := &generateState{}

	if err := workflow.SetQueryHandler(ctx, ProgressQuery, func() (Progress, error) {
		return state.progress, nil
	}); err != nil {
		return GenerateResult{}, fmt.Errorf("register progress query: %w", err)
	}
	cancelCh := workflow.GetSignalChannel(ctx, CancelSignal)

	if input.SpreadsheetID == "" || input.TemplateDocID == "" {
		return GenerateResult{}, fmt.Errorf("spreadsheet_id and template_doc_id are required")
	}

	// Read the worklist and make sure the control columns exist before any
	// row gets written.
	sheetCtx := sheetActivityOptions(ctx)

	var worklist activities.ReadWorklistOutput
	err := workflow.ExecuteActivity(sheetCtx, "ReadWorklist", activities.ReadWorklistInput{
		SpreadsheetID: input.SpreadsheetID,
		SheetName:     input.SheetName,
	}).Get(ctx, &worklist)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("read worklist: %w", err)
	}

	var ensured activities.EnsureControlColumnsOutput
	err = workflow.ExecuteActivity(sheetCtx, "EnsureControlColumns", activities.EnsureControlColumnsInput{
		SpreadsheetID: input.SpreadsheetID,
		SheetName:     input.SheetName,
		Headers:       worklist.Headers,
	}).Get(ctx, &ensured)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("ensure control columns: %w", err)
	}
	headers := ensured.Headers

	selected, err := selection.Select(input.Selection, worklist.Rows)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("select rows: %w", err)
	}

	result := GenerateResult{
		RunID:   input.RunID,
		Total:   len(selected.Selected),
		Skipped: selected.Skipped,
	}
	state.progress = Progress{Total: result.Total, Skipped: result.Skipped}
	logger.Info("Generation run starting",
		"run_id", input.RunID,
		"selected", result.Total,
		"skipped", result.Skipped)

	// Run history is best-effort: a broken local store must not stop
	// document generation.
	recordCtx := recordActivityOptions(ctx)
	err = workflow.ExecuteActivity(recordCtx, "RecordRun", activities.RecordRunInput{
		Run: runs.Run{
			ID:         input.RunID,
			Kind:       runs.KindGenerate,
			WorkflowID: workflow.GetInfo(ctx).WorkflowExecution.ID,
			StartedAt:  workflow.Now(ctx),
			Total:      result.Total,
		},
	}).Get(ctx, nil)
	if err != nil {
		logger.Warn("Failed to record run", "error", err)
	}

	var folderID string
	if input.FolderName != "" {
		docCtx := docActivityOptions(ctx)
		var folder activities.EnsureFolderOutput
		err = workflow.ExecuteActivity(docCtx, "EnsureFolder", activities.EnsureFolderInput{
			Name: input.FolderName,
		}).Get(ctx, &folder)
		if err != nil {
			return GenerateResult{}, fmt.Errorf("ensure folder: %w", err)
		}
		folderID = folder.FolderID
	}

	for i, row := range selected.Selected {
		if cancelCh.ReceiveAsync(nil) {
			state.cancelled = true
		}
		if state.cancelled {
			logger.Info("Generation run cancelled", "remaining", result.Total-i)
			break
		}
		state.progress.Current = row.SheetRow

		outcome := processRow(ctx, input, headers, folderID, row)
		if outcome.Error == "" {
			result.Done++
			state.progress.Done++
		} else {
			result.Failed++
			state.progress.Failed++
		}
		result.Rows = append(result.Rows, outcome)

		err = workflow.ExecuteActivity(recordCtx, "RecordRowResult", activities.RecordRowResultInput{
			Result: runs.RowResult{
				RunID:      input.RunID,
				SheetRow:   outcome.SheetRow,
				Status:     outcome.Status,
				DocURL:     outcome.DocURL,
				PDFURL:     outcome.PDFURL,
				Error:      outcome.Error,
				FinishedAt: workflow.Now(ctx),
			},
		}).Get(ctx, nil)
		if err != nil {
			logger.Warn("Failed to record row result", "sheet_row", outcome.SheetRow, "error", err)
		}
	}

	err = workflow.ExecuteActivity(recordCtx, "FinishRun", activities.FinishRunInput{
		RunID:   input.RunID,
		Done:    result.Done,
		Failed:  result.Failed,
		Skipped: result.Skipped,
	}).Get(ctx, nil)
	if err != nil {
		logger.Warn("Failed to finish run", "error", err)
	}

	state.progress.Current = 0
	state.progress.Finished = true
	logger.Info("Generation run finished",
		"run_id", input.RunID,
		"done", result.Done,
		"failed", result.Failed)
	return result, nil
}

// processRow generates the document for one row and writes the outcome back
// to the worklist. All failures are folded into the row's status.
func processRow(ctx workflow.Context, input GenerateInput, headers []string, folderID string, row models.RowSnapshot) RowOutcome {
	logger := workflow.GetLogger(ctx)
	outcome := RowOutcome{SheetRow: row.SheetRow}

	docCtx := docActivityOptions(ctx)
	var doc activities.GenerateRowDocumentOutput
	err := workflow.ExecuteActivity(docCtx, "GenerateRowDocument", activities.GenerateRowDocumentInput{
		TemplateDocID:   input.TemplateDocID,
		FolderID:        folderID,
		FilenamePattern: input.FilenamePattern,
		Row:             row,
	}).Get(ctx, &doc)

	updates := map[string]string{}
	if err != nil {
		outcome.Error = err.Error()
		outcome.Status = models.StatusErrorPrefix + ": " + clip(outcome.Error, maxStatusErrorLen)
		updates[models.StatusColumn] = outcome.Status
		logger.Warn("Row generation failed", "sheet_row", row.SheetRow, "error", err)
	} else {
		outcome.Status = models.StatusDone
		outcome.DocURL = doc.DocURL
		updates[models.StatusColumn] = models.StatusDone
		updates[models.DocURLColumn] = doc.DocURL
		updates[models.TimestampColumn] = workflow.Now(ctx).Format(models.TimestampLayout)
		if input.CreatePDF {
			outcome.PDFURL = doc.PDFURL
			updates[models.PDFURLColumn] = doc.PDFURL
		}
	}

	sheetCtx := sheetActivityOptions(ctx)
	writeErr := workflow.ExecuteActivity(sheetCtx, "WriteRowUpdates", activities.WriteRowUpdatesInput{
		SpreadsheetID: input.SpreadsheetID,
		SheetName:     input.SheetName,
		SheetRow:      row.SheetRow,
		Headers:       headers,
		Updates:       updates,
	}).Get(ctx, nil)
	if writeErr != nil {
		logger.Warn("Row writeback failed", "sheet_row", row.SheetRow, "error", writeErr)
		if outcome.Error == "" {
			outcome.Error = writeErr.Error()
			outcome.Status = models.StatusErrorPrefix + ": " + clip(outcome.Error, maxStatusErrorLen)
		}
	}
	return outcome
}
