package workflow

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"datastudio/internal/activities"
	"datastudio/internal/agents"
	"datastudio/internal/runs"
	"datastudio/internal/selection"
)

// PipelineInput starts an agent pipeline run.
type PipelineInput struct {
	RunID          string              `json:"run_id"`
	SpreadsheetID  string              `json:"spreadsheet_id"`
	SheetName      string              `json:"sheet_name"`
	Agents         []agents.Definition `json:"agents"`
	MaxAgents      int                 `json:"max_agents,omitempty"`
	RequiredFields []string            `json:"required_fields,omitempty"`
	Selection      selection.Request   `json:"selection"`
}

// AgentOutcome is one agent's result for one row. A failed agent carries its
// error here; the pipeline keeps going.
type AgentOutcome struct {
	AgentID      string `json:"agent_id"`
	AgentName    string `json:"agent_name"`
	Output       string `json:"output,omitempty"`
	Error        string `json:"error,omitempty"`
	InputTokens  int    `json:"input_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
}

// RowAgentResults holds all agent outcomes for one row.
type RowAgentResults struct {
	SheetRow int            `json:"sheet_row"`
	Results  []AgentOutcome `json:"results"`
}

// PipelineResult is the final result of an agent pipeline run.
type PipelineResult struct {
	RunID  string            `json:"run_id"`
	Total  int               `json:"total"`
	Done   int               `json:"done"`
	Failed int               `json:"failed"`
	Rows   []RowAgentResults `json:"rows,omitempty"`
}

// AgentPipelineWorkflow runs the configured agents sequentially against each
// selected worklist row. Agents run in their configured order, one at a time;
// a failing agent records its error and the next agent still runs. MaxAgents
// limits the run to the first N agents.
func AgentPipelineWorkflow(ctx workflow.Context, input PipelineInput) (PipelineResult, error) {
	logger := workflow.GetLogger(ctx)
	state := &generateState{}

	if err := workflow.SetQueryHandler(ctx, ProgressQuery, func() (Progress, error) {
		return state.progress, nil
	}); err != nil {
		return PipelineResult{}, fmt.Errorf("register progress query: %w", err)
	}
	cancelCh := workflow.GetSignalChannel(ctx, CancelSignal)

	if input.SpreadsheetID == "" {
		return PipelineResult{}, fmt.Errorf("spreadsheet_id is required")
	}
	if len(input.Agents) == 0 {
		return PipelineResult{}, fmt.Errorf("at least one agent is required")
	}

	pipeline := input.Agents
	if input.MaxAgents > 0 && input.MaxAgents < len(pipeline) {
		pipeline = pipeline[:input.MaxAgents]
	}

	sheetCtx := sheetActivityOptions(ctx)
	var worklist activities.ReadWorklistOutput
	err := workflow.ExecuteActivity(sheetCtx, "ReadWorklist", activities.ReadWorklistInput{
		SpreadsheetID: input.SpreadsheetID,
		SheetName:     input.SheetName,
	}).Get(ctx, &worklist)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("read worklist: %w", err)
	}

	selected, err := selection.Select(input.Selection, worklist.Rows)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("select rows: %w", err)
	}

	result := PipelineResult{
		RunID: input.RunID,
		Total: len(selected.Selected),
	}
	state.progress = Progress{Total: result.Total}
	logger.Info("Agent pipeline starting",
		"run_id", input.RunID,
		"rows", result.Total,
		"agents", len(pipeline))

	recordCtx := recordActivityOptions(ctx)
	err = workflow.ExecuteActivity(recordCtx, "RecordRun", activities.RecordRunInput{
		Run: runs.Run{
			ID:         input.RunID,
			Kind:       runs.KindAgents,
			WorkflowID: workflow.GetInfo(ctx).WorkflowExecution.ID,
			StartedAt:  workflow.Now(ctx),
			Total:      result.Total,
		},
	}).Get(ctx, nil)
	if err != nil {
		logger.Warn("Failed to record run", "error", err)
	}

	agentCtx := agentActivityOptions(ctx)
	for i, row := range selected.Selected {
		if cancelCh.ReceiveAsync(nil) {
			state.cancelled = true
		}
		if state.cancelled {
			logger.Info("Agent pipeline cancelled", "remaining", result.Total-i)
			break
		}
		state.progress.Current = row.SheetRow

		rowResults := RowAgentResults{SheetRow: row.SheetRow}
		rowFailed := false
		for _, agent := range pipeline {
			outcome := AgentOutcome{AgentID: agent.ID, AgentName: agent.DisplayName()}

			var out activities.RunAgentOutput
			err := workflow.ExecuteActivity(agentCtx, "RunAgent", activities.RunAgentInput{
				Agent:          agent,
				Row:            row,
				RequiredFields: input.RequiredFields,
			}).Get(ctx, &out)
			if err != nil {
				outcome.Error = err.Error()
				rowFailed = true
				logger.Warn("Agent failed",
					"sheet_row", row.SheetRow,
					"agent", agent.ID,
					"error", err)
			} else {
				outcome.Output = out.Text
				outcome.InputTokens = out.InputTokens
				outcome.OutputTokens = out.OutputTokens
			}
			rowResults.Results = append(rowResults.Results, outcome)

			err = workflow.ExecuteActivity(recordCtx, "RecordAgentResult", activities.RecordAgentResultInput{
				Result: runs.AgentResult{
					RunID:        input.RunID,
					SheetRow:     row.SheetRow,
					AgentID:      outcome.AgentID,
					AgentName:    outcome.AgentName,
					Output:       outcome.Output,
					Error:        outcome.Error,
					InputTokens:  outcome.InputTokens,
					OutputTokens: outcome.OutputTokens,
					FinishedAt:   workflow.Now(ctx),
				},
			}).Get(ctx, nil)
			if err != nil {
				logger.Warn("Failed to record agent result", "agent", agent.ID, "error", err)
			}
		}

		if rowFailed {
			result.Failed++
			state.progress.Failed++
		} else {
			result.Done++
			state.progress.Done++
		}
		result.Rows = append(result.Rows, rowResults)
	}

	err = workflow.ExecuteActivity(recordCtx, "FinishRun", activities.FinishRunInput{
		RunID:  input.RunID,
		Done:   result.Done,
		Failed: result.Failed,
	}).Get(ctx, nil)
	if err != nil {
		logger.Warn("Failed to finish run", "error", err)
	}

	state.progress.Current = 0
	state.progress.Finished = true
	logger.Info("Agent pipeline finished",
		"run_id", input.RunID,
		"done", result.Done,
		"failed", result.Failed)
	return result, nil
}
