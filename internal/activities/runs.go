package activities

import (
	"context"

	"datastudio/internal/runs"
)

// RecordRunInput is the input for the RecordRun activity.
type RecordRunInput struct {
	Run runs.Run `json:"run"`
}

// FinishRunInput is the input for the FinishRun activity.
type FinishRunInput struct {
	RunID   string `json:"run_id"`
	Done    int    `json:"done"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}

// RecordRowResultInput is the input for the RecordRowResult activity.
type RecordRowResultInput struct {
	Result runs.RowResult `json:"result"`
}

// RecordAgentResultInput is the input for the RecordAgentResult activity.
type RecordAgentResultInput struct {
	Result runs.AgentResult `json:"result"`
}

// RunActivities contains run history activities.
type RunActivities struct {
	store *runs.Store
}

// NewRunActivities creates a new RunActivities instance.
func NewRunActivities(store *runs.Store) *RunActivities {
	return &RunActivities{store: store}
}

// RecordRun inserts a new run record.
func (a *RunActivities) RecordRun(ctx context.Context, input RecordRunInput) error {
	return a.store.CreateRun(ctx, input.Run)
}

// FinishRun records a run's final counters.
func (a *RunActivities) FinishRun(ctx context.Context, input FinishRunInput) error {
	return a.store.FinishRun(ctx, input.RunID, input.Done, input.Failed, input.Skipped)
}

// RecordRowResult appends one row outcome.
func (a *RunActivities) RecordRowResult(ctx context.Context, input RecordRowResultInput) error {
	return a.store.RecordRowResult(ctx, input.Result)
}

// RecordAgentResult appends one agent outcome.
func (a *RunActivities) RecordAgentResult(ctx context.Context, input RecordAgentResultInput) error {
	return a.store.RecordAgentResult(ctx, input.Result)
}
