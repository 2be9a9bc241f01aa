// Package workflow contains the Temporal workflow definitions: document
// generation over selected worklist rows and the sequential agent pipeline.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Query and signal names.
const (
	ProgressQuery = "progress"
	CancelSignal  = "cancel"
)

// maxStatusErrorLen caps how much of an error message lands in the status
// column so one bad row cannot blow up the sheet layout.
const maxStatusErrorLen = 100

// Progress is the answer to the progress query on both workflows.
type Progress struct {
	Total    int  `json:"total"`
	Done     int  `json:"done"`
	Failed   int  `json:"failed"`
	Skipped  int  `json:"skipped"`
	Current  int  `json:"current,omitempty"`
	Finished bool `json:"finished"`
}

// sheetActivityOptions are for worklist reads and writes.
func sheetActivityOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})
}

// docActivityOptions are for document copy and placeholder replacement,
// which can take longer on large templates.
func docActivityOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})
}

// agentActivityOptions are for LLM completions. Rate limits back off harder
// and fatal request errors do not retry.
func agentActivityOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 3 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    4,
		},
	})
}

// recordActivityOptions are for run history writes, which are best-effort.
func recordActivityOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
		},
	})
}

// clip returns s cut to at most n runes.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
