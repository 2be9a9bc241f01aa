// Package cli holds the terminal side of the studio: launching and polling
// workflows, rendering results, and the interactive dashboard.
package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"datastudio/internal/workflow"
)

// Starter launches studio workflows on the Temporal cluster.
type Starter struct {
	client    client.Client
	taskQueue string
}

// NewStarter creates a starter bound to a task queue.
func NewStarter(c client.Client, taskQueue string) *Starter {
	return &Starter{client: c, taskQueue: taskQueue}
}

// StartGeneration launches a document generation run. A fresh run ID is
// assigned when the input has none, and the workflow ID carries it so
// concurrent runs never collide.
func (s *Starter) StartGeneration(ctx context.Context, input workflow.GenerateInput) (client.WorkflowRun, error) {
	if input.RunID == "" {
		input.RunID = uuid.NewString()
	}
	opts := client.StartWorkflowOptions{
		ID:                    fmt.Sprintf("generate-%s", input.RunID),
		TaskQueue:             s.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, workflow.DocumentGenerationWorkflow, input)
	if err != nil {
		return nil, fmt.Errorf("start generation workflow: %w", err)
	}
	return run, nil
}

// StartAgents launches an agent pipeline run.
func (s *Starter) StartAgents(ctx context.Context, input workflow.PipelineInput) (client.WorkflowRun, error) {
	if input.RunID == "" {
		input.RunID = uuid.NewString()
	}
	opts := client.StartWorkflowOptions{
		ID:                    fmt.Sprintf("agents-%s", input.RunID),
		TaskQueue:             s.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, workflow.AgentPipelineWorkflow, input)
	if err != nil {
		return nil, fmt.Errorf("start agent workflow: %w", err)
	}
	return run, nil
}

// Cancel asks a running workflow to stop after its current row.
func (s *Starter) Cancel(ctx context.Context, workflowID string) error {
	return s.client.SignalWorkflow(ctx, workflowID, "", workflow.CancelSignal, nil)
}
