package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datastudio/internal/agents"
	"datastudio/internal/config"
	"datastudio/internal/models"
	"datastudio/internal/selection"
	"datastudio/internal/workflow"
)

type fakeSheets struct {
	rows []models.RowSnapshot
	err  error
}

func (f *fakeSheets) ReadWorklist(ctx context.Context, spreadsheetID, sheetName string) ([]string, []models.RowSnapshot, error) {
	return []string{"Company"}, f.rows, f.err
}

type fakeHandle struct{ id, runID string }

func (h fakeHandle) GetID() string    { return h.id }
func (h fakeHandle) GetRunID() string { return h.runID }

type fakeStarter struct {
	generateInput workflow.GenerateInput
	agentsInput   workflow.PipelineInput
	err           error
}

func (f *fakeStarter) StartGeneration(ctx context.Context, input workflow.GenerateInput) (RunHandle, error) {
	f.generateInput = input
	return fakeHandle{id: "generate-1", runID: "r1"}, f.err
}

func (f *fakeStarter) StartAgents(ctx context.Context, input workflow.PipelineInput) (RunHandle, error) {
	f.agentsInput = input
	return fakeHandle{id: "agents-1", runID: "r2"}, f.err
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.SpreadsheetID = "sheet-1"
	cfg.TemplateDocID = "template-1"
	return cfg
}

// TestWorklistStatus verifies status counts come from the worklist.
func TestWorklistStatus(t *testing.T) {
	sheets := &fakeSheets{rows: []models.RowSnapshot{
		{SheetRow: 2, Values: map[string]string{models.StatusColumn: models.StatusDone}},
		{SheetRow: 3, Values: map[string]string{models.StatusColumn: "Error: boom"}},
		{SheetRow: 4, Values: map[string]string{}},
	}}
	s := New(testConfig(), sheets, &fakeStarter{}, agents.Default())

	_, out, err := s.WorklistStatus(context.Background(), nil, WorklistStatusInput{})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 1, out.Done)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, 1, out.Pending)
	assert.InDelta(t, 33.3, out.SuccessRate, 0.1)
}

// TestWorklistStatus_NoSpreadsheet verifies a missing spreadsheet is an
// error rather than a silent empty result.
func TestWorklistStatus_NoSpreadsheet(t *testing.T) {
	cfg := config.Default()
	s := New(cfg, &fakeSheets{}, &fakeStarter{}, nil)

	_, _, err := s.WorklistStatus(context.Background(), nil, WorklistStatusInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheet_id")
}

// TestGenerateDocuments verifies config defaults flow into the workflow
// input and the workflow ID comes back.
func TestGenerateDocuments(t *testing.T) {
	starter := &fakeStarter{}
	s := New(testConfig(), &fakeSheets{}, starter, nil)

	_, out, err := s.GenerateDocuments(context.Background(), nil, GenerateDocumentsInput{
		SelectionInput: SelectionInput{Mode: "manual", Rows: []int{1, 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "generate-1", out.WorkflowID)
	assert.Equal(t, "sheet-1", starter.generateInput.SpreadsheetID)
	assert.Equal(t, "template-1", starter.generateInput.TemplateDocID)
	assert.Equal(t, config.DefaultFilenamePattern, starter.generateInput.FilenamePattern)
	assert.Equal(t, selection.ModeManual, starter.generateInput.Selection.Mode)
	assert.Equal(t, []int{1, 2}, starter.generateInput.Selection.Rows)
}

// TestGenerateDocuments_DefaultSelection verifies the triggered mode is the
// default.
func TestGenerateDocuments_DefaultSelection(t *testing.T) {
	starter := &fakeStarter{}
	s := New(testConfig(), &fakeSheets{}, starter, nil)

	_, _, err := s.GenerateDocuments(context.Background(), nil, GenerateDocumentsInput{})
	require.NoError(t, err)
	assert.Equal(t, selection.ModeTriggered, starter.generateInput.Selection.Mode)
}

// TestGenerateDocuments_CreatePDF verifies the PDF request flows into the
// workflow input and stays off by default.
func TestGenerateDocuments_CreatePDF(t *testing.T) {
	starter := &fakeStarter{}
	s := New(testConfig(), &fakeSheets{}, starter, nil)

	_, _, err := s.GenerateDocuments(context.Background(), nil, GenerateDocumentsInput{})
	require.NoError(t, err)
	assert.False(t, starter.generateInput.CreatePDF)

	_, _, err = s.GenerateDocuments(context.Background(), nil, GenerateDocumentsInput{CreatePDF: true})
	require.NoError(t, err)
	assert.True(t, starter.generateInput.CreatePDF)
}

// TestGenerateDocuments_MissingTemplate verifies an unset template is
// rejected.
func TestGenerateDocuments_MissingTemplate(t *testing.T) {
	cfg := testConfig()
	cfg.TemplateDocID = ""
	s := New(cfg, &fakeSheets{}, &fakeStarter{}, nil)

	_, _, err := s.GenerateDocuments(context.Background(), nil, GenerateDocumentsInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template_doc_id")
}

// TestRunAgents_FilterAndOrder verifies agent_ids picks agents in the given
// order.
func TestRunAgents_FilterAndOrder(t *testing.T) {
	starter := &fakeStarter{}
	s := New(testConfig(), &fakeSheets{}, starter, agents.Default())

	_, out, err := s.RunAgents(context.Background(), nil, RunAgentsInput{
		AgentIDs:  []string{"risk_assessor", "data_validator"},
		MaxAgents: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "agents-1", out.WorkflowID)
	require.Len(t, starter.agentsInput.Agents, 2)
	assert.Equal(t, "risk_assessor", starter.agentsInput.Agents[0].ID)
	assert.Equal(t, "data_validator", starter.agentsInput.Agents[1].ID)
	assert.Equal(t, 2, starter.agentsInput.MaxAgents)

	// Default selection for agents covers all triggered rows, generated or not.
	assert.Equal(t, selection.ModeTriggered, starter.agentsInput.Selection.Mode)
	assert.True(t, starter.agentsInput.Selection.Force)
}

// TestRunAgents_ForceWithExplicitMode verifies agents still cover rows with
// generated documents when the caller picks a selection mode.
func TestRunAgents_ForceWithExplicitMode(t *testing.T) {
	starter := &fakeStarter{}
	s := New(testConfig(), &fakeSheets{}, starter, agents.Default())

	_, _, err := s.RunAgents(context.Background(), nil, RunAgentsInput{
		SelectionInput: SelectionInput{Mode: "triggered"},
	})
	require.NoError(t, err)

	assert.Equal(t, selection.ModeTriggered, starter.agentsInput.Selection.Mode)
	assert.True(t, starter.agentsInput.Selection.Force)
}

// TestRunAgents_UnknownAgent verifies an unknown id is rejected.
func TestRunAgents_UnknownAgent(t *testing.T) {
	s := New(testConfig(), &fakeSheets{}, &fakeStarter{}, agents.Default())

	_, _, err := s.RunAgents(context.Background(), nil, RunAgentsInput{
		AgentIDs: []string{"nope"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown agent id: "nope"`)
}
