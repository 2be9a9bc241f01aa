// Package mcpserver exposes the studio to MCP clients over stdio: checking
// worklist status, starting document generation, and running the agent
// pipeline.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"datastudio/internal/agents"
	"datastudio/internal/config"
	"datastudio/internal/models"
	"datastudio/internal/runs"
	"datastudio/internal/selection"
	"datastudio/internal/workflow"
)

// WorklistReader reads a worklist spreadsheet.
type WorklistReader interface {
	ReadWorklist(ctx context.Context, spreadsheetID, sheetName string) ([]string, []models.RowSnapshot, error)
}

// RunHandle identifies a started workflow.
type RunHandle interface {
	GetID() string
	GetRunID() string
}

// WorkflowStarter launches studio workflows.
type WorkflowStarter interface {
	StartGeneration(ctx context.Context, input workflow.GenerateInput) (RunHandle, error)
	StartAgents(ctx context.Context, input workflow.PipelineInput) (RunHandle, error)
}

// Server serves the studio tools over MCP.
type Server struct {
	cfg     config.Config
	sheets  WorklistReader
	starter WorkflowStarter
	agents  []agents.Definition
}

// New creates an MCP server over the given dependencies.
func New(cfg config.Config, sheets WorklistReader, starter WorkflowStarter, defs []agents.Definition) *Server {
	return &Server{cfg: cfg, sheets: sheets, starter: starter, agents: defs}
}

// Run registers the tools and serves on stdio until the context ends.
func (s *Server) Run(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "datastudio",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "worklist_status",
		Description: "Summarize the worklist: row counts by status and recent state.",
	}, s.WorklistStatus)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_documents",
		Description: "Start a document generation run over selected worklist rows.",
	}, s.GenerateDocuments)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_agents",
		Description: "Run the analysis agent pipeline over selected worklist rows.",
	}, s.RunAgents)

	return server.Run(ctx, &mcp.StdioTransport{})
}

// WorklistStatusInput is the input for the worklist_status tool.
type WorklistStatusInput struct {
	SpreadsheetID string `json:"spreadsheet_id,omitempty" jsonschema:"spreadsheet to inspect; defaults to the configured one"`
}

// WorklistStatusOutput is the output from the worklist_status tool.
type WorklistStatusOutput struct {
	Total       int     `json:"total"`
	Done        int     `json:"done"`
	Failed      int     `json:"failed"`
	Pending     int     `json:"pending"`
	SuccessRate float64 `json:"success_rate"`
}

// WorklistStatus summarizes the worklist.
func (s *Server) WorklistStatus(ctx context.Context, req *mcp.CallToolRequest, input WorklistStatusInput) (*mcp.CallToolResult, WorklistStatusOutput, error) {
	spreadsheetID := s.spreadsheetID(input.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, WorklistStatusOutput{}, fmt.Errorf("no spreadsheet configured; pass spreadsheet_id")
	}

	_, rows, err := s.sheets.ReadWorklist(ctx, spreadsheetID, s.cfg.SheetName)
	if err != nil {
		return nil, WorklistStatusOutput{}, err
	}

	m := runs.ComputeMetrics(rows)
	return nil, WorklistStatusOutput{
		Total:       m.Total,
		Done:        m.Done,
		Failed:      m.Failed,
		Pending:     m.Pending,
		SuccessRate: m.SuccessRate(),
	}, nil
}

// SelectionInput picks worklist rows in tool inputs.
type SelectionInput struct {
	Mode  string `json:"mode,omitempty" jsonschema:"triggered, missing-doc, manual, or expr; defaults to triggered"`
	Rows  []int  `json:"rows,omitempty" jsonschema:"1-based data row numbers for manual mode"`
	Expr  string `json:"expr,omitempty" jsonschema:"row filter expression for expr mode"`
	Force bool   `json:"force,omitempty" jsonschema:"regenerate rows that already have a document"`
}

func (in SelectionInput) request() selection.Request {
	mode := selection.Mode(in.Mode)
	if in.Mode == "" {
		mode = selection.ModeTriggered
	}
	return selection.Request{Mode: mode, Rows: in.Rows, Expr: in.Expr, Force: in.Force}
}

// GenerateDocumentsInput is the input for the generate_documents tool.
type GenerateDocumentsInput struct {
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
	TemplateDocID string `json:"template_doc_id,omitempty"`
	CreatePDF     bool   `json:"create_pdf,omitempty" jsonschema:"also record a PDF export link for each generated document"`
	SelectionInput
}

// StartedRunOutput reports a started workflow.
type StartedRunOutput struct {
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
}

// GenerateDocuments starts a generation run and returns its workflow ID.
func (s *Server) GenerateDocuments(ctx context.Context, req *mcp.CallToolRequest, input GenerateDocumentsInput) (*mcp.CallToolResult, StartedRunOutput, error) {
	spreadsheetID := s.spreadsheetID(input.SpreadsheetID)
	templateDocID := input.TemplateDocID
	if templateDocID == "" {
		templateDocID = s.cfg.TemplateDocID
	}
	if spreadsheetID == "" || templateDocID == "" {
		return nil, StartedRunOutput{}, fmt.Errorf("spreadsheet_id and template_doc_id are required (set them in config or pass them)")
	}

	run, err := s.starter.StartGeneration(ctx, workflow.GenerateInput{
		SpreadsheetID:   spreadsheetID,
		SheetName:       s.cfg.SheetName,
		TemplateDocID:   templateDocID,
		FolderName:      s.cfg.FolderName,
		FilenamePattern: s.cfg.FilenamePattern,
		CreatePDF:       input.CreatePDF,
		Selection:       input.request(),
	})
	if err != nil {
		return nil, StartedRunOutput{}, err
	}
	return nil, StartedRunOutput{WorkflowID: run.GetID(), RunID: run.GetRunID()}, nil
}

// RunAgentsInput is the input for the run_agents tool.
type RunAgentsInput struct {
	SpreadsheetID string   `json:"spreadsheet_id,omitempty"`
	AgentIDs      []string `json:"agent_ids,omitempty" jsonschema:"run only these agents, in this order"`
	MaxAgents     int      `json:"max_agents,omitempty" jsonschema:"run only the first N agents"`
	SelectionInput
}

// RunAgents starts an agent pipeline run.
func (s *Server) RunAgents(ctx context.Context, req *mcp.CallToolRequest, input RunAgentsInput) (*mcp.CallToolResult, StartedRunOutput, error) {
	spreadsheetID := s.spreadsheetID(input.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, StartedRunOutput{}, fmt.Errorf("no spreadsheet configured; pass spreadsheet_id")
	}

	pipeline := s.agents
	if len(input.AgentIDs) > 0 {
		var err error
		pipeline, err = filterAgents(s.agents, input.AgentIDs)
		if err != nil {
			return nil, StartedRunOutput{}, err
		}
	}

	sel := input.request()
	// Agents analyze rows regardless of generated documents.
	sel.Force = true

	run, err := s.starter.StartAgents(ctx, workflow.PipelineInput{
		SpreadsheetID: spreadsheetID,
		SheetName:     s.cfg.SheetName,
		Agents:        pipeline,
		MaxAgents:     input.MaxAgents,
		Selection:     sel,
	})
	if err != nil {
		return nil, StartedRunOutput{}, err
	}
	return nil, StartedRunOutput{WorkflowID: run.GetID(), RunID: run.GetRunID()}, nil
}

func (s *Server) spreadsheetID(fromInput string) string {
	if fromInput != "" {
		return fromInput
	}
	return s.cfg.SpreadsheetID
}

func filterAgents(defs []agents.Definition, ids []string) ([]agents.Definition, error) {
	byID := make(map[string]agents.Definition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	out := make([]agents.Definition, 0, len(ids))
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown agent id: %q", id)
		}
		out = append(out, d)
	}
	return out, nil
}
