// Command studio drives the spreadsheet worklist from the terminal:
// creating the worklist, attaching a document template, generating documents
// for selected rows, running the analysis agents, and watching it all from
// an interactive dashboard.
//
// Usage:
//
//	studio setup -title "Q3 Leads"                  Create a worklist spreadsheet
//	studio template -text-file template.txt         Create a template doc from text
//	studio template -docx proposal.docx             Upload a .docx as the template
//	studio template -doc-id 1AbC...                 Register an existing doc
//	studio generate                                 Generate docs for triggered rows
//	studio generate -mode manual -rows 1,3          Generate docs for specific rows
//	studio agents -max 3                            Run the first three agents
//	studio dashboard                                Open the interactive dashboard
//	studio mcp                                      Serve the studio tools over MCP
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.temporal.io/sdk/client"

	"datastudio/internal/agents"
	"datastudio/internal/cli"
	"datastudio/internal/config"
	"datastudio/internal/docs"
	"datastudio/internal/mcpserver"
	"datastudio/internal/models"
	"datastudio/internal/runs"
	"datastudio/internal/selection"
	"datastudio/internal/sheets"
	"datastudio/internal/theme"
	"datastudio/internal/workflow"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "setup":
		err = runSetup(os.Args[2:])
	case "template":
		err = runTemplate(os.Args[2:])
	case "generate":
		err = runGenerate(os.Args[2:])
	case "agents":
		err = runAgents(os.Args[2:])
	case "dashboard":
		err = runDashboard(os.Args[2:])
	case "mcp":
		err = runMCP(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: studio <setup|template|generate|agents|dashboard|mcp> [flags]")
}

func runSetup(args []string) error {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to studio.toml")
	title := fs.String("title", "Worklist", "Spreadsheet title")
	headerList := fs.String("headers", "Company, Industry, Revenue, Employees, Location, Website, Contact",
		"Comma-separated data columns; these become template placeholders")
	fs.Parse(args)

	if _, err := config.Load(*configPath); err != nil {
		return err
	}
	ctx := context.Background()

	client, err := sheets.NewClient(ctx)
	if err != nil {
		return err
	}

	headers := splitList(*headerList)
	headers = append(headers, models.ControlColumns()...)

	spreadsheetID, err := client.CreateWorklist(ctx, *title, headers, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Created worklist %q\n", *title)
	fmt.Printf("  id:  %s\n", spreadsheetID)
	fmt.Printf("  url: %s\n", sheets.SpreadsheetURL(spreadsheetID))
	fmt.Printf("Set spreadsheet_id = %q in studio.toml to make it the default.\n", spreadsheetID)
	return nil
}

func runTemplate(args []string) error {
	fs := flag.NewFlagSet("template", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to studio.toml")
	title := fs.String("title", "Report Template", "Template document title")
	textFile := fs.String("text-file", "", "Create the template from a text file with {{placeholders}}")
	docxFile := fs.String("docx", "", "Upload a .docx file and convert it to the template")
	existingID := fs.String("doc-id", "", "Register an existing Google Doc as the template")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	sources := 0
	for _, s := range []string{*textFile, *docxFile, *existingID} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of -text-file, -docx, or -doc-id is required")
	}
	ctx := context.Background()

	client, err := docs.NewClient(ctx)
	if err != nil {
		return err
	}

	var docID string
	switch {
	case *existingID != "":
		// Registering an existing doc touches nothing in Drive.
		name, err := client.Title(ctx, *existingID)
		if err != nil {
			return err
		}
		docID = *existingID
		fmt.Printf("Using existing document %q\n", name)
	case *textFile != "":
		body, err := os.ReadFile(*textFile)
		if err != nil {
			return err
		}
		folderID, err := client.EnsureFolder(ctx, cfg.FolderName)
		if err != nil {
			return err
		}
		docID, err = client.CreateFromText(ctx, *title, folderID, string(body))
		if err != nil {
			return err
		}
	default:
		f, err := os.Open(*docxFile)
		if err != nil {
			return err
		}
		defer f.Close()
		folderID, err := client.EnsureFolder(ctx, cfg.FolderName)
		if err != nil {
			return err
		}
		docID, err = client.UploadDocxAsDoc(ctx, *title, folderID, f)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Template ready\n")
	fmt.Printf("  id:  %s\n", docID)
	fmt.Printf("  url: %s\n", docs.DocURL(docID))
	fmt.Printf("Set template_doc_id = %q in studio.toml to make it the default.\n", docID)
	return nil
}

// selectionFlags registers the shared row selection flags.
func selectionFlags(fs *flag.FlagSet) (mode, rows, expr *string, force *bool) {
	mode = fs.String("mode", string(selection.ModeTriggered),
		"Row selection: triggered, missing-doc, manual, or expr")
	rows = fs.String("rows", "", "Comma-separated 1-based data row numbers (manual mode)")
	expr = fs.String("expr", "", `Row filter expression, e.g. row["Industry"] == "Technology" (expr mode)`)
	force = fs.Bool("force", false, "Regenerate rows that already have a document")
	return mode, rows, expr, force
}

func buildSelection(mode, rows, expr string, force bool) (selection.Request, error) {
	req := selection.Request{
		Mode:  selection.Mode(mode),
		Expr:  expr,
		Force: force,
	}
	for _, part := range splitList(rows) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return selection.Request{}, fmt.Errorf("invalid row number %q", part)
		}
		req.Rows = append(req.Rows, n)
	}
	return req, nil
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to studio.toml")
	sheetID := fs.String("sheet", "", "Spreadsheet ID (default from studio.toml)")
	templateID := fs.String("template", "", "Template document ID (default from studio.toml)")
	pattern := fs.String("pattern", "", "Document name pattern (default from studio.toml)")
	createPDF := fs.Bool("pdf", false, "Also record a PDF export link for each generated document")
	mode, rows, expr, force := selectionFlags(fs)
	temporalHost := fs.String("temporal-host", client.DefaultHostPort, "Temporal server address")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyOverride(&cfg.SpreadsheetID, *sheetID)
	applyOverride(&cfg.TemplateDocID, *templateID)
	applyOverride(&cfg.FilenamePattern, *pattern)
	if cfg.SpreadsheetID == "" || cfg.TemplateDocID == "" {
		return fmt.Errorf("spreadsheet and template are required (-sheet/-template or studio.toml)")
	}

	sel, err := buildSelection(*mode, *rows, *expr, *force)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(client.Options{HostPort: *temporalHost})
	if err != nil {
		return fmt.Errorf("connect to temporal: %w", err)
	}
	defer c.Close()

	starter := cli.NewStarter(c, cfg.TaskQueue)
	run, err := starter.StartGeneration(ctx, workflow.GenerateInput{
		SpreadsheetID:   cfg.SpreadsheetID,
		SheetName:       cfg.SheetName,
		TemplateDocID:   cfg.TemplateDocID,
		FolderName:      cfg.FolderName,
		FilenamePattern: cfg.FilenamePattern,
		CreatePDF:       *createPDF,
		Selection:       sel,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Started %s\n", run.GetID())

	renderer := cli.NewRenderer(os.Stdout, theme.Get(cfg.Theme), *noColor)
	var result workflow.GenerateResult
	if err := awaitRun(ctx, c, starter, run, renderer, &result); err != nil {
		return err
	}

	for _, outcome := range result.Rows {
		renderer.RenderRowOutcome(outcome)
	}
	fmt.Printf("done=%d failed=%d skipped=%d\n", result.Done, result.Failed, result.Skipped)
	return nil
}

func runAgents(args []string) error {
	fs := flag.NewFlagSet("agents", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to studio.toml")
	sheetID := fs.String("sheet", "", "Spreadsheet ID (default from studio.toml)")
	agentIDs := fs.String("agents", "", "Comma-separated agent IDs to run, in order (default all)")
	maxAgents := fs.Int("max", 0, "Run only the first N agents")
	required := fs.String("required-fields", "Company, Industry, Revenue",
		"Comma-separated fields exposed to prompts as {{required_fields_csv}}")
	mode, rows, expr, force := selectionFlags(fs)
	temporalHost := fs.String("temporal-host", client.DefaultHostPort, "Temporal server address")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyOverride(&cfg.SpreadsheetID, *sheetID)
	if cfg.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet is required (-sheet or studio.toml)")
	}

	pipeline, err := loadAgents(cfg, *agentIDs)
	if err != nil {
		return err
	}
	sel, err := buildSelection(*mode, *rows, *expr, *force)
	if err != nil {
		return err
	}
	// Agents analyze rows whether or not a document exists.
	sel.Force = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(client.Options{HostPort: *temporalHost})
	if err != nil {
		return fmt.Errorf("connect to temporal: %w", err)
	}
	defer c.Close()

	starter := cli.NewStarter(c, cfg.TaskQueue)
	run, err := starter.StartAgents(ctx, workflow.PipelineInput{
		SpreadsheetID:  cfg.SpreadsheetID,
		SheetName:      cfg.SheetName,
		Agents:         pipeline,
		MaxAgents:      *maxAgents,
		RequiredFields: splitList(*required),
		Selection:      sel,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Started %s\n", run.GetID())

	renderer := cli.NewRenderer(os.Stdout, theme.Get(cfg.Theme), *noColor)
	var result workflow.PipelineResult
	if err := awaitRun(ctx, c, starter, run, renderer, &result); err != nil {
		return err
	}

	for _, row := range result.Rows {
		for _, outcome := range row.Results {
			renderer.RenderAgentOutcome(row.SheetRow, outcome)
		}
	}
	fmt.Printf("rows=%d done=%d failed=%d\n", result.Total, result.Done, result.Failed)
	return nil
}

// awaitRun polls the workflow's progress while waiting for its result. An
// interrupt asks the workflow to stop, then waits for it to wind down.
func awaitRun(ctx context.Context, c client.Client, starter *cli.Starter, run client.WorkflowRun, renderer *cli.Renderer, result interface{}) error {
	pollCtx, cancelPoll := context.WithCancel(context.Background())
	defer cancelPoll()

	poller := cli.NewPoller(c, run.GetID(), time.Second)
	updates := make(chan cli.PollResult)
	go poller.RunPolling(pollCtx, updates)

	done := make(chan error, 1)
	go func() {
		done <- run.Get(context.Background(), result)
	}()

	return cli.Await(ctx, updates, done, func() error {
		fmt.Println("\ninterrupt: asking the run to stop...")
		return starter.Cancel(context.Background(), run.GetID())
	}, renderer)
}

// dashboardLoader loads dashboard data from the worklist and the run store.
type dashboardLoader struct {
	cfg    config.Config
	sheets *sheets.Client
	store  *runs.Store
}

func (l *dashboardLoader) Load(ctx context.Context) (cli.DashboardData, error) {
	headers, rows, err := l.sheets.ReadWorklist(ctx, l.cfg.SpreadsheetID, l.cfg.SheetName)
	if err != nil {
		return cli.DashboardData{}, err
	}
	recentRuns, err := l.store.RecentRuns(ctx, 20)
	if err != nil {
		return cli.DashboardData{}, err
	}
	recent, err := l.store.RecentRowResults(ctx, 10)
	if err != nil {
		return cli.DashboardData{}, err
	}
	return cli.DashboardData{
		Headers: headers,
		Rows:    rows,
		Metrics: runs.ComputeMetrics(rows),
		Runs:    recentRuns,
		Recent:  recent,
	}, nil
}

func runDashboard(args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to studio.toml")
	sheetID := fs.String("sheet", "", "Spreadsheet ID (default from studio.toml)")
	themeName := fs.String("theme", "", "Color theme (default from studio.toml)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyOverride(&cfg.SpreadsheetID, *sheetID)
	applyOverride(&cfg.Theme, *themeName)
	if cfg.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet is required (-sheet or studio.toml)")
	}
	if *themeName != "" && !theme.Known(*themeName) {
		return fmt.Errorf("unknown theme %q (known: %s)", *themeName, strings.Join(theme.Names(), ", "))
	}
	ctx := context.Background()

	sheetsClient, err := sheets.NewClient(ctx)
	if err != nil {
		return err
	}
	store, err := runs.Open(cfg.RunsDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	loader := &dashboardLoader{cfg: cfg, sheets: sheetsClient, store: store}
	program := tea.NewProgram(cli.NewDashboard(loader, theme.Get(cfg.Theme)), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// mcpStarter adapts the workflow starter to the MCP server's interface.
type mcpStarter struct {
	starter *cli.Starter
}

func (m *mcpStarter) StartGeneration(ctx context.Context, input workflow.GenerateInput) (mcpserver.RunHandle, error) {
	return m.starter.StartGeneration(ctx, input)
}

func (m *mcpStarter) StartAgents(ctx context.Context, input workflow.PipelineInput) (mcpserver.RunHandle, error) {
	return m.starter.StartAgents(ctx, input)
}

func runMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to studio.toml")
	temporalHost := fs.String("temporal-host", client.DefaultHostPort, "Temporal server address")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sheetsClient, err := sheets.NewClient(ctx)
	if err != nil {
		return err
	}
	c, err := client.Dial(client.Options{HostPort: *temporalHost})
	if err != nil {
		return fmt.Errorf("connect to temporal: %w", err)
	}
	defer c.Close()

	defs, err := loadAgents(cfg, "")
	if err != nil {
		return err
	}

	server := mcpserver.New(cfg, sheetsClient,
		&mcpStarter{starter: cli.NewStarter(c, cfg.TaskQueue)}, defs)
	return server.Run(ctx)
}

// loadAgents loads the agent definitions (configured file or built-in set),
// optionally filtered to a comma-separated id list.
func loadAgents(cfg config.Config, ids string) ([]agents.Definition, error) {
	defs := agents.Default()
	if cfg.AgentsFile != "" {
		data, err := os.ReadFile(cfg.AgentsFile)
		if err != nil {
			return nil, err
		}
		defs, err = agents.Parse(data)
		if err != nil {
			return nil, err
		}
	}
	if ids == "" {
		return defs, nil
	}

	byID := make(map[string]agents.Definition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	var out []agents.Definition
	for _, id := range splitList(ids) {
		d, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown agent id: %q", id)
		}
		out = append(out, d)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func applyOverride(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
