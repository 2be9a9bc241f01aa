package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"datastudio/internal/models"
	"datastudio/internal/runs"
	"datastudio/internal/theme"
)

// DashboardData is everything the dashboard shows.
type DashboardData struct {
	Headers []string
	Rows    []models.RowSnapshot
	Metrics runs.Metrics
	Runs    []runs.Run
	Recent  []runs.RowResult
}

// DataLoader fetches dashboard data. Refreshes run it again.
type DataLoader interface {
	Load(ctx context.Context) (DashboardData, error)
}

type dashboardTab int

const (
	tabOverview dashboardTab = iota
	tabWorklist
	tabRuns
	tabCount
)

var tabTitles = [tabCount]string{"Overview", "Worklist", "Runs"}

type dataMsg DashboardData

type dataErrMsg struct{ err error }

// Dashboard is the interactive terminal dashboard model.
type Dashboard struct {
	loader DataLoader
	styles theme.Styles

	tab      dashboardTab
	spinner  spinner.Model
	worklist table.Model
	runsTbl  table.Model

	data    DashboardData
	loading bool
	err     error
	width   int
	height  int
}

// NewDashboard creates the dashboard model.
func NewDashboard(loader DataLoader, palette theme.Palette) Dashboard {
	styles := theme.NewStyles(palette)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Accent

	runsTbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "Run", Width: 10},
			{Title: "Kind", Width: 10},
			{Title: "Total", Width: 6},
			{Title: "Done", Width: 6},
			{Title: "Failed", Width: 7},
			{Title: "Started", Width: 20},
		}),
		table.WithHeight(12),
	)

	return Dashboard{
		loader:  loader,
		styles:  styles,
		spinner: sp,
		runsTbl: runsTbl,
		loading: true,
	}
}

// Init starts the spinner and the first data load.
func (d Dashboard) Init() tea.Cmd {
	return tea.Batch(d.spinner.Tick, d.load())
}

func (d Dashboard) load() tea.Cmd {
	loader := d.loader
	return func() tea.Msg {
		data, err := loader.Load(context.Background())
		if err != nil {
			return dataErrMsg{err: err}
		}
		return dataMsg(data)
	}
}

// Update handles key presses, data arrival, and resize.
func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return d, tea.Quit
		case "tab", "right":
			d.tab = (d.tab + 1) % tabCount
			return d, nil
		case "shift+tab", "left":
			d.tab = (d.tab + tabCount - 1) % tabCount
			return d, nil
		case "1", "2", "3":
			n, _ := strconv.Atoi(msg.String())
			d.tab = dashboardTab(n - 1)
			return d, nil
		case "r":
			d.loading = true
			d.err = nil
			return d, tea.Batch(d.spinner.Tick, d.load())
		}

	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case dataMsg:
		d.data = DashboardData(msg)
		d.loading = false
		d.rebuildTables()
		return d, nil

	case dataErrMsg:
		d.err = msg.err
		d.loading = false
		return d, nil

	case spinner.TickMsg:
		if !d.loading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	}

	// Table navigation on the active tab.
	var cmd tea.Cmd
	switch d.tab {
	case tabWorklist:
		d.worklist, cmd = d.worklist.Update(msg)
	case tabRuns:
		d.runsTbl, cmd = d.runsTbl.Update(msg)
	}
	return d, cmd
}

// rebuildTables refreshes the table contents from the loaded data.
func (d *Dashboard) rebuildTables() {
	columns := []table.Column{{Title: "Row", Width: 5}}
	var dataHeaders []string
	control := map[string]bool{}
	for _, col := range models.ControlColumns() {
		control[col] = true
	}
	for _, h := range d.data.Headers {
		if !control[h] && h != models.TriggerColumn && len(dataHeaders) < 3 {
			dataHeaders = append(dataHeaders, h)
			columns = append(columns, table.Column{Title: h, Width: 18})
		}
	}
	columns = append(columns, table.Column{Title: "Status", Width: 24})

	rows := make([]table.Row, 0, len(d.data.Rows))
	for _, r := range d.data.Rows {
		row := table.Row{strconv.Itoa(r.SheetRow)}
		for _, h := range dataHeaders {
			row = append(row, r.Get(h))
		}
		row = append(row, r.Get(models.StatusColumn))
		rows = append(rows, row)
	}
	d.worklist = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(14),
		table.WithFocused(true),
	)

	runRows := make([]table.Row, 0, len(d.data.Runs))
	for _, r := range d.data.Runs {
		started := ""
		if !r.StartedAt.IsZero() {
			started = r.StartedAt.Format(models.TimestampLayout)
		}
		runRows = append(runRows, table.Row{
			shortID(r.ID),
			r.Kind,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Done),
			strconv.Itoa(r.Failed),
			started,
		})
	}
	d.runsTbl.SetRows(runRows)
}

// View renders the active tab.
func (d Dashboard) View() string {
	var b strings.Builder

	b.WriteString(d.renderTabs())
	b.WriteString("\n\n")

	switch {
	case d.loading:
		b.WriteString(d.spinner.View() + " loading...\n")
	case d.err != nil:
		b.WriteString(d.styles.Failed.Render("error: "+d.err.Error()) + "\n")
	default:
		switch d.tab {
		case tabOverview:
			b.WriteString(d.renderOverview())
		case tabWorklist:
			b.WriteString(d.worklist.View() + "\n")
		case tabRuns:
			b.WriteString(d.runsTbl.View() + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(d.styles.Subtle.Render("tab/1-3 switch · r refresh · q quit"))
	return b.String()
}

func (d Dashboard) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for i, title := range tabTitles {
		if dashboardTab(i) == d.tab {
			parts = append(parts, d.styles.TabActive.Render(title))
		} else {
			parts = append(parts, d.styles.Tab.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (d Dashboard) renderOverview() string {
	var b strings.Builder
	m := d.data.Metrics

	b.WriteString(d.styles.Header.Render("Worklist") + "\n")
	b.WriteString(fmt.Sprintf("  total %d · done %d · failed %d · pending %d\n",
		m.Total, m.Done, m.Failed, m.Pending))
	b.WriteString(fmt.Sprintf("  %s  %.1f%% complete\n\n",
		theme.ProgressBar(m.Done, m.Total, 30), m.SuccessRate()))

	b.WriteString(d.styles.Header.Render("Recent activity") + "\n")
	if len(d.data.Recent) == 0 {
		b.WriteString(d.styles.Subtle.Render("  no runs yet") + "\n")
		return b.String()
	}
	for _, r := range d.data.Recent {
		b.WriteString(fmt.Sprintf("  row %-4d %s\n", r.SheetRow, d.styles.StatusBadge(r.Status)))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
