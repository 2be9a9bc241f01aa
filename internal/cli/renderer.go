package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"golang.org/x/term"

	"datastudio/internal/runs"
	"datastudio/internal/theme"
	"datastudio/internal/workflow"
)

const defaultRenderWidth = 100

// Renderer writes run progress and results to the terminal.
type Renderer struct {
	out     io.Writer
	styles  theme.Styles
	noColor bool
	width   int
}

// NewRenderer creates a renderer for the given palette. Width comes from the
// terminal when stdout is one.
func NewRenderer(out io.Writer, palette theme.Palette, noColor bool) *Renderer {
	width := defaultRenderWidth
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
		width = tw
	}
	return &Renderer{
		out:     out,
		styles:  theme.NewStyles(palette),
		noColor: noColor,
		width:   width,
	}
}

// RenderProgress writes a one-line progress bar for a running workflow.
func (r *Renderer) RenderProgress(p workflow.Progress) {
	bar := theme.ProgressBar(p.Done+p.Failed, p.Total, 24)
	line := fmt.Sprintf("%s  done=%d failed=%d skipped=%d", bar, p.Done, p.Failed, p.Skipped)
	if p.Current > 0 {
		line += fmt.Sprintf("  row %d", p.Current)
	}
	fmt.Fprintf(r.out, "\r%-*s", r.width-1, line)
	if p.Finished {
		fmt.Fprintln(r.out)
	}
}

// RenderMetrics writes the worklist summary block.
func (r *Renderer) RenderMetrics(m runs.Metrics) {
	fmt.Fprintln(r.out, r.styled(r.styles.Header, "Worklist"))
	fmt.Fprintf(r.out, "  total: %d  done: %d  failed: %d  pending: %d  success: %.1f%%\n",
		m.Total, m.Done, m.Failed, m.Pending, m.SuccessRate())
}

// RenderRowOutcome writes one row's generation result.
func (r *Renderer) RenderRowOutcome(o workflow.RowOutcome) {
	badge := o.Status
	if !r.noColor {
		badge = r.styles.StatusBadge(o.Status)
	}
	fmt.Fprintf(r.out, "row %d  %s\n", o.SheetRow, badge)
	if o.DocURL != "" {
		fmt.Fprintf(r.out, "  doc: %s\n", o.DocURL)
	}
	if o.PDFURL != "" {
		fmt.Fprintf(r.out, "  pdf: %s\n", o.PDFURL)
	}
}

// RenderAgentOutcome writes one agent's output for a row. Successful output
// is rendered as markdown.
func (r *Renderer) RenderAgentOutcome(sheetRow int, o workflow.AgentOutcome) {
	title := fmt.Sprintf("%s (row %d)", o.AgentName, sheetRow)
	fmt.Fprintln(r.out, r.styled(r.styles.Title, title))

	if o.Error != "" {
		fmt.Fprintln(r.out, r.styled(r.styles.Failed, "error: "+o.Error))
		return
	}
	fmt.Fprint(r.out, r.renderMarkdown(o.Output))
	if o.InputTokens > 0 || o.OutputTokens > 0 {
		fmt.Fprintln(r.out, r.styled(r.styles.Subtle,
			fmt.Sprintf("tokens: %d in / %d out", o.InputTokens, o.OutputTokens)))
	}
}

func (r *Renderer) styled(style interface{ Render(...string) string }, s string) string {
	if r.noColor {
		return s
	}
	return style.Render(s)
}

// renderMarkdown renders agent output as terminal markdown, falling back to
// the raw text when glamour fails.
func (r *Renderer) renderMarkdown(text string) string {
	style := glamourstyles.DarkStyleConfig
	if r.noColor {
		style = glamourstyles.NoTTYStyleConfig
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return ensureNewline(text)
	}
	out, err := renderer.Render(text)
	if err != nil {
		return ensureNewline(text)
	}
	return out
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
