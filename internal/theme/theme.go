// Package theme holds the named color palettes and the lipgloss styles the
// terminal surfaces render with.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// DefaultName is the palette used when none is configured or the configured
// name is unknown.
const DefaultName = "Cyber Neon"

// Palette is a six-color scheme.
type Palette struct {
	Primary    string
	Secondary  string
	Background string
	Surface    string
	Text       string
	Accent     string
}

var palettes = map[string]Palette{
	"Cyber Neon":      {Primary: "#00ffff", Secondary: "#ff00ff", Background: "#0a0e27", Surface: "#1a1f3a", Text: "#e0e0e0", Accent: "#00ff88"},
	"Sunset Glow":     {Primary: "#ff6b6b", Secondary: "#ffd93d", Background: "#2d1b2e", Surface: "#3d2b3e", Text: "#f5f5f5", Accent: "#ff9a56"},
	"Ocean Depth":     {Primary: "#0077be", Secondary: "#00b4d8", Background: "#011627", Surface: "#1a2332", Text: "#f1f1f1", Accent: "#48cae4"},
	"Forest Twilight": {Primary: "#2d6a4f", Secondary: "#52b788", Background: "#1b263b", Surface: "#2d3e50", Text: "#e8f5e9", Accent: "#95d5b2"},
	"Royal Purple":    {Primary: "#7b2cbf", Secondary: "#c77dff", Background: "#10002b", Surface: "#240046", Text: "#f0e6ff", Accent: "#e0aaff"},
	"Desert Sunset":   {Primary: "#d4a373", Secondary: "#ee9b00", Background: "#1a1410", Surface: "#2d2418", Text: "#fdf6e3", Accent: "#ca6702"},
	"Arctic Ice":      {Primary: "#4cc9f0", Secondary: "#7209b7", Background: "#03045e", Surface: "#023e8a", Text: "#caf0f8", Accent: "#90e0ef"},
	"Volcanic Ash":    {Primary: "#e63946", Secondary: "#f77f00", Background: "#1d1d1d", Surface: "#2d2d2d", Text: "#f1faee", Accent: "#ffb703"},
	"Mint Fresh":      {Primary: "#06ffa5", Secondary: "#00d9ff", Background: "#0f1419", Surface: "#1a2027", Text: "#e8fff3", Accent: "#4fffb0"},
	"Lavender Dreams": {Primary: "#b8a7d4", Secondary: "#d4a5d8", Background: "#1a1423", Surface: "#2d243a", Text: "#f8f4ff", Accent: "#c4b5f3"},
	"Monochrome Pro":  {Primary: "#ffffff", Secondary: "#b0b0b0", Background: "#000000", Surface: "#1a1a1a", Text: "#ffffff", Accent: "#808080"},
	"Coral Reef":      {Primary: "#ff6f61", Secondary: "#ffb399", Background: "#1a0f14", Surface: "#2d1f24", Text: "#fff5f5", Accent: "#ff9a8a"},
	"Emerald Night":   {Primary: "#50c878", Secondary: "#00a86b", Background: "#0a1612", Surface: "#142822", Text: "#e8fff2", Accent: "#7cf5a0"},
	"Golden Hour":     {Primary: "#ffd700", Secondary: "#ffed4e", Background: "#1a1410", Surface: "#2d2418", Text: "#fffef0", Accent: "#ffe55c"},
	"Deep Space":      {Primary: "#8b5cf6", Secondary: "#ec4899", Background: "#0c0a1d", Surface: "#1a1631", Text: "#f3e8ff", Accent: "#a78bfa"},
	"Crimson Edge":    {Primary: "#dc143c", Secondary: "#ff6b9d", Background: "#1a0a0f", Surface: "#2d141f", Text: "#fff0f5", Accent: "#ff4d6d"},
	"Teal Fusion":     {Primary: "#14b8a6", Secondary: "#06b6d4", Background: "#0f1419", Surface: "#1a2530", Text: "#e0f2fe", Accent: "#5eead4"},
	"Amber Glow":      {Primary: "#f59e0b", Secondary: "#fbbf24", Background: "#1c1410", Surface: "#2d2318", Text: "#fffbeb", Accent: "#fcd34d"},
	"Indigo Wave":     {Primary: "#6366f1", Secondary: "#818cf8", Background: "#0f0f1e", Surface: "#1e1e3f", Text: "#e0e7ff", Accent: "#a5b4fc"},
	"Rose Garden":     {Primary: "#f43f5e", Secondary: "#fb7185", Background: "#1f0a13", Surface: "#2d1420", Text: "#fff1f2", Accent: "#fda4af"},
}

// Names returns all palette names sorted alphabetically.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the palette for name, falling back to the default when the
// name is unknown.
func Get(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[DefaultName]
}

// Known reports whether name is a defined palette.
func Known(name string) bool {
	_, ok := palettes[name]
	return ok
}

// Styles are the lipgloss styles derived from a palette.
type Styles struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	Subtle    lipgloss.Style
	Accent    lipgloss.Style
	Done      lipgloss.Style
	Failed    lipgloss.Style
	Pending   lipgloss.Style
	TabActive lipgloss.Style
	Tab       lipgloss.Style
	Panel     lipgloss.Style
}

// NewStyles builds the style set for a palette.
func NewStyles(p Palette) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Primary)),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Secondary)),
		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Text)).
			Faint(true),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Accent)),
		Done: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#22c55e")),
		Failed: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ef4444")),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#eab308")),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Background)).
			Background(lipgloss.Color(p.Primary)).
			Padding(0, 2),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Text)).
			Padding(0, 2),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Primary)).
			Padding(0, 1),
	}
}
