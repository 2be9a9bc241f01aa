package theme

import (
	"fmt"
	"strings"

	"datastudio/internal/models"
)

// StatusBadge renders a worklist status with its class color.
func (s Styles) StatusBadge(status string) string {
	switch models.ClassifyStatus(status) {
	case models.StatusClassSuccess:
		return s.Done.Render("✔ " + status)
	case models.StatusClassFailed:
		return s.Failed.Render("✘ " + status)
	default:
		if status == "" {
			status = "pending"
		}
		return s.Pending.Render("· " + status)
	}
}

// ProgressBar renders a fixed-width text progress bar like [████░░░░] 12/30.
func ProgressBar(done, total, width int) string {
	if width < 1 {
		width = 1
	}
	filled := 0
	if total > 0 {
		filled = done * width / total
		if filled > width {
			filled = width
		}
	}
	return fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		done, total)
}
