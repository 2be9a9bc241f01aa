package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"datastudio/internal/models"
)

// TestNames verifies all twenty palettes are present and sorted.
func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 20)
	assert.True(t, sortedStrings(names))
	assert.Contains(t, names, DefaultName)
	assert.Contains(t, names, "Rose Garden")
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

// TestGet_FallsBackToDefault verifies unknown names resolve to the default
// palette.
func TestGet_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, Get(DefaultName), Get("No Such Theme"))
	assert.Equal(t, "#00ffff", Get("").Primary)
}

func TestGet_Known(t *testing.T) {
	assert.Equal(t, "#ffd700", Get("Golden Hour").Primary)
	assert.True(t, Known("Ocean Depth"))
	assert.False(t, Known("ocean depth"))
}

// TestStatusBadge verifies badges carry the status text and a class marker.
func TestStatusBadge(t *testing.T) {
	styles := NewStyles(Get(DefaultName))

	assert.Contains(t, styles.StatusBadge(models.StatusDone), "Done")
	assert.Contains(t, styles.StatusBadge(models.StatusDone), "✔")
	assert.Contains(t, styles.StatusBadge("Error: copy failed"), "✘")
	assert.Contains(t, styles.StatusBadge(""), "pending")
}

// TestProgressBar covers empty, partial, full, and overfull states.
func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[░░░░] 0/8", ProgressBar(0, 8, 4))
	assert.Equal(t, "[██░░] 4/8", ProgressBar(4, 8, 4))
	assert.Equal(t, "[████] 8/8", ProgressBar(8, 8, 4))
	assert.Equal(t, "[████] 9/8", ProgressBar(9, 8, 4))
	assert.Equal(t, "[░] 0/0", ProgressBar(0, 0, 1))
}

func TestProgressBar_WidthFloor(t *testing.T) {
	bar := ProgressBar(1, 2, 0)
	assert.True(t, strings.HasPrefix(bar, "["))
}
