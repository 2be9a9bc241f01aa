package cli

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datastudio/internal/models"
	"datastudio/internal/runs"
	"datastudio/internal/theme"
)

type fakeLoader struct {
	data DashboardData
	err  error
}

func (f *fakeLoader) Load(ctx context.Context) (DashboardData, error) {
	return f.data, f.err
}

func dashboardData() DashboardData {
	return DashboardData{
		Headers: []string{"Company", "Industry", models.TriggerColumn, models.StatusColumn, models.DocURLColumn},
		Rows: []models.RowSnapshot{
			{SheetRow: 2, Values: map[string]string{
				"Company": "Acme Corp", "Industry": "Technology",
				models.StatusColumn: models.StatusDone,
			}},
			{SheetRow: 3, Values: map[string]string{
				"Company": "Globex", "Industry": "Manufacturing",
			}},
		},
		Metrics: runs.Metrics{Total: 2, Done: 1, Pending: 1},
		Runs: []runs.Run{{
			ID: "0123456789ab", Kind: runs.KindGenerate,
			StartedAt: time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC),
			Total:     2, Done: 1,
		}},
		Recent: []runs.RowResult{
			{SheetRow: 2, Status: models.StatusDone},
		},
	}
}

// loaded returns a dashboard model with data applied.
func loaded(t *testing.T) Dashboard {
	t.Helper()
	d := NewDashboard(&fakeLoader{data: dashboardData()}, theme.Get(theme.DefaultName))
	model, _ := d.Update(dataMsg(dashboardData()))
	dash, ok := model.(Dashboard)
	require.True(t, ok)
	return dash
}

// TestDashboard_OverviewView verifies the overview tab shows metrics and the
// recent-activity feed.
func TestDashboard_OverviewView(t *testing.T) {
	d := loaded(t)
	view := d.View()

	assert.Contains(t, view, "total 2")
	assert.Contains(t, view, "done 1")
	assert.Contains(t, view, "50.0% complete")
	assert.Contains(t, view, "Recent activity")
	assert.Contains(t, view, "row 2")
}

// TestDashboard_TabSwitching verifies tab and number keys change the active
// tab.
func TestDashboard_TabSwitching(t *testing.T) {
	d := loaded(t)

	model, _ := d.Update(tea.KeyMsg{Type: tea.KeyTab})
	d = model.(Dashboard)
	assert.Equal(t, tabWorklist, d.tab)
	assert.Contains(t, d.View(), "Acme Corp")

	model, _ = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	d = model.(Dashboard)
	assert.Equal(t, tabRuns, d.tab)
	assert.Contains(t, d.View(), "01234567")
	assert.Contains(t, d.View(), runs.KindGenerate)

	model, _ = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	d = model.(Dashboard)
	assert.Equal(t, tabOverview, d.tab)
}

// TestDashboard_Quit verifies q quits.
func TestDashboard_Quit(t *testing.T) {
	d := loaded(t)
	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

// TestDashboard_LoadError verifies a loader failure lands in the view.
func TestDashboard_LoadError(t *testing.T) {
	d := NewDashboard(&fakeLoader{err: fmt.Errorf("store offline")}, theme.Get(theme.DefaultName))
	model, _ := d.Update(dataErrMsg{err: fmt.Errorf("store offline")})
	dash := model.(Dashboard)

	assert.Contains(t, dash.View(), "store offline")
}

// TestDashboard_WorklistOmitsControlColumns verifies control columns do not
// duplicate into the data columns.
func TestDashboard_WorklistOmitsControlColumns(t *testing.T) {
	d := loaded(t)
	model, _ := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	d = model.(Dashboard)

	view := d.View()
	assert.Contains(t, view, "Company")
	assert.Contains(t, view, "Status")
	assert.NotContains(t, view, models.DocURLColumn)
}
