package runs

import "datastudio/internal/models"

// Metrics summarizes worklist status for the dashboard.
type Metrics struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
}

// SuccessRate returns done as a percentage of total, 0 when empty.
func (m Metrics) SuccessRate() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Done) / float64(m.Total) * 100
}

// ComputeMetrics tallies worklist rows by status class.
func ComputeMetrics(rows []models.RowSnapshot) Metrics {
	m := Metrics{Total: len(rows)}
	for _, row := range rows {
		switch models.ClassifyStatus(row.Get(models.StatusColumn)) {
		case models.StatusClassSuccess:
			m.Done++
		case models.StatusClassFailed:
			m.Failed++
		default:
			m.Pending++
		}
	}
	return m
}
