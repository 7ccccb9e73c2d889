package ui

import (
	"time"

	"github.com/enki-verse/enkiverse-website/systems"
	"github.com/enki-verse/enkiverse-website/telemetry"
)

// PerfRow is one system's share of the average frame.
type PerfRow struct {
	ID   string
	Name string
	Avg  time.Duration
	Pct  float64
}

// PerfRows lists registered systems in frame order with their timings.
// Phases the registry does not know are appended by ID.
func PerfRows(stats telemetry.PerfStats, reg *systems.SystemRegistry) []PerfRow {
	var rows []PerfRow
	seen := make(map[string]bool)
	if reg != nil {
		for _, info := range reg.All() {
			seen[info.ID] = true
			rows = append(rows, PerfRow{ID: info.ID, Name: info.Name, Avg: stats.PhaseAvg[info.ID], Pct: stats.PhasePct[info.ID]})
		}
	}
	for _, id := range telemetry.Phases {
		if seen[id] {
			continue
		}
		rows = append(rows, PerfRow{ID: id, Name: id, Avg: stats.PhaseAvg[id], Pct: stats.PhasePct[id]})
	}
	return rows
}
