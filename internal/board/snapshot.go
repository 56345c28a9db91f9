package board

import (
	"encoding/json"
	"fmt"

	"github.com/steveyegge/beadboard/internal/query"
	"github.com/steveyegge/beadboard/internal/types"
)

// IssueView is the wire representation of an issue row.
type IssueView struct {
	ID         string `json:"id"`
	Directory  string `json:"directory"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Priority   int    `json:"priority"`
	Type       string `json:"type,omitempty"`
	Assignee   string `json:"assignee,omitempty"`
	Blockers   int    `json:"blockers"`
	Dependents int    `json:"dependents"`
}

// BuildSnapshot renders rows into the JSON document served at /api/issues.
func BuildSnapshot(rows []query.Row) ([]byte, error) {
	views := make([]IssueView, 0, len(rows))
	for _, r := range rows {
		views = append(views, IssueView{
			ID:         r.Issue.ID,
			Directory:  r.Issue.SourceDirectory,
			Title:      r.Issue.Title,
			Status:     string(r.Readiness),
			Priority:   r.Issue.Priority,
			Type:       r.Issue.IssueType,
			Assignee:   r.Issue.Assignee,
			Blockers:   r.Blockers,
			Dependents: r.Dependents,
		})
	}

	data, err := json.Marshal(views)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// ComputeStats tallies rows per readiness value.
func ComputeStats(rows []query.Row) StatsData {
	stats := StatsData{Total: len(rows)}
	for _, r := range rows {
		switch r.Readiness {
		case types.ReadinessReady:
			stats.Ready++
		case types.ReadinessBlocked:
			stats.Blocked++
		case types.ReadinessInProgress:
			stats.InProgress++
		case types.ReadinessClosed:
			stats.Closed++
		}
	}
	return stats
}
