// Package query filters, sorts, and projects the aggregated issue set.
//
// The pipeline operates on Rows: issues paired with their computed
// readiness and blocker/dependent counts, produced once per pass by the
// session. Everything in this package is pure over its inputs.
package query

import (
	"strconv"

	"github.com/steveyegge/beadboard/internal/types"
)

// Column identifies one sortable/filterable column of the issue table.
type Column int

// The fixed column set.
const (
	ColumnID Column = iota
	ColumnDirectory
	ColumnTitle
	ColumnStatus
	ColumnPriority
	ColumnType
	ColumnAssignee
	ColumnBlockers
	ColumnDependents
)

// Columns returns all columns in display order.
func Columns() []Column {
	return []Column{
		ColumnID, ColumnDirectory, ColumnTitle, ColumnStatus, ColumnPriority,
		ColumnType, ColumnAssignee, ColumnBlockers, ColumnDependents,
	}
}

// String returns the column's display label.
func (c Column) String() string {
	switch c {
	case ColumnID:
		return "ID"
	case ColumnDirectory:
		return "Directory"
	case ColumnTitle:
		return "Title"
	case ColumnStatus:
		return "Status"
	case ColumnPriority:
		return "Priority"
	case ColumnType:
		return "Type"
	case ColumnAssignee:
		return "Assignee"
	case ColumnBlockers:
		return "Blockers"
	case ColumnDependents:
		return "Dependents"
	default:
		return "unknown"
	}
}

// ColumnByName resolves a display label (case as returned by String) to its
// column. The second return is false for unknown names.
func ColumnByName(name string) (Column, bool) {
	for _, c := range Columns() {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// Row pairs an issue with the values computed for it during one pass:
// readiness and blocker/dependent counts. Index is the issue's position in
// the post-aggregation order, preserved so consumers can map a filtered row
// back to the underlying set.
type Row struct {
	Issue      types.Issue
	Readiness  types.Readiness
	Blockers   int
	Dependents int
	Index      int
}

// Project returns the row's display value for this column. The Status
// column shows readiness, Priority renders as "P<n>", and an absent
// assignee renders as "-".
func (c Column) Project(r Row) string {
	switch c {
	case ColumnID:
		return r.Issue.ID
	case ColumnDirectory:
		return r.Issue.SourceDirectory
	case ColumnTitle:
		return r.Issue.Title
	case ColumnStatus:
		return string(r.Readiness)
	case ColumnPriority:
		return "P" + strconv.Itoa(r.Issue.Priority)
	case ColumnType:
		return r.Issue.IssueType
	case ColumnAssignee:
		if r.Issue.Assignee == "" {
			return "-"
		}
		return r.Issue.Assignee
	case ColumnBlockers:
		return strconv.Itoa(r.Blockers)
	case ColumnDependents:
		return strconv.Itoa(r.Dependents)
	default:
		return ""
	}
}

// less orders two rows by this column's natural ordering: numeric for
// Priority and the count columns, lexical on the projected value otherwise.
func (c Column) less(a, b Row) bool {
	switch c {
	case ColumnPriority:
		return a.Issue.Priority < b.Issue.Priority
	case ColumnBlockers:
		return a.Blockers < b.Blockers
	case ColumnDependents:
		return a.Dependents < b.Dependents
	default:
		return c.Project(a) < c.Project(b)
	}
}

// FilterMenuAllowed reports whether the column may ever offer a per-value
// filter menu. ID and Title are expected to be unique per row, so they
// never do.
func (c Column) FilterMenuAllowed() bool {
	return c != ColumnID && c != ColumnTitle
}

// Cardinality counts the distinct projected values of a column across the
// given rows.
func Cardinality(rows []Row, c Column) int {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[c.Project(r)] = struct{}{}
	}
	return len(seen)
}
