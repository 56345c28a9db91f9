package query

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultCardinalityLimit is the number of distinct column values above
// which per-value filter menus are withheld.
const DefaultCardinalityLimit = 20

// State holds one consumer's view parameters: free-text search, per-column
// exclusion filters, and the active sort key. It carries no issue data;
// Run applies it to whatever rows the session produced.
type State struct {
	// FilterText is matched case-insensitively as a substring against an
	// issue's searchable fields. Empty means no text predicate.
	FilterText string

	// Filters maps columns to their exclusion sets. Absence of a column
	// means no filter on it.
	Filters map[Column]*ColumnFilter

	// SortColumn and Ascending define the single active sort key.
	SortColumn Column
	Ascending  bool

	// CardinalityLimit gates per-value filter menus. Zero means
	// DefaultCardinalityLimit.
	CardinalityLimit int
}

// NewState returns the default view: sorted by Priority ascending, with the
// given status values excluded up front (conventionally just "closed").
func NewState(excludedStatuses ...string) *State {
	s := &State{
		Filters:    make(map[Column]*ColumnFilter),
		SortColumn: ColumnPriority,
		Ascending:  true,
	}
	if len(excludedStatuses) > 0 {
		s.Filters[ColumnStatus] = NewColumnFilterExcluding(excludedStatuses...)
	}
	return s
}

// SetSort activates a sort column. Re-selecting the active column toggles
// direction; a new column resets to ascending.
func (s *State) SetSort(c Column) {
	if s.SortColumn == c {
		s.Ascending = !s.Ascending
		return
	}
	s.SortColumn = c
	s.Ascending = true
}

// ToggleExclude flips the exclusion of a projected value on a column.
func (s *State) ToggleExclude(c Column, value string) {
	if s.Filters == nil {
		s.Filters = make(map[Column]*ColumnFilter)
	}
	f, ok := s.Filters[c]
	if !ok {
		f = NewColumnFilter()
		s.Filters[c] = f
	}
	f.ToggleExclude(value)
}

// Run applies the state to the given rows: text predicate, column
// exclusions (AND across columns, OR within one), then a stable sort by the
// active column. The input is not modified.
func (s *State) Run(rows []Row) []Row {
	filter := strings.ToLower(s.FilterText)

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if filter != "" && !matchesText(r, filter) {
			continue
		}
		if s.excluded(r) {
			continue
		}
		out = append(out, r)
	}

	col := s.SortColumn
	sort.SliceStable(out, func(i, j int) bool {
		if s.Ascending {
			return col.less(out[i], out[j])
		}
		return col.less(out[j], out[i])
	})

	return out
}

// excluded reports whether any column filter hides the row.
func (s *State) excluded(r Row) bool {
	for col, f := range s.Filters {
		if f.IsExcluded(col.Project(r)) {
			return true
		}
	}
	return false
}

// matchesText reports whether any searchable field of the row contains the
// lowercased filter text. The raw status and the derived readiness are both
// searchable; an absent assignee contributes no match.
func matchesText(r Row, filter string) bool {
	issue := r.Issue
	fields := []string{
		issue.ID,
		issue.Title,
		issue.Description,
		string(issue.Status),
		issue.IssueType,
		issue.Assignee,
		string(r.Readiness),
		strconv.Itoa(r.Blockers),
		strconv.Itoa(r.Dependents),
	}
	for _, f := range fields {
		if f == "" {
			continue
		}
		if strings.Contains(strings.ToLower(f), filter) {
			return true
		}
	}
	return false
}

// cardinalityLimit returns the effective menu-gating threshold.
func (s *State) cardinalityLimit() int {
	if s.CardinalityLimit > 0 {
		return s.CardinalityLimit
	}
	return DefaultCardinalityLimit
}

// FilterMenu returns the sorted distinct values to offer in a column's
// per-value filter menu, or ok=false when the column never offers one
// (ID, Title) or its cardinality exceeds the limit.
func (s *State) FilterMenu(rows []Row, c Column) (values []string, ok bool) {
	if !c.FilterMenuAllowed() {
		return nil, false
	}

	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[c.Project(r)] = struct{}{}
	}
	if len(seen) > s.cardinalityLimit() {
		return nil, false
	}

	values = make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, true
}
