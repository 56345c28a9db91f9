package query

import "sort"

// ColumnFilter is a set of excluded display values for one column. A value
// in the set hides every row whose projected value equals it exactly.
type ColumnFilter struct {
	excluded map[string]struct{}
}

// NewColumnFilter returns an empty filter.
func NewColumnFilter() *ColumnFilter {
	return &ColumnFilter{excluded: make(map[string]struct{})}
}

// NewColumnFilterExcluding returns a filter seeded with excluded values.
func NewColumnFilterExcluding(values ...string) *ColumnFilter {
	f := NewColumnFilter()
	for _, v := range values {
		f.excluded[v] = struct{}{}
	}
	return f
}

// IsExcluded reports whether the value is filtered out.
func (f *ColumnFilter) IsExcluded(value string) bool {
	if f == nil {
		return false
	}
	_, ok := f.excluded[value]
	return ok
}

// ToggleExclude flips a value's membership in the exclusion set.
func (f *ColumnFilter) ToggleExclude(value string) {
	if _, ok := f.excluded[value]; ok {
		delete(f.excluded, value)
		return
	}
	f.excluded[value] = struct{}{}
}

// Active reports whether any value is excluded.
func (f *ColumnFilter) Active() bool {
	return f != nil && len(f.excluded) > 0
}

// Excluded returns the excluded values in sorted order.
func (f *ColumnFilter) Excluded() []string {
	if f == nil {
		return nil
	}
	out := make([]string, 0, len(f.excluded))
	for v := range f.excluded {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Clear removes every exclusion.
func (f *ColumnFilter) Clear() {
	f.excluded = make(map[string]struct{})
}
