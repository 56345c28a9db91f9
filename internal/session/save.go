package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/steveyegge/beadboard/internal/types"
)

// FieldError records one failed per-field update during a save.
type FieldError struct {
	Field string
	Err   error
}

// SaveError aggregates every per-field failure from one save attempt. The
// save pipeline attempts every changed field before reporting, so no field
// failure masks another.
type SaveError struct {
	Fields []FieldError
}

func (e *SaveError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %v", fe.Field, fe.Err)
	}
	return "failed to save: " + strings.Join(parts, ", ")
}

// fieldEdit is one pending single-field update.
type fieldEdit struct {
	field string
	value string
}

// changedFields diffs an edited issue against its fetched original and
// returns the updates to issue, in the fixed order title, status, priority,
// assignee, notes. A nil original means the baseline is unknown and every
// editable field is sent.
func changedFields(edited, original *types.Issue) []fieldEdit {
	changed := func(get func(*types.Issue) string) (string, bool) {
		v := get(edited)
		if original == nil {
			return v, true
		}
		if v != get(original) {
			return v, true
		}
		return "", false
	}

	var edits []fieldEdit
	if v, ok := changed(func(i *types.Issue) string { return i.Title }); ok {
		edits = append(edits, fieldEdit{"title", v})
	}
	if v, ok := changed(func(i *types.Issue) string { return string(i.Status) }); ok {
		edits = append(edits, fieldEdit{"status", v})
	}
	if v, ok := changed(func(i *types.Issue) string { return strconv.Itoa(i.Priority) }); ok {
		edits = append(edits, fieldEdit{"priority", v})
	}
	// Assignee and notes are optional; an empty value is "absent" and is
	// never pushed as an update.
	if edited.Assignee != "" {
		if v, ok := changed(func(i *types.Issue) string { return i.Assignee }); ok {
			edits = append(edits, fieldEdit{"assignee", v})
		}
	}
	if edited.Notes != "" {
		if v, ok := changed(func(i *types.Issue) string { return i.Notes }); ok {
			edits = append(edits, fieldEdit{"notes", v})
		}
	}
	return edits
}

// Save pushes an edited issue's changed fields through the gateway, one
// update call per field. Every field is attempted regardless of earlier
// failures. On full success the issue's cached detail is dropped, the
// modified flag cleared, and the whole snapshot refreshed; on any failure
// the edit state is preserved and a *SaveError describing every failed
// field is returned.
func (s *Session) Save(ctx context.Context, edited *types.Issue) error {
	original, _ := s.cache.GetIssue(ctx, edited.ID)

	var failures []FieldError
	for _, edit := range changedFields(edited, original) {
		if err := s.gw.Update(ctx, edited.ID, edit.field, edit.value); err != nil {
			failures = append(failures, FieldError{Field: edit.field, Err: err})
		}
	}

	if len(failures) > 0 {
		return &SaveError{Fields: failures}
	}

	s.modified = false
	s.current = nil
	s.cache.Drop(edited.ID)
	s.Refresh(ctx)
	return nil
}

// SaveCurrent saves the session's current edit target.
func (s *Session) SaveCurrent(ctx context.Context) error {
	if s.current == nil {
		return fmt.Errorf("no issue loaded")
	}
	return s.Save(ctx, s.current)
}
