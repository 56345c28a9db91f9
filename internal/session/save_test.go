package session

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/steveyegge/beadboard/internal/types"
)

func TestChangedFieldsDiffsAgainstOriginal(t *testing.T) {
	original := &types.Issue{
		ID:       "api-1",
		Title:    "Old title",
		Status:   types.StatusOpen,
		Priority: 2,
		Assignee: "alice",
		Notes:    "old notes",
	}

	edited := original.Clone()
	edited.Title = "New title"
	edited.Status = types.StatusInProgress

	var fields []string
	for _, e := range changedFields(edited, original) {
		fields = append(fields, e.field)
	}
	if !reflect.DeepEqual(fields, []string{"title", "status"}) {
		t.Errorf("changed fields = %v, want [title status]", fields)
	}
}

func TestChangedFieldsFixedOrder(t *testing.T) {
	original := &types.Issue{ID: "api-1", Title: "t", Status: types.StatusOpen, Priority: 2}

	edited := original.Clone()
	edited.Notes = "n"
	edited.Assignee = "bob"
	edited.Priority = 0
	edited.Status = types.StatusClosed
	edited.Title = "t2"

	var fields []string
	for _, e := range changedFields(edited, original) {
		fields = append(fields, e.field)
	}
	want := []string{"title", "status", "priority", "assignee", "notes"}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("field order = %v, want %v", fields, want)
	}
}

func TestChangedFieldsSkipsEmptyOptionals(t *testing.T) {
	edited := &types.Issue{ID: "api-1", Title: "t", Status: types.StatusOpen, Priority: 1}

	// Unknown baseline: every editable field is sent, but absent assignee
	// and notes still are not.
	var fields []string
	for _, e := range changedFields(edited, nil) {
		fields = append(fields, e.field)
	}
	want := []string{"title", "status", "priority"}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("fields with nil baseline = %v, want %v", fields, want)
	}
}

func TestSaveSuccessRefreshesSnapshot(t *testing.T) {
	gw := newStubGateway()
	gw.addIssue("/w/api", types.Issue{ID: "api-1", Title: "Old", Status: types.StatusOpen, Priority: 2})

	sess := newTestSession(gw, testRegistry("/w/api"))
	ctx := context.Background()
	sess.Refresh(ctx)

	edited, err := sess.LoadDetail(ctx, "api-1")
	if err != nil {
		t.Fatalf("LoadDetail() error: %v", err)
	}
	edited.Title = "New"
	edited.Priority = 0
	sess.MarkModified()

	listCallsBefore := gw.listCalls
	if err := sess.Save(ctx, edited); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	want := []string{"api-1/title=New", "api-1/priority=0"}
	if !reflect.DeepEqual(gw.updateCalls, want) {
		t.Errorf("update calls = %v, want %v", gw.updateCalls, want)
	}

	if sess.Modified() {
		t.Error("successful save kept the modified flag")
	}
	if sess.Current() != nil {
		t.Error("successful save kept the edit target")
	}
	if gw.listCalls <= listCallsBefore {
		t.Error("successful save did not refresh the snapshot")
	}
}

func TestSaveFailureAggregatesAndPreservesState(t *testing.T) {
	gw := newStubGateway()
	gw.addIssue("/w/api", types.Issue{ID: "api-1", Title: "Old", Status: types.StatusOpen, Priority: 2})
	gw.failUpdate["api-1/title"] = errors.New("store rejected title")
	gw.failUpdate["api-1/assignee"] = errors.New("unknown user")

	sess := newTestSession(gw, testRegistry("/w/api"))
	ctx := context.Background()
	sess.Refresh(ctx)

	edited, err := sess.LoadDetail(ctx, "api-1")
	if err != nil {
		t.Fatalf("LoadDetail() error: %v", err)
	}
	edited.Title = "New"
	edited.Status = types.StatusInProgress
	edited.Assignee = "ghost"
	sess.MarkModified()

	listCallsBefore := gw.listCalls
	err = sess.Save(ctx, edited)

	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("Save() error = %v, want *SaveError", err)
	}

	var failed []string
	for _, fe := range saveErr.Fields {
		failed = append(failed, fe.Field)
	}
	if !reflect.DeepEqual(failed, []string{"title", "assignee"}) {
		t.Errorf("failed fields = %v, want [title assignee]", failed)
	}

	// Every changed field was still attempted.
	want := []string{"api-1/title=New", "api-1/status=in_progress", "api-1/assignee=ghost"}
	if !reflect.DeepEqual(gw.updateCalls, want) {
		t.Errorf("update calls = %v, want %v", gw.updateCalls, want)
	}

	if !sess.Modified() {
		t.Error("failed save cleared the modified flag")
	}
	if gw.listCalls != listCallsBefore {
		t.Error("failed save triggered a refresh")
	}
}

func TestSaveNoChangesIsNoOp(t *testing.T) {
	gw := newStubGateway()
	gw.addIssue("/w/api", types.Issue{ID: "api-1", Title: "Old", Status: types.StatusOpen, Priority: 2})

	sess := newTestSession(gw, testRegistry("/w/api"))
	ctx := context.Background()
	sess.Refresh(ctx)

	edited, err := sess.LoadDetail(ctx, "api-1")
	if err != nil {
		t.Fatalf("LoadDetail() error: %v", err)
	}

	if err := sess.Save(ctx, edited); err != nil {
		t.Fatalf("Save() with no edits returned %v", err)
	}
	if len(gw.updateCalls) != 0 {
		t.Errorf("no-op save issued updates: %v", gw.updateCalls)
	}
}

func TestSaveCurrentRequiresLoadedIssue(t *testing.T) {
	gw := newStubGateway()
	sess := newTestSession(gw, testRegistry("/w/api"))

	if err := sess.SaveCurrent(context.Background()); err == nil {
		t.Error("SaveCurrent() without a loaded issue succeeded")
	}
}

func TestSaveErrorMessage(t *testing.T) {
	err := &SaveError{Fields: []FieldError{
		{Field: "title", Err: errors.New("boom")},
		{Field: "notes", Err: errors.New("too long")},
	}}

	want := "failed to save: title: boom, notes: too long"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
