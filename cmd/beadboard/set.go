package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/beadboard/internal/session"
	"github.com/steveyegge/beadboard/internal/types"
)

var setCmd = &cobra.Command{
	Use:     "set <issue-id>",
	GroupID: "issues",
	Short:   "Edit fields of an issue and write them back",
	Long: `Edit one or more fields of an issue. Only the fields that actually
changed are written back, one update per field. If some updates fail the
rest are still attempted, and every failure is reported.

A successful save refreshes the aggregated view so derived state (blocked,
ready) reflects the change.

Example usage:
  beadboard set myproj-42 --status in_progress
  beadboard set myproj-42 --priority 1 --assignee alice
  beadboard set myproj-42 --title "Rework login flow"`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	setCmd.Flags().String("title", "", "New title")
	setCmd.Flags().String("status", "", "New status (open, in_progress, closed)")
	setCmd.Flags().Int("priority", -1, "New priority (0-4)")
	setCmd.Flags().String("assignee", "", "New assignee")
	setCmd.Flags().String("notes", "", "New notes")

	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	id := args[0]
	ctx := cmd.Context()

	sess := newSession()
	sess.Refresh(ctx)

	issue, err := sess.LoadDetail(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", id, err)
	}

	changed := false

	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		issue.Title = title
		changed = true
	}
	if cmd.Flags().Changed("status") {
		raw, _ := cmd.Flags().GetString("status")
		status := types.Status(raw)
		if !validStatus(status) {
			return fmt.Errorf("invalid status %q, expected one of %v", raw, types.EditableStatuses())
		}
		issue.Status = status
		changed = true
	}
	if cmd.Flags().Changed("priority") {
		priority, _ := cmd.Flags().GetInt("priority")
		if priority < 0 || priority > 4 {
			return fmt.Errorf("invalid priority %d, expected 0-4", priority)
		}
		issue.Priority = priority
		changed = true
	}
	if cmd.Flags().Changed("assignee") {
		assignee, _ := cmd.Flags().GetString("assignee")
		issue.Assignee = assignee
		changed = true
	}
	if cmd.Flags().Changed("notes") {
		notes, _ := cmd.Flags().GetString("notes")
		issue.Notes = notes
		changed = true
	}

	if !changed {
		return errors.New("no fields given, nothing to do")
	}

	sess.MarkModified()

	if err := sess.Save(ctx, issue); err != nil {
		var saveErr *session.SaveError
		if errors.As(err, &saveErr) {
			fmt.Fprintln(os.Stderr, "Some fields could not be saved:")
			for _, fe := range saveErr.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", fe.Field, fe.Err)
			}
		}
		return fmt.Errorf("save failed for %s: %w", id, err)
	}

	fmt.Printf("Saved %s\n", id)
	return nil
}

func validStatus(s types.Status) bool {
	for _, valid := range types.EditableStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}
