package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/steveyegge/beadboard/internal/query"
)

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: "issues",
	Short:   "Show the combined issue table",
	Long: `List issues aggregated from every visible registered directory.

The Status column shows the derived work state (ready, blocked, in_progress,
closed), not the stored status. By default closed issues are hidden; pass
--all to include them.

Filtering and sorting:
  --filter TEXT        case-insensitive substring match across all fields
  --exclude COL=VALUE  hide rows whose column shows VALUE (repeatable)
  --sort COL           sort column (default Priority)
  --desc               sort descending

Example usage:
  beadboard list --filter auth
  beadboard list --sort Dependents --desc
  beadboard list --exclude Type=chore --exclude Assignee=-`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("filter", "", "Text filter matched against every field")
	listCmd.Flags().String("sort", "", "Sort column (ID, Directory, Title, Status, Priority, Type, Assignee, Blockers, Dependents)")
	listCmd.Flags().Bool("desc", false, "Sort descending")
	listCmd.Flags().StringArray("exclude", nil, "Exclude rows by column value, as COL=VALUE")
	listCmd.Flags().Bool("all", false, "Include closed issues")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	filter, _ := cmd.Flags().GetString("filter")
	sortName, _ := cmd.Flags().GetString("sort")
	desc, _ := cmd.Flags().GetBool("desc")
	excludes, _ := cmd.Flags().GetStringArray("exclude")
	all, _ := cmd.Flags().GetBool("all")

	var st *query.State
	if all {
		st = query.NewState()
	} else {
		st = query.NewState(settings.ExcludedStatuses...)
	}
	st.FilterText = filter
	st.CardinalityLimit = settings.CardinalityLimit

	if sortName != "" {
		col, ok := query.ColumnByName(sortName)
		if !ok {
			return fmt.Errorf("unknown sort column %q", sortName)
		}
		st.SortColumn = col
		st.Ascending = !desc
	} else if desc {
		st.Ascending = false
	}

	for _, ex := range excludes {
		name, value, found := strings.Cut(ex, "=")
		if !found {
			return fmt.Errorf("invalid --exclude %q, expected COL=VALUE", ex)
		}
		col, ok := query.ColumnByName(name)
		if !ok {
			return fmt.Errorf("unknown column %q in --exclude", name)
		}
		st.ToggleExclude(col, value)
	}

	sess := newSession()
	ctx := cmd.Context()
	sess.Refresh(ctx)

	rows := st.Run(sess.Rows(ctx))

	fmt.Println(renderTable(rows))
	fmt.Printf("%d issues", len(rows))
	if skipped := sess.SkippedDirectories(); skipped > 0 {
		fmt.Printf(" (%d directories skipped, see log)", skipped)
	}
	fmt.Println()
	return nil
}

func renderTable(rows []query.Row) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	cols := query.Columns()
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.String()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...)

	for _, r := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.Project(r)
		}
		t.Row(cells...)
	}

	return t.Render()
}
