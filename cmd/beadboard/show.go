package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/steveyegge/beadboard/internal/types"
)

var showCmd = &cobra.Command{
	Use:     "show <issue-id>",
	GroupID: "issues",
	Short:   "Show one issue with its blockers and dependents",
	Long: `Show the full detail of a single issue: description, notes, and the
dependency picture from both directions. Blockers are the issues this one
depends on; dependents are the issues that depend on it.

Example usage:
  beadboard show myproj-42`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id := args[0]
	ctx := cmd.Context()

	sess := newSession()
	sess.Refresh(ctx)

	issue, err := sess.LoadDetail(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", id, err)
	}

	titleStyle := lipgloss.NewStyle().Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	readiness := types.ComputeReadiness(issue.Status, issue.OpenBlockerCount())

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s  %s", issue.ID, issue.Title)))
	fmt.Println(dimStyle.Render(strings.Repeat("-", 60)))

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Printf("%s %s\n", labelStyle.Render(label+":"), value)
	}

	field("Directory", issue.SourceDirectory)
	field("State", string(readiness))
	field("Status", string(issue.Status))
	field("Priority", fmt.Sprintf("P%d", issue.Priority))
	field("Type", issue.IssueType)
	field("Assignee", issue.Assignee)
	field("Created", issue.CreatedAt)
	field("Updated", issue.UpdatedAt)

	if issue.Description != "" {
		fmt.Printf("\n%s\n%s\n", labelStyle.Render("Description:"), issue.Description)
	}
	if issue.Notes != "" {
		fmt.Printf("\n%s\n%s\n", labelStyle.Render("Notes:"), issue.Notes)
	}

	if len(issue.Dependencies) > 0 {
		fmt.Printf("\n%s\n", labelStyle.Render("Blockers:"))
		for _, dep := range issue.Dependencies {
			marker := " "
			if !dep.Status.IsClosed() {
				marker = "!"
			}
			fmt.Printf("  %s %s [%s] %s\n", marker, dep.ID, dep.Status, dep.Title)
		}
	}

	if dependents := sess.Dependents(id); len(dependents) > 0 {
		fmt.Printf("\n%s\n", labelStyle.Render("Dependents:"))
		for _, depID := range dependents {
			fmt.Printf("    %s\n", depID)
		}
	}

	return nil
}
