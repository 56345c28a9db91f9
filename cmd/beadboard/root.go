package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/beadboard/internal/config"
	"github.com/steveyegge/beadboard/internal/gateway"
	"github.com/steveyegge/beadboard/internal/registry"
	"github.com/steveyegge/beadboard/internal/session"
)

var (
	settings config.Settings
	dirs     *registry.Config
)

var rootCmd = &cobra.Command{
	Use:   "beadboard",
	Short: "Aggregate and query bd issues across registered directories",
	Long: `beadboard aggregates issues from every registered project directory by
invoking the bd CLI, derives a blocked/ready state for each issue from its
dependency graph, and lets you filter, sort, and edit the combined set.

Directories are registered once (see "beadboard dirs") and persisted to a
per-user config file. The working directory is always included.

Example usage:
  beadboard list                     # Combined issue table
  beadboard list --filter auth       # Text search across all fields
  beadboard show myproj-42           # Detail view with blockers/dependents
  beadboard set myproj-42 --status in_progress
  beadboard serve                    # WebSocket board server`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		dirs = registry.Load()
		dirs.EnsureWorkingDirectory()
		return nil
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "issues", Title: "Issue Commands:"},
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
	)
}

// newSession wires a session against the configured bd binary and the
// registered directories.
func newSession() *session.Session {
	return session.New(session.Config{
		Gateway:  gateway.NewClient(settings.BdBin, settings.GatewayTimeout),
		Registry: dirs,
		Logger:   log.New(os.Stderr, "[beadboard] ", log.LstdFlags),
	})
}
