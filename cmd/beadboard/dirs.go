package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/steveyegge/beadboard/internal/gateway"
)

var dirsCmd = &cobra.Command{
	Use:     "dirs",
	GroupID: "setup",
	Short:   "Manage the registered project directories",
	Long: `Manage the set of directories aggregated by beadboard. Each directory
is expected to contain a ` + gateway.StorageDirName + ` store; directories
without one are skipped at refresh time.

Registered directories persist in a per-user config file. Hiding a
directory keeps it registered but excludes it from aggregation.

Example usage:
  beadboard dirs                 # List registered directories
  beadboard dirs add ~/work/api  # Register a directory
  beadboard dirs hide ~/work/api # Exclude without forgetting
  beadboard dirs show ~/work/api # Re-include`,
	RunE: runDirsList,
}

var dirsAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := absPath(args[0])
		if err != nil {
			return err
		}

		if gateway.ResolveStorage(path) == "" {
			fmt.Fprintf(os.Stderr, "Warning: no %s store found under %s\n", gateway.StorageDirName, path)
		}

		if !dirs.Register(path) {
			fmt.Printf("%s is already registered\n", path)
			return nil
		}
		if err := dirs.Save(); err != nil {
			return fmt.Errorf("failed to save directory config: %w", err)
		}
		fmt.Printf("Registered %s\n", path)
		return nil
	},
}

var dirsHideCmd = &cobra.Command{
	Use:   "hide <path>",
	Short: "Exclude a directory from aggregation",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setDirVisible(args[0], false) },
}

var dirsShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Re-include a hidden directory",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setDirVisible(args[0], true) },
}

func init() {
	dirsCmd.AddCommand(dirsAddCmd, dirsHideCmd, dirsShowCmd)
	rootCmd.AddCommand(dirsCmd)
}

func runDirsList(cmd *cobra.Command, args []string) error {
	if len(dirs.Directories) == 0 {
		fmt.Println("No directories registered")
		return nil
	}

	nameStyle := lipgloss.NewStyle().Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	for _, d := range dirs.Directories {
		marker := "*"
		if !d.Visible {
			marker = " "
		}
		fmt.Printf("%s %s  %s\n", marker, nameStyle.Render(d.SourceName()), dimStyle.Render(d.Path))
	}
	fmt.Println(dimStyle.Render("* = included in aggregation"))
	return nil
}

func setDirVisible(arg string, visible bool) error {
	path, err := absPath(arg)
	if err != nil {
		return err
	}
	if !dirs.SetVisible(path, visible) {
		return fmt.Errorf("%s is not registered", path)
	}
	if err := dirs.Save(); err != nil {
		return fmt.Errorf("failed to save directory config: %w", err)
	}
	if visible {
		fmt.Printf("Showing %s\n", path)
	} else {
		fmt.Printf("Hiding %s\n", path)
	}
	return nil
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}
