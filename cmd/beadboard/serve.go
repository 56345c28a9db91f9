package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/steveyegge/beadboard/internal/board"
	"github.com/steveyegge/beadboard/internal/query"
	"github.com/steveyegge/beadboard/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	GroupID: "setup",
	Short:   "Start the board server with live refresh",
	Long: `Start an HTTP/WebSocket server publishing the aggregated issue view.

The server watches every visible directory's issue store and re-aggregates
when one changes, so connected clients always see the current state.

Endpoints:
  /api/issues   latest aggregated view as JSON
  /ws           WebSocket broadcast of refresh events and stats
  /health       server health and client count

Example usage:
  beadboard serve                 # Listen on the configured address
  beadboard serve --addr :9000    # Custom listen address

Connect with a WebSocket client:
  ws://localhost:8080/ws`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from settings)")
	serveCmd.Flags().Duration("debounce", watch.DefaultDebounce, "Delay before reacting to store changes")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = settings.ListenAddr
	}
	debounce, _ := cmd.Flags().GetDuration("debounce")

	logger := log.New(os.Stderr, "[serve] ", log.LstdFlags)

	sess := newSession()

	server := board.NewServer(&board.Config{
		Addr:   addr,
		Logger: logger,
	})
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start board server: %w", err)
	}

	watcher, err := watch.New(watch.Config{
		Debounce: debounce,
		Logger:   logger,
	})
	if err != nil {
		_ = server.Stop()
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	var watched []string
	for _, d := range dirs.Visible() {
		watched = append(watched, d.Path)
	}
	if err := watcher.Start(watched); err != nil {
		_ = server.Stop()
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Printf("Board server started on %s\n", server.Addr())
	fmt.Printf("WebSocket endpoint: ws://%s/ws\n", server.Addr())
	fmt.Println("\nPress Ctrl+C to stop...")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// All session access stays on this goroutine. The watcher and the
	// server only exchange messages with it.
	publish := func() {
		start := time.Now()
		sess.Refresh(ctx)
		rows := sess.Rows(ctx)

		st := query.NewState(settings.ExcludedStatuses...)
		st.CardinalityLimit = settings.CardinalityLimit
		view := st.Run(rows)

		snapshot, err := board.BuildSnapshot(view)
		if err != nil {
			logger.Printf("failed to build snapshot: %v", err)
			return
		}
		server.SetSnapshot(snapshot)
		server.NotifyRefresh(board.RefreshData{
			Issues:      len(view),
			SkippedDirs: sess.SkippedDirectories(),
		})
		server.NotifyStats(board.ComputeStats(rows))
		logger.Printf("refreshed %d issues in %v", len(rows), time.Since(start).Round(time.Millisecond))
	}

	publish()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case dir := <-watcher.Changes():
			logger.Printf("store changed under %s", dir)
			publish()
		case err := <-watcher.Errors():
			logger.Printf("watch error: %v", err)
		}
	}

	fmt.Println("\nShutting down...")
	if err := watcher.Stop(); err != nil {
		logger.Printf("watcher stop: %v", err)
	}
	if err := server.Stop(); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	fmt.Println("Board server stopped")
	return nil
}
