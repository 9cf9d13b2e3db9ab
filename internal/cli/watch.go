package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mapdex/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the workspace for changes and auto-index",
	Long: `Watch the workspace assets tree for file changes and automatically
update the index.

This runs in the foreground and reindexes files as they are saved.

The watcher:
- Monitors theme and layer files under assets/
- Debounces rapid changes (waits 100ms after last change by default)
- Ignores dot-directories and node_modules/
- Updates the index incrementally (single file at a time)
- Persists the snapshot after each settled batch of changes

Examples:
  # Watch the current workspace
  mapdex watch

  # Watch with debug output
  mapdex watch --debug

  # Watch a specific workspace
  mapdex watch --workspace-path /path/to/workspace`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("debug", false, "Enable debug logging")
}

func runWatch(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")

	env, err := openEnv()
	if err != nil {
		return handleError(ErrWorkspaceNotFound, err, "Use --workspace-path or configure a default workspace")
	}

	// Catch up before watching so the first events apply to a current index.
	if _, err := env.refresh(false); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: initial scan failed: %v\n", err)
	}

	w, err := watcher.New(watcher.Config{
		Layout:        env.layout,
		Indexer:       env.indexer,
		SnapshotPath:  env.snapshotFile,
		DebounceDelay: env.wsCfg.DebounceDelay(),
		Debug:         debug,
		OnChange: func(path string, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error indexing %s: %v\n", path, err)
			} else if debug {
				fmt.Printf("Indexed: %s\n", path)
			}
		},
	})
	if err != nil {
		return handleError(ErrWatchFailed, err, "")
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down watcher...")
		cancel()
	}()

	fmt.Printf("Watching workspace: %s\n", env.root)
	fmt.Println("Press Ctrl+C to stop")

	// Start watching
	return w.Start(ctx)
}
