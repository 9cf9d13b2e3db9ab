package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mapdex/internal/corpus"
	"mapdex/internal/index"
	"mapdex/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the workspace and rebuild the index",
	Long: `Parses all theme and layer files in the workspace and rebuilds the index.

By default, performs an incremental scan that only processes files that have
changed since the last scan. Deleted files are automatically detected and
removed from the index.

Use --full to force a complete rebuild of the entire index.

Examples:
  # Incremental scan (default - only changed/deleted files)
  mapdex scan

  # Full scan (rebuild everything)
  mapdex scan --full

  # Check what would be scanned without doing it
  mapdex scan --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		env, err := openEnv()
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "Use --workspace-path or configure a default workspace")
		}

		if !jsonOutput && !dryRun {
			if full {
				fmt.Printf("Full scanning workspace: %s\n", ui.FilePath(env.root))
			} else {
				fmt.Printf("Scanning workspace: %s\n", ui.FilePath(env.root))
			}
		}

		if dryRun {
			return runScanDryRun(env, full)
		}

		var spinner *ui.Spinner
		if !jsonOutput {
			spinner = ui.NewSpinner("Scanning files")
			spinner.Start()
		}

		result, err := env.refresh(full)

		if spinner != nil {
			spinner.Stop()
		}

		if err != nil {
			if errors.Is(err, index.ErrIndexLocked) {
				return handleError(ErrIndexLocked, err, "Another mapdex process is writing the snapshot; retry when it finishes")
			}
			return handleError(ErrIndexFailed, err, "")
		}

		stats := env.indexer.Store().Stats()

		if jsonOutput {
			data := map[string]interface{}{
				"files_indexed":   result.Indexed,
				"files_unchanged": result.Unchanged,
				"files_removed":   result.Removed,
				"files_failed":    result.Failed,
				"entities":        stats.Entities,
				"references":      stats.References,
				"unresolved":      stats.Unresolved,
				"full":            full,
				"dry_run":         false,
			}
			outputSuccessWithWarnings(data, parseFailureWarnings(result.Diagnostics), &Meta{Count: result.Indexed})
			return nil
		}

		fmt.Println()
		if result.Unchanged > 0 || result.Removed > 0 {
			if result.Removed > 0 {
				fmt.Println(ui.Successf("Indexed %d changed files, removed %d deleted %s",
					result.Indexed, result.Removed, ui.Hint(fmt.Sprintf("(%d up-to-date)", result.Unchanged))))
			} else {
				fmt.Println(ui.Successf("Indexed %d changed files %s", result.Indexed, ui.Hint(fmt.Sprintf("(%d up-to-date)", result.Unchanged))))
			}
		} else {
			fmt.Println(ui.Successf("Indexed %d files", result.Indexed))
		}
		fmt.Printf("  %s entities\n", ui.Bold.Render(fmt.Sprintf("%d", stats.Entities)))
		if stats.Unresolved > 0 {
			fmt.Printf("  %s references %s\n",
				ui.Bold.Render(fmt.Sprintf("%d", stats.References)),
				ui.Hint(fmt.Sprintf("(%d unresolved)", stats.Unresolved)))
		} else {
			fmt.Printf("  %s references\n", ui.Bold.Render(fmt.Sprintf("%d", stats.References)))
		}

		if result.Failed > 0 {
			fmt.Printf("  %s\n", ui.Errorf("%d files failed to parse", result.Failed))
			for _, diag := range result.Diagnostics {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", diag.File, diag.Message)
			}
		}

		return nil
	},
}

// runScanDryRun walks the corpus and reports what a scan would do
// without touching the store or the snapshot.
func runScanDryRun(env *appEnv, full bool) error {
	var wouldIndex, upToDate int
	var staleFiles []string
	seen := make(map[string]bool)

	err := env.layout.Walk(func(item corpus.WalkResult) error {
		if item.Error != nil {
			return nil
		}
		seen[item.RelPath] = true
		if !full {
			if mtime, ok := env.indexer.Store().Mtime(item.RelPath); ok && mtime >= item.Mtime {
				upToDate++
				return nil
			}
		}
		staleFiles = append(staleFiles, item.RelPath)
		wouldIndex++
		if !jsonOutput {
			fmt.Printf("  Would index: %s\n", item.RelPath)
		}
		return nil
	})
	if err != nil {
		return handleError(ErrIndexFailed, err, "")
	}

	var removedFiles []string
	for _, path := range env.indexer.Store().Files() {
		if !seen[path] {
			removedFiles = append(removedFiles, path)
			if !jsonOutput {
				fmt.Printf("  Would remove (deleted): %s\n", path)
			}
		}
	}

	if jsonOutput {
		outputSuccess(map[string]interface{}{
			"stale_files":   staleFiles,
			"removed_files": removedFiles,
			"up_to_date":    upToDate,
			"full":          full,
			"dry_run":       true,
		}, &Meta{Count: wouldIndex})
		return nil
	}

	fmt.Printf("\nDry run: %d files would be indexed, %d removed, %d up-to-date\n",
		wouldIndex, len(removedFiles), upToDate)
	return nil
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("full", false, "Force full scan of all files (default is incremental)")
	scanCmd.Flags().Bool("dry-run", false, "Show what would be scanned without doing it")
}
