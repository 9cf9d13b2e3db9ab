package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mapdex/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Long: `Displays statistics about the workspace index.

Examples:
  mapdex stats
  mapdex stats --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		env, err := openEnv()
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "Use --workspace-path or configure a default workspace")
		}
		if _, err := env.refreshForQuery(); err != nil {
			return handleError(ErrIndexFailed, err, "Run 'mapdex scan --full' to rebuild the index")
		}

		stats := env.indexer.Store().Stats()
		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccess(StatsResult{
				FileCount:       stats.Files,
				EntityCount:     stats.Entities,
				ReferenceCount:  stats.References,
				UnresolvedCount: stats.Unresolved,
				LastBuilt:       stats.LastBuilt,
			}, &Meta{QueryTimeMs: elapsed})
			return nil
		}

		// Human-readable output
		fmt.Println(ui.Header("Workspace Statistics"))
		tbl := ui.NewTable(2)
		tbl.AddRow(ui.Muted.Render("Files:"), ui.Accent.Render(strconv.Itoa(stats.Files)))
		tbl.AddRow(ui.Muted.Render("Entities:"), ui.Accent.Render(strconv.Itoa(stats.Entities)))
		tbl.AddRow(ui.Muted.Render("References:"), ui.Accent.Render(strconv.Itoa(stats.References)))
		tbl.AddRow(ui.Muted.Render("Unresolved:"), ui.Accent.Render(strconv.Itoa(stats.Unresolved)))
		if stats.LastBuilt > 0 {
			tbl.AddRow(ui.Muted.Render("Last built:"),
				ui.Muted.Render(time.Unix(stats.LastBuilt, 0).Format(time.RFC3339)))
		}
		fmt.Print(tbl.String())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&queryNoRefresh, "no-refresh", false, "Query the index as-is without refreshing changed files")
}
