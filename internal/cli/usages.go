package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mapdex/internal/ui"
)

var usagesCmd = &cobra.Command{
	Use:   "usages <qualifiedId>",
	Short: "Show all use sites of an entity",
	Long: `Shows all references pointing to the entity with the given qualified id.
Includes references from inline layers and references that did not
resolve (the id is used but not defined).

Examples:
  mapdex usages layers.bench
  mapdex usages layers.questions.tagRenderings.name
  mapdex usages layers.bench --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		start := time.Now()

		env, err := openEnv()
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "Use --workspace-path or configure a default workspace")
		}
		if _, err := env.refreshForQuery(); err != nil {
			return handleError(ErrIndexFailed, err, "Run 'mapdex scan --full' to rebuild the index")
		}

		refs := env.engine.ReferencesTo(target)
		known := len(env.engine.EntitiesByID(target)) > 0

		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			items := make([]UsageResult, len(refs))
			for i, ref := range refs {
				items[i] = UsageResult{
					FromID:   ref.FromID,
					File:     ref.From.File,
					Line:     ref.From.Range.Start.Line + 1,
					Col:      ref.From.Range.Start.Col + 1,
					Path:     ref.From.Path,
					Kind:     string(ref.Kind),
					Resolved: ref.Resolved,
					Builtin:  ref.Builtin,
				}
			}
			outputSuccess(map[string]interface{}{
				"target":  target,
				"defined": known,
				"items":   items,
			}, &Meta{Count: len(items), QueryTimeMs: elapsed})
			return nil
		}

		if len(refs) == 0 {
			if known {
				fmt.Printf("No usages found for '%s'\n", target)
			} else {
				fmt.Printf("No usages found for '%s' %s\n", target, ui.Hint("(no entity with this id is indexed)"))
			}
			return nil
		}

		fmt.Printf("Usages of '%s' %s\n\n", target, ui.Hint(fmt.Sprintf("(%d)", len(refs))))

		display := ui.NewDisplayContext()
		table := ui.NewResultsTable(display, ui.UsagesLayout)

		for i, ref := range refs {
			meta := "← " + ref.FromID
			if !ref.Resolved {
				meta += " " + ui.SymbolWarning
			}

			line := ref.From.Range.Start.Line + 1
			col := ref.From.Range.Start.Col + 1
			location := formatLocationLink(ref.From.File, line, col, ui.Muted.Render)

			table.AddRow(ui.FormatRowNum(i+1, len(refs)), meta, location)
		}

		fmt.Println(table.Render())

		if !known {
			fmt.Println(ui.Warningf("'%s' is referenced but never defined", target))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(usagesCmd)
	usagesCmd.Flags().BoolVar(&queryNoRefresh, "no-refresh", false, "Query the index as-is without refreshing changed files")
}
