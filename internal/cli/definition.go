package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mapdex/internal/query"
	"mapdex/internal/ui"
)

var definitionPath string

var definitionCmd = &cobra.Command{
	Use:   "definition <file> [line:col]",
	Short: "Resolve the reference under a position to its definition",
	Long: `Resolves the reference at a cursor position to the location of its
definition. The position is 1-based line:col, as editors display it.
Use --path to address the reference by its JSON path instead.

A reference can resolve to more than one definition (wildcard tokens),
and an id can be defined in more than one layer.

Examples:
  mapdex definition assets/themes/cyclofix/cyclofix.json 12:9
  mapdex definition assets/layers/bench/bench.json --path tagRenderings.2
  mapdex definition assets/themes/cyclofix/cyclofix.json 12:9 --json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if definitionPath == "" && len(args) < 2 {
			return handleErrorMsg(ErrInvalidInput, "missing position argument", "Pass line:col or use --path")
		}
		start := time.Now()

		env, err := openEnv()
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "Use --workspace-path or configure a default workspace")
		}
		if _, err := env.refreshForQuery(); err != nil {
			return handleError(ErrIndexFailed, err, "Run 'mapdex scan --full' to rebuild the index")
		}

		rel, err := normalizeRelPath(env.root, args[0])
		if err != nil {
			return handleError(ErrFileNotFound, err, "")
		}

		var defs []query.Definition
		var at string
		if definitionPath != "" {
			defs = env.engine.ResolveAt(rel, definitionPath)
			at = definitionPath
		} else {
			pos, err := parsePosition(args[1])
			if err != nil {
				return handleError(ErrInvalidPosition, err, "Positions are 1-based line:col, e.g. 12:9")
			}
			defs, err = env.engine.DefinitionAt(rel, pos)
			if err != nil {
				return handleError(ErrFileNotFound, err, "")
			}
			at = args[1]
		}

		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			items := make([]DefinitionResult, len(defs))
			for i, def := range defs {
				items[i] = DefinitionResult{
					QualifiedID: def.QualifiedID,
					File:        def.Location.File,
					Line:        def.Location.Range.Start.Line + 1,
					Col:         def.Location.Range.Start.Col + 1,
					Path:        def.Location.Path,
				}
			}
			outputSuccess(map[string]interface{}{
				"file":  rel,
				"at":    at,
				"items": items,
			}, &Meta{Count: len(items), QueryTimeMs: elapsed})
			return nil
		}

		if len(defs) == 0 {
			fmt.Printf("No definition found at %s %s\n", rel, at)
			return nil
		}

		for _, def := range defs {
			line := def.Location.Range.Start.Line + 1
			col := def.Location.Range.Start.Col + 1
			fmt.Printf("%s %s\n",
				ui.Accent.Render(def.QualifiedID),
				formatLocationLink(def.Location.File, line, col, ui.Muted.Render))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(definitionCmd)
	definitionCmd.Flags().StringVar(&definitionPath, "path", "", "Address the reference by JSON path instead of position")
	definitionCmd.Flags().BoolVar(&queryNoRefresh, "no-refresh", false, "Query the index as-is without refreshing changed files")
}
