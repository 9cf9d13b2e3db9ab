package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mapdex/internal/model"
	"mapdex/internal/query"
	"mapdex/internal/ui"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities <kind>",
	Short: "List indexed entities of a kind",
	Long: `Lists all indexed entities of the given kind: layers, tag renderings,
or filters. Entries from the shared pools are listed first.

Examples:
  mapdex entities layers
  mapdex entities tagRenderings
  mapdex entities filters --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKindArg(args[0])
		if err != nil {
			return handleError(ErrInvalidInput, err, "Valid kinds: layers, tagRenderings, filters")
		}
		start := time.Now()

		env, err := openEnv()
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "Use --workspace-path or configure a default workspace")
		}
		if _, err := env.refreshForQuery(); err != nil {
			return handleError(ErrIndexFailed, err, "Run 'mapdex scan --full' to rebuild the index")
		}

		ents := env.engine.EntitiesOf(kind)
		sortEntities(ents)

		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			items := make([]EntityResult, len(ents))
			for i, ent := range ents {
				items[i] = EntityResult{
					QualifiedID: ent.QualifiedID,
					Kind:        string(ent.Kind),
					File:        ent.Anchor.File,
					Line:        ent.Anchor.Range.Start.Line + 1,
					Col:         ent.Anchor.Range.Start.Col + 1,
					Path:        ent.Anchor.Path,
					SharedPool:  ent.SharedPool,
				}
			}
			outputSuccess(map[string]interface{}{
				"kind":  string(kind),
				"items": items,
			}, &Meta{Count: len(items), QueryTimeMs: elapsed})
			return nil
		}

		if len(ents) == 0 {
			fmt.Printf("No %s indexed. Run 'mapdex scan' first.\n", pluralKind(kind))
			return nil
		}

		fmt.Printf("%s %s\n\n", ui.Header(kindHeader(kind)), ui.Hint(fmt.Sprintf("(%d)", len(ents))))
		printEntityTable(ents)

		return nil
	},
}

// parseKindArg maps a user-supplied kind name to the canonical kind.
// Singular, plural, and case-insensitive spellings are accepted.
func parseKindArg(arg string) (model.Kind, error) {
	switch strings.ToLower(arg) {
	case "layer", "layers":
		return model.KindLayer, nil
	case "tagrendering", "tagrenderings", "tag-rendering", "tag-renderings":
		return model.KindTagRendering, nil
	case "filter", "filters":
		return model.KindFilter, nil
	}
	return "", fmt.Errorf("unknown kind '%s'", arg)
}

func pluralKind(kind model.Kind) string {
	switch kind {
	case model.KindLayer:
		return "layers"
	case model.KindTagRendering:
		return "tagRenderings"
	case model.KindFilter:
		return "filters"
	}
	return string(kind) + "s"
}

func kindHeader(kind model.Kind) string {
	switch kind {
	case model.KindLayer:
		return "Layers"
	case model.KindTagRendering:
		return "Tag renderings"
	case model.KindFilter:
		return "Filters"
	}
	return string(kind)
}

// sortEntities orders shared-pool entries first, then by qualified id.
func sortEntities(ents []query.Entity) {
	sort.SliceStable(ents, func(i, j int) bool {
		if ents[i].SharedPool != ents[j].SharedPool {
			return ents[i].SharedPool
		}
		return ents[i].QualifiedID < ents[j].QualifiedID
	})
}

func printEntityTable(ents []query.Entity) {
	display := ui.NewDisplayContext()
	table := ui.NewResultsTable(display, ui.EntitiesLayout)

	for i, ent := range ents {
		meta := string(ent.Kind)
		if ent.SharedPool {
			meta += " · pool"
		}

		line := ent.Anchor.Range.Start.Line + 1
		col := ent.Anchor.Range.Start.Col + 1
		location := formatLocationLink(ent.Anchor.File, line, col, ui.Muted.Render)

		table.AddRow(ui.FormatRowNum(i+1, len(ents)), ent.QualifiedID, meta, location)
	}

	fmt.Println(table.Render())
}

func init() {
	rootCmd.AddCommand(entitiesCmd)
	entitiesCmd.Flags().BoolVar(&queryNoRefresh, "no-refresh", false, "Query the index as-is without refreshing changed files")
}
