package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the workspace",
	Long: `Checks all theme and layer files for problems: documents that fail to
parse, malformed entries, and references to ids that are not defined
anywhere.

Parse failures are errors. Unresolved references are warnings; use
--strict to treat them as errors. Exits non-zero when errors are found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return handleError(ErrWorkspaceNotFound, err, "Use --workspace-path or configure a default workspace")
		}

		if !jsonOutput {
			fmt.Printf("Checking workspace: %s\n", env.root)
		}

		// Rescan everything so diagnostics cover the whole corpus, not
		// just files changed since the last scan.
		result, err := env.refresh(true)
		if err != nil {
			return handleError(ErrIndexFailed, err, "")
		}

		var issues []IssueResult
		for _, diag := range result.Diagnostics {
			issues = append(issues, IssueResult{
				Level:   "error",
				File:    diag.File,
				Message: diag.Message,
			})
		}
		for _, ref := range env.engine.Unresolved() {
			issues = append(issues, IssueResult{
				Level:   "warning",
				File:    ref.From.File,
				Line:    ref.From.Range.Start.Line + 1,
				Col:     ref.From.Range.Start.Col + 1,
				Message: fmt.Sprintf("unresolved %s reference '%s'", ref.Kind, ref.ToID),
			})
		}

		var errorCount, warningCount int
		for _, issue := range issues {
			if issue.Level == "error" {
				errorCount++
			} else {
				warningCount++
			}
		}
		fileCount := env.indexer.Store().Stats().Files + result.Failed

		if jsonOutput {
			outputSuccess(map[string]interface{}{
				"files":    fileCount,
				"errors":   errorCount,
				"warnings": warningCount,
				"strict":   checkStrict,
				"issues":   issues,
			}, &Meta{Count: len(issues)})
		} else {
			for _, issue := range issues {
				prefix := "ERROR"
				if issue.Level == "warning" {
					prefix = "WARN"
				}
				if issue.Line > 0 {
					fmt.Printf("%s:  %s:%d - %s\n", prefix, issue.File, issue.Line, issue.Message)
				} else {
					fmt.Printf("%s:  %s - %s\n", prefix, issue.File, issue.Message)
				}
			}

			fmt.Println()
			if errorCount == 0 && warningCount == 0 {
				fmt.Printf("✓ No issues found in %d files.\n", fileCount)
			} else {
				fmt.Printf("Found %d error(s), %d warning(s) in %d files.\n", errorCount, warningCount, fileCount)
			}
		}

		if errorCount > 0 || (checkStrict && warningCount > 0) {
			os.Exit(1)
		}

		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Treat warnings as errors")
	rootCmd.AddCommand(checkCmd)
}
