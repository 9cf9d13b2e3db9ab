// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mapdex/internal/config"
	"mapdex/internal/ui"
)

var (
	// Global flags
	workspaceName     string // Named workspace from config
	workspacePathFlag string // Explicit path
	configPath        string
	noLinks           bool

	// Resolved values
	resolvedRoot       string
	resolvedConfigPath string
	cfg                *config.Config
	wsCfg              *config.WorkspaceConfig
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mapdex",
	Short: "Mapdex - a reference index for map theme and layer configs",
	Long: `Mapdex indexes a workspace of interlinked theme and layer JSON
documents and answers where things are defined and where they are used.

Themes reference layers, layers reuse tagRenderings and filters from
shared pools; mapdex resolves those edges, keeps them fresh as files
change, and serves definition and usage queries from the index.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip workspace resolution for commands that don't need it
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		setHyperlinksDisabled(noLinks)

		// Load config
		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg == nil {
			cfg = &config.Config{}
		}
		ui.ConfigureTheme(cfg.UI.Accent)

		// Resolve workspace root: explicit path > named workspace >
		// enclosing workspace of the working directory > config default
		if workspacePathFlag != "" {
			resolvedRoot = workspacePathFlag
		} else if workspaceName != "" {
			resolvedRoot, err = cfg.WorkspacePath(workspaceName)
			if err != nil {
				return fmt.Errorf("workspace '%s' not found in %s", workspaceName, resolvedConfigPath)
			}
		} else if root, ok := findWorkspaceFromCwd(); ok {
			resolvedRoot = root
		} else {
			resolvedRoot, err = cfg.DefaultWorkspacePath()
			if err != nil {
				return fmt.Errorf(`no workspace specified

Either:
  1. Run mapdex from inside a workspace (a directory tree with assets/themes)
  2. Use --workspace <name> (from config)
  3. Use --workspace-path /path/to/workspace
  4. Set default_workspace in %s`, config.DefaultPath())
			}
		}

		// Verify workspace exists
		if _, err := os.Stat(resolvedRoot); os.IsNotExist(err) {
			return fmt.Errorf("workspace not found: %s", resolvedRoot)
		}

		wsCfg, err = config.LoadWorkspaceConfig(resolvedRoot)
		if err != nil {
			return fmt.Errorf("invalid workspace config: %w", err)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspaceName, "workspace", "w", "", "Named workspace from config")
	rootCmd.PersistentFlags().StringVar(&workspacePathFlag, "workspace-path", "", "Explicit path to workspace root")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&noLinks, "no-links", false, "Disable clickable hyperlinks in terminal output")
}

// getRoot returns the resolved workspace root.
func getRoot() string {
	return resolvedRoot
}

// getConfig returns the loaded global config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// getWorkspaceConfig returns the loaded workspace config.
func getWorkspaceConfig() *config.WorkspaceConfig {
	if wsCfg == nil {
		return config.DefaultWorkspaceConfig()
	}
	return wsCfg
}

func findWorkspaceFromCwd() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return config.FindWorkspaceRoot(cwd)
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if configPath != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}
