// Package config handles global and per-workspace mapdex configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global mapdex configuration.
type Config struct {
	// DefaultWorkspace is the name of the default workspace (from Workspaces map).
	DefaultWorkspace string `toml:"default_workspace"`

	// Workspaces is a map of workspace names to paths.
	Workspaces map[string]string `toml:"workspaces"`

	// Editor is the editor to use for opening files (defaults to $EDITOR).
	Editor string `toml:"editor"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// WorkspacePath returns the path for a named workspace.
// If name is empty, returns the default workspace path.
func (c *Config) WorkspacePath(name string) (string, error) {
	if name == "" {
		name = c.DefaultWorkspace
	}

	if c.Workspaces != nil {
		if path, ok := c.Workspaces[name]; ok {
			return path, nil
		}
	}

	if name == "" {
		return "", fmt.Errorf("no default workspace configured")
	}

	return "", fmt.Errorf("workspace '%s' not found in config", name)
}

// DefaultWorkspacePath returns the default workspace path.
func (c *Config) DefaultWorkspacePath() (string, error) {
	return c.WorkspacePath("")
}

// ListWorkspaces returns all configured workspaces with their paths.
func (c *Config) ListWorkspaces() map[string]string {
	result := make(map[string]string)
	for name, path := range c.Workspaces {
		result[name] = path
	}
	return result
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/mapdex/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	// Prefer XDG-style ~/.config/mapdex/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "mapdex", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	// Fall back to XDG config dir or OS-specific location
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "mapdex", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if explicitConfigPath != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// GetEditor returns the editor to use, falling back to $EDITOR.
func (c *Config) GetEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	return os.Getenv("EDITOR")
}
