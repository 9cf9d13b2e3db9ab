package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"mapdex/internal/corpus"
)

// Default workspace settings. Pool names and excluded layers follow the
// conventions of MapComplete-style asset repositories.
const (
	DefaultTagRenderingPool = "questions"
	DefaultFilterPool       = "filters"
	DefaultSnapshotPath     = ".mapdex/snapshot.json"
	DefaultWatchDebounceMS  = 100
)

// DefaultExcludeLayers returns the layer ids excluded by default.
// favourite and last_click are generated UI-only layers with no
// reusable content.
func DefaultExcludeLayers() []string {
	return []string{"favourite", "last_click"}
}

// DefaultExcludeGlobs returns the glob patterns excluded by default.
func DefaultExcludeGlobs() []string {
	return []string{"**/license_info.json"}
}

// WorkspaceConfig represents workspace-level configuration from mapdex.yaml.
type WorkspaceConfig struct {
	// Pools names the layers whose tagRenderings and filters other
	// layers may address bare.
	Pools PoolsConfig `yaml:"pools,omitempty"`

	// ExcludeLayers lists layer ids that are never indexed.
	ExcludeLayers []string `yaml:"exclude_layers"`

	// Exclude lists glob patterns matched against workspace-relative
	// paths; matching files are never indexed.
	Exclude []string `yaml:"exclude"`

	// SnapshotPath is where the index snapshot lives, relative to the
	// workspace root (default: .mapdex/snapshot.json).
	SnapshotPath string `yaml:"snapshot_path,omitempty"`

	// WatchDebounceMS is the watch-mode debounce delay in milliseconds
	// (default: 100).
	WatchDebounceMS int `yaml:"watch_debounce_ms,omitempty"`
}

// PoolsConfig names the shared-pool layers.
type PoolsConfig struct {
	TagRenderings string `yaml:"tag_renderings,omitempty"`
	Filters       string `yaml:"filters,omitempty"`
}

// DefaultWorkspaceConfig returns the default workspace configuration.
func DefaultWorkspaceConfig() *WorkspaceConfig {
	return &WorkspaceConfig{
		ExcludeLayers: DefaultExcludeLayers(),
		Exclude:       DefaultExcludeGlobs(),
	}
}

// LoadWorkspaceConfig loads workspace configuration from mapdex.yaml.
// Returns default config if the file doesn't exist.
func LoadWorkspaceConfig(root string) (*WorkspaceConfig, error) {
	configPath := filepath.Join(root, "mapdex.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultWorkspaceConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace config %s: %w", configPath, err)
	}

	var config WorkspaceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse workspace config %s: %w", configPath, err)
	}

	// An absent key gets the default; an explicit empty list stays empty.
	if config.ExcludeLayers == nil {
		config.ExcludeLayers = DefaultExcludeLayers()
	}
	if config.Exclude == nil {
		config.Exclude = DefaultExcludeGlobs()
	}

	return &config, nil
}

// TagRenderingPool returns the configured tagRenderings pool layer id.
func (wc *WorkspaceConfig) TagRenderingPool() string {
	if wc.Pools.TagRenderings != "" {
		return wc.Pools.TagRenderings
	}
	return DefaultTagRenderingPool
}

// FilterPool returns the configured filters pool layer id.
func (wc *WorkspaceConfig) FilterPool() string {
	if wc.Pools.Filters != "" {
		return wc.Pools.Filters
	}
	return DefaultFilterPool
}

// Layout builds the corpus layout for a workspace rooted at root.
func (wc *WorkspaceConfig) Layout(root string) corpus.Layout {
	return corpus.Layout{
		Root:          root,
		ExcludeGlobs:  wc.Exclude,
		ExcludeLayers: wc.ExcludeLayers,
	}
}

// SnapshotFile returns the snapshot path for a workspace rooted at root.
func (wc *WorkspaceConfig) SnapshotFile(root string) string {
	p := wc.SnapshotPath
	if p == "" {
		p = DefaultSnapshotPath
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

// DebounceDelay returns the watch-mode debounce delay.
func (wc *WorkspaceConfig) DebounceDelay() time.Duration {
	ms := wc.WatchDebounceMS
	if ms <= 0 {
		ms = DefaultWatchDebounceMS
	}
	return time.Duration(ms) * time.Millisecond
}

// FindWorkspaceRoot walks up from start looking for a workspace root: a
// directory containing mapdex.yaml or an assets/themes tree.
func FindWorkspaceRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if isWorkspaceRoot(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func isWorkspaceRoot(dir string) bool {
	if info, err := os.Stat(filepath.Join(dir, "mapdex.yaml")); err == nil && !info.IsDir() {
		return true
	}
	if info, err := os.Stat(filepath.Join(dir, "assets", "themes")); err == nil && info.IsDir() {
		return true
	}
	return false
}
