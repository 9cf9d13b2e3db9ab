package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigWorkspacePath(t *testing.T) {
	t.Run("named workspace", func(t *testing.T) {
		cfg := &Config{
			Workspaces: map[string]string{
				"mapcomplete": "/path/to/mapcomplete",
				"scratch":     "/path/to/scratch",
			},
		}

		path, err := cfg.WorkspacePath("mapcomplete")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "/path/to/mapcomplete" {
			t.Errorf("expected '/path/to/mapcomplete', got %q", path)
		}
	})

	t.Run("default workspace", func(t *testing.T) {
		cfg := &Config{
			DefaultWorkspace: "scratch",
			Workspaces: map[string]string{
				"mapcomplete": "/path/to/mapcomplete",
				"scratch":     "/path/to/scratch",
			},
		}

		path, err := cfg.WorkspacePath("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "/path/to/scratch" {
			t.Errorf("expected '/path/to/scratch', got %q", path)
		}
	})

	t.Run("workspace not found", func(t *testing.T) {
		cfg := &Config{
			Workspaces: map[string]string{
				"mapcomplete": "/path/to/mapcomplete",
			},
		}

		_, err := cfg.WorkspacePath("nonexistent")
		if err == nil {
			t.Error("expected error for nonexistent workspace")
		}
	})

	t.Run("no default configured", func(t *testing.T) {
		cfg := &Config{}

		_, err := cfg.WorkspacePath("")
		if err == nil {
			t.Error("expected error when no default configured")
		}
	})
}

func TestConfigListWorkspaces(t *testing.T) {
	cfg := &Config{
		Workspaces: map[string]string{
			"mapcomplete": "/path/to/mapcomplete",
			"scratch":     "/path/to/scratch",
		},
	}

	workspaces := cfg.ListWorkspaces()
	if len(workspaces) != 2 {
		t.Errorf("expected 2 workspaces, got %d", len(workspaces))
	}
	if workspaces["mapcomplete"] != "/path/to/mapcomplete" {
		t.Error("missing 'mapcomplete' workspace")
	}

	if got := (&Config{}).ListWorkspaces(); len(got) != 0 {
		t.Errorf("expected 0 workspaces from empty config, got %d", len(got))
	}
}

func TestLoadFrom(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `default_workspace = "mapcomplete"

[workspaces]
mapcomplete = "/path/to/mapcomplete"
scratch = "/path/to/scratch"

[ui]
accent = "39"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultWorkspace != "mapcomplete" {
		t.Errorf("expected default_workspace 'mapcomplete', got %q", cfg.DefaultWorkspace)
	}
	if len(cfg.Workspaces) != 2 {
		t.Errorf("expected 2 workspaces, got %d: %v", len(cfg.Workspaces), cfg.Workspaces)
	}
	if cfg.UI.Accent != "39" {
		t.Errorf("expected ui.accent '39', got %q", cfg.UI.Accent)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `this is not valid toml {{{{`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestResolveConfigPath(t *testing.T) {
	if got := ResolveConfigPath("/explicit/config.toml"); got != "/explicit/config.toml" {
		t.Errorf("expected explicit path, got %q", got)
	}
	if got := ResolveConfigPath(""); filepath.Base(got) != "config.toml" {
		t.Errorf("expected a config.toml path, got %q", got)
	}
}
