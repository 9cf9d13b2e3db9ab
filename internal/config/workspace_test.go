package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadWorkspaceConfigDefaults(t *testing.T) {
	wc, err := LoadWorkspaceConfig(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wc.TagRenderingPool() != "questions" {
		t.Errorf("TagRenderingPool = %q, want questions", wc.TagRenderingPool())
	}
	if wc.FilterPool() != "filters" {
		t.Errorf("FilterPool = %q, want filters", wc.FilterPool())
	}
	if !reflect.DeepEqual(wc.ExcludeLayers, []string{"favourite", "last_click"}) {
		t.Errorf("ExcludeLayers = %v", wc.ExcludeLayers)
	}
	if !reflect.DeepEqual(wc.Exclude, []string{"**/license_info.json"}) {
		t.Errorf("Exclude = %v", wc.Exclude)
	}
	if wc.DebounceDelay() != 100*time.Millisecond {
		t.Errorf("DebounceDelay = %v, want 100ms", wc.DebounceDelay())
	}
}

func TestLoadWorkspaceConfig(t *testing.T) {
	root := t.TempDir()
	content := `pools:
  tag_renderings: shared_questions
exclude_layers:
  - favourite
exclude: []
snapshot_path: .cache/index.json
watch_debounce_ms: 250
`
	if err := os.WriteFile(filepath.Join(root, "mapdex.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	wc, err := LoadWorkspaceConfig(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wc.TagRenderingPool() != "shared_questions" {
		t.Errorf("TagRenderingPool = %q, want shared_questions", wc.TagRenderingPool())
	}
	if wc.FilterPool() != "filters" {
		t.Errorf("FilterPool = %q, want the filters default", wc.FilterPool())
	}
	if !reflect.DeepEqual(wc.ExcludeLayers, []string{"favourite"}) {
		t.Errorf("ExcludeLayers = %v, want [favourite]", wc.ExcludeLayers)
	}
	// An explicit empty list clears the default.
	if len(wc.Exclude) != 0 {
		t.Errorf("Exclude = %v, want none", wc.Exclude)
	}
	if got := wc.SnapshotFile(root); got != filepath.Join(root, ".cache", "index.json") {
		t.Errorf("SnapshotFile = %q", got)
	}
	if wc.DebounceDelay() != 250*time.Millisecond {
		t.Errorf("DebounceDelay = %v, want 250ms", wc.DebounceDelay())
	}
}

func TestLoadWorkspaceConfigInvalid(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "mapdex.yaml"), []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadWorkspaceConfig(root); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestWorkspaceLayout(t *testing.T) {
	wc := DefaultWorkspaceConfig()
	layout := wc.Layout("/workspace")

	if layout.Root != "/workspace" {
		t.Errorf("Root = %q", layout.Root)
	}
	if !reflect.DeepEqual(layout.ExcludeLayers, wc.ExcludeLayers) {
		t.Errorf("ExcludeLayers = %v", layout.ExcludeLayers)
	}
	if layout.Eligible("assets/layers/favourite/favourite.json") {
		t.Error("excluded layer is eligible")
	}
	if layout.Eligible("assets/layers/bench/license_info.json") {
		t.Error("excluded glob is eligible")
	}
	if !layout.Eligible("assets/layers/bench/bench.json") {
		t.Error("ordinary layer not eligible")
	}
}

func TestSnapshotFileDefault(t *testing.T) {
	wc := DefaultWorkspaceConfig()
	want := filepath.Join("/workspace", ".mapdex", "snapshot.json")
	if got := wc.SnapshotFile("/workspace"); got != want {
		t.Errorf("SnapshotFile = %q, want %q", got, want)
	}
}

func TestFindWorkspaceRoot(t *testing.T) {
	t.Run("marker file", func(t *testing.T) {
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, "mapdex.yaml"), []byte(""), 0o644); err != nil {
			t.Fatal(err)
		}
		nested := filepath.Join(root, "assets", "layers", "bench")
		if err := os.MkdirAll(nested, 0o755); err != nil {
			t.Fatal(err)
		}

		got, ok := FindWorkspaceRoot(nested)
		if !ok || got != root {
			t.Errorf("FindWorkspaceRoot = %q, %v, want %q", got, ok, root)
		}
	})

	t.Run("assets tree marker", func(t *testing.T) {
		root := t.TempDir()
		nested := filepath.Join(root, "assets", "themes", "benches")
		if err := os.MkdirAll(nested, 0o755); err != nil {
			t.Fatal(err)
		}

		got, ok := FindWorkspaceRoot(nested)
		if !ok || got != root {
			t.Errorf("FindWorkspaceRoot = %q, %v, want %q", got, ok, root)
		}
	})

	t.Run("no marker", func(t *testing.T) {
		if got, ok := FindWorkspaceRoot(t.TempDir()); ok {
			t.Errorf("FindWorkspaceRoot = %q, want none", got)
		}
	})
}
