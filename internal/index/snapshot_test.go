package index

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mapdex/internal/model"
)

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	snapPath := filepath.Join(dir, ".mapdex", "snapshot.json")

	s := NewStore()
	fileLayer := "assets/layers/bench/bench.json"
	fileTheme := "assets/themes/benches/benches.json"
	s.ReplaceFile(fileLayer, 100,
		[]model.Entity{benchEntity("layers.bench", model.KindLayer, fileLayer, "")},
		[]model.Reference{poolRef(fileLayer, "tagRenderings.0", "layers.questions.tagRenderings.name", true)},
	)
	s.ReplaceFile(fileTheme, 200, nil,
		[]model.Reference{poolRef(fileTheme, "layers.0", "layers.bench", false)},
	)

	if err := s.Persist(snapPath); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	loaded, ok := LoadSnapshot(snapPath)
	if !ok {
		t.Fatal("LoadSnapshot reported a fresh snapshot as unusable")
	}

	if !reflect.DeepEqual(loaded.Entities(), s.Entities()) {
		t.Errorf("entities drifted through persistence:\n got %+v\nwant %+v", loaded.Entities(), s.Entities())
	}
	if !reflect.DeepEqual(loaded.References(), s.References()) {
		t.Errorf("references drifted through persistence:\n got %+v\nwant %+v", loaded.References(), s.References())
	}
	if mtime, ok := loaded.Mtime(fileTheme); !ok || mtime != 200 {
		t.Errorf("Mtime(%s) = %d, %v, want 200, true", fileTheme, mtime, ok)
	}
	if loaded.Stats().LastBuilt == 0 {
		t.Error("loaded store has no build timestamp")
	}
}

func TestSnapshotMissing(t *testing.T) {
	store, ok := LoadSnapshot(filepath.Join(t.TempDir(), "no-such-snapshot.json"))
	if ok {
		t.Error("LoadSnapshot reported ok for a missing file")
	}
	if got := store.Stats(); got.Files != 0 {
		t.Errorf("missing snapshot produced a non-empty store: %+v", got)
	}
}

func TestSnapshotCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, ok := LoadSnapshot(path)
	if ok {
		t.Error("LoadSnapshot reported ok for corrupt data")
	}
	if got := store.Stats(); got.Files != 0 {
		t.Errorf("corrupt snapshot produced a non-empty store: %+v", got)
	}
}

func TestSnapshotVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	blob := `{"version": 999, "timestamp": 1, "items": {"entities": [], "references": []}, "files": {"a.json": 1}}`
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatal(err)
	}

	store, ok := LoadSnapshot(path)
	if ok {
		t.Error("LoadSnapshot accepted an incompatible version")
	}
	if _, present := store.Mtime("a.json"); present {
		t.Error("records from an incompatible snapshot leaked into the store")
	}
}

func TestSnapshotPersistCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "snapshot.json")

	if err := NewStore().Persist(path); err != nil {
		t.Fatalf("Persist into a missing directory: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot file not written: %v", err)
	}
}

func TestSnapshotLockHeld(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")

	// Hold the lock the way a second mapdex process would.
	lock, err := acquireSnapshotLock(dir)
	if err != nil {
		t.Fatalf("acquireSnapshotLock: %v", err)
	}

	if err := NewStore().Persist(path); !errors.Is(err, ErrIndexLocked) {
		t.Errorf("Persist under a held lock = %v, want ErrIndexLocked", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := NewStore().Persist(path); err != nil {
		t.Errorf("Persist after release: %v", err)
	}
}
