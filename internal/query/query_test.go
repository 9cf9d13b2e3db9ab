package query

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mapdex/internal/corpus"
	"mapdex/internal/index"
	"mapdex/internal/jsondoc"
	"mapdex/internal/model"
	"mapdex/internal/resolver"
	"mapdex/internal/scanner"
)

func writeCorpusFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newTestEngine indexes a small corpus exercising pools, wildcards,
// inline layers, and an unresolved reference.
func newTestEngine(t *testing.T) (*Engine, *index.Store) {
	t.Helper()
	root := t.TempDir()

	writeCorpusFile(t, root, "assets/layers/questions/questions.json",
		`{"id": "questions", "tagRenderings": [{"id": "name", "labels": ["core"]}, {"id": "name_v2"}]}`)
	writeCorpusFile(t, root, "assets/layers/filters/filters.json",
		`{"id": "filters", "filter": [{"id": "open_now"}]}`)
	writeCorpusFile(t, root, "assets/layers/bench/bench.json",
		`{"id": "bench", "tagRenderings": [{"id": "backrest"}, "name"], "filter": ["open_now"]}`)
	writeCorpusFile(t, root, "assets/layers/wall/wall.json",
		`{"id": "wall", "tagRenderings": ["name*"]}`)
	writeCorpusFile(t, root, "assets/themes/benches/benches.json",
		`{"id": "benches", "layers": ["bench", {"id": "inline_art", "source": {"osmTags": "tourism=artwork"}, "tagRenderings": ["name", {"id": "hidden"}]}, "ghost"]}`)

	layout := corpus.Layout{Root: root}
	cache := jsondoc.NewCache(32)
	store := index.NewStore()
	ix := index.NewIndexer(store, layout, cache, scanner.New(resolver.New(layout, cache, "questions", "filters")))
	if _, err := ix.RebuildAll(false); err != nil {
		t.Fatalf("RebuildAll: %v", err)
	}

	return New(store, layout, cache, "questions", "filters"), store
}

func TestEntitiesOf(t *testing.T) {
	e, _ := newTestEngine(t)

	t.Run("tagRenderings", func(t *testing.T) {
		got := e.EntitiesOf(model.KindTagRendering)
		byID := map[string]bool{}
		for _, ent := range got {
			byID[ent.QualifiedID] = ent.SharedPool
		}

		want := map[string]bool{
			"layers.questions.tagRenderings.name":    true,
			"layers.questions.tagRenderings.name_v2": true,
			"layers.bench.tagRenderings.backrest":    false,
		}
		if !reflect.DeepEqual(byID, want) {
			t.Errorf("EntitiesOf(tagRendering) = %v, want %v", byID, want)
		}
	})

	t.Run("filters", func(t *testing.T) {
		got := e.EntitiesOf(model.KindFilter)
		if len(got) != 1 || got[0].QualifiedID != "layers.filters.filter.open_now" || !got[0].SharedPool {
			t.Errorf("EntitiesOf(filter) = %+v", got)
		}
	})

	t.Run("layers", func(t *testing.T) {
		got := e.EntitiesOf(model.KindLayer)
		pools := 0
		for _, ent := range got {
			if ent.SharedPool {
				pools++
			}
		}
		if len(got) != 4 || pools != 2 {
			t.Errorf("got %d layers with %d pool layers, want 4 and 2", len(got), pools)
		}
	})

	t.Run("inline members never registered", func(t *testing.T) {
		for _, kind := range []model.Kind{model.KindTagRendering, model.KindFilter} {
			for _, ent := range e.EntitiesOf(kind) {
				if ent.QualifiedID == "layers.inline_art.tagRenderings.hidden" {
					t.Errorf("inline layer member leaked into %s entities", kind)
				}
			}
		}
	})
}

func TestResolveAt(t *testing.T) {
	e, _ := newTestEngine(t)
	benchFile := "assets/layers/bench/bench.json"

	t.Run("pool reference", func(t *testing.T) {
		got := e.ResolveAt(benchFile, "tagRenderings.1")
		if len(got) != 1 {
			t.Fatalf("got %d definitions, want 1", len(got))
		}
		if got[0].QualifiedID != "layers.questions.tagRenderings.name" {
			t.Errorf("QualifiedID = %q", got[0].QualifiedID)
		}
		if got[0].Location.File != "assets/layers/questions/questions.json" {
			t.Errorf("Location.File = %q", got[0].Location.File)
		}
		if got[0].Location.Path != "tagRenderings.0" {
			t.Errorf("Location.Path = %q", got[0].Location.Path)
		}
	})

	t.Run("wildcard fans out", func(t *testing.T) {
		got := e.ResolveAt("assets/layers/wall/wall.json", "tagRenderings.0")
		if len(got) != 2 {
			t.Fatalf("got %d definitions, want 2", len(got))
		}
		if got[0].Location == got[1].Location {
			t.Error("fan-out targets share a location")
		}
	})

	t.Run("unresolved yields nothing", func(t *testing.T) {
		if got := e.ResolveAt("assets/themes/benches/benches.json", "layers.2"); len(got) != 0 {
			t.Errorf("got %d definitions for an unresolved reference", len(got))
		}
	})

	t.Run("no reference at address", func(t *testing.T) {
		if got := e.ResolveAt(benchFile, "tagRenderings.0"); len(got) != 0 {
			t.Errorf("got %d definitions at a definition site", len(got))
		}
	})
}

func TestDefinitionAt(t *testing.T) {
	e, _ := newTestEngine(t)

	// Cursor inside the "name" token of bench.json.
	got, err := e.DefinitionAt("assets/layers/bench/bench.json", model.Position{Line: 0, Col: 56})
	if err != nil {
		t.Fatalf("DefinitionAt: %v", err)
	}
	if len(got) != 1 || got[0].QualifiedID != "layers.questions.tagRenderings.name" {
		t.Errorf("DefinitionAt = %+v", got)
	}

	if _, err := e.DefinitionAt("assets/layers/missing/missing.json", model.Position{}); err == nil {
		t.Error("expected an error for an unreadable document")
	}
}

func TestReferencesTo(t *testing.T) {
	e, store := newTestEngine(t)

	t.Run("includes inline layer sources", func(t *testing.T) {
		got := e.ReferencesTo("layers.questions.tagRenderings.name")
		froms := map[string]bool{}
		for _, ref := range got {
			froms[ref.FromID] = true
		}
		for _, want := range []string{"layers.bench", "layers.wall", "themes.benches.layers.1"} {
			if !froms[want] {
				t.Errorf("missing usage from %s; got %v", want, froms)
			}
		}
	})

	t.Run("unresolved targets remain visible", func(t *testing.T) {
		got := e.ReferencesTo("layers.ghost")
		if len(got) != 1 || got[0].Resolved {
			t.Errorf("ReferencesTo(layers.ghost) = %+v, want one unresolved reference", got)
		}
	})

	t.Run("reciprocity", func(t *testing.T) {
		for _, ref := range store.References() {
			if !ref.Resolved {
				continue
			}
			found := false
			for _, back := range e.ReferencesTo(ref.ToID) {
				if reflect.DeepEqual(back, ref) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("reference %s -> %s missing from ReferencesTo", ref.FromID, ref.ToID)
			}
		}
	})
}

func TestEntitiesByID(t *testing.T) {
	e, _ := newTestEngine(t)

	got := e.EntitiesByID("layers.questions.tagRenderings.name")
	if len(got) != 1 || got[0].Kind != model.KindTagRendering {
		t.Errorf("EntitiesByID = %+v", got)
	}
	if got := e.EntitiesByID("layers.nope"); len(got) != 0 {
		t.Errorf("EntitiesByID(unknown) = %+v, want empty", got)
	}
}

func TestUnresolved(t *testing.T) {
	e, _ := newTestEngine(t)

	got := e.Unresolved()
	if len(got) != 1 || got[0].ToID != "layers.ghost" {
		t.Errorf("Unresolved = %+v, want only layers.ghost", got)
	}
}
