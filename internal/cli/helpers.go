package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mapdex/internal/config"
	"mapdex/internal/corpus"
	"mapdex/internal/index"
	"mapdex/internal/jsondoc"
	"mapdex/internal/model"
	"mapdex/internal/query"
	"mapdex/internal/resolver"
	"mapdex/internal/scanner"
)

// appEnv bundles the open workspace state shared by the commands:
// the resolved layout, the document cache, the store with its indexer,
// and the query engine reading from the store.
type appEnv struct {
	root         string
	wsCfg        *config.WorkspaceConfig
	layout       corpus.Layout
	cache        *jsondoc.Cache
	indexer      *index.Indexer
	engine       *query.Engine
	snapshotFile string

	// loadedSnapshot reports whether the store was seeded from a
	// persisted snapshot. When false the first refresh runs a full
	// rebuild regardless of mtimes.
	loadedSnapshot bool
}

// openEnv resolves the workspace and assembles the index plumbing.
// The store starts from the persisted snapshot when one can be read;
// a missing or corrupt snapshot yields an empty store.
func openEnv() (*appEnv, error) {
	root := getRoot()
	if root == "" {
		return nil, fmt.Errorf("no workspace resolved")
	}
	wsCfg := getWorkspaceConfig()
	layout := wsCfg.Layout(root)
	snapshotFile := wsCfg.SnapshotFile(root)

	store, loaded := index.LoadSnapshot(snapshotFile)
	cache := jsondoc.NewCache(0)
	res := resolver.New(layout, cache, wsCfg.TagRenderingPool(), wsCfg.FilterPool())
	indexer := index.NewIndexer(store, layout, cache, scanner.New(res))
	engine := query.New(store, layout, cache, wsCfg.TagRenderingPool(), wsCfg.FilterPool())

	return &appEnv{
		root:           root,
		wsCfg:          wsCfg,
		layout:         layout,
		cache:          cache,
		indexer:        indexer,
		engine:         engine,
		snapshotFile:   snapshotFile,
		loadedSnapshot: loaded,
	}, nil
}

// refresh brings the store up to date with the filesystem and persists
// the result. A cold store (no usable snapshot) always rebuilds in
// full. When nothing changed the snapshot is left alone.
func (env *appEnv) refresh(full bool) (*index.RebuildResult, error) {
	result, err := env.indexer.RebuildAll(full || !env.loadedSnapshot)
	if err != nil {
		return nil, err
	}
	if result.Indexed > 0 || result.Removed > 0 || !env.loadedSnapshot {
		if err := env.persistSnapshot(); err != nil {
			return result, err
		}
		env.loadedSnapshot = true
	}
	return result, nil
}

// queryNoRefresh skips the pre-query refresh. Shared by the read-only
// commands; each registers it as --no-refresh.
var queryNoRefresh bool

// refreshForQuery refreshes before a read-only command. With
// --no-refresh the store keeps its snapshot state and stale files only
// produce a warning. A held snapshot lock degrades to a stderr warning
// instead of failing the query; the in-memory store is current either
// way.
func (env *appEnv) refreshForQuery() (*index.RebuildResult, error) {
	if queryNoRefresh {
		warnIfStale(env)
		return nil, nil
	}
	result, err := env.refresh(false)
	if err != nil {
		if errors.Is(err, index.ErrIndexLocked) {
			if !isJSONOutput() {
				fmt.Fprintln(os.Stderr, "Warning: another process holds the index lock; results are current but not persisted")
			}
			return result, nil
		}
		return nil, err
	}
	return result, nil
}

func (env *appEnv) persistSnapshot() error {
	return env.indexer.Store().Persist(env.snapshotFile)
}

// parseFailureWarnings converts scan diagnostics into JSON warnings.
func parseFailureWarnings(diags []scanner.Diagnostic) []Warning {
	var out []Warning
	for _, d := range diags {
		out = append(out, Warning{Code: WarnParseFailed, Message: d.Message, File: d.File})
	}
	return out
}

// warnIfStale reports indexed files that lag the filesystem. Only warns
// in text mode to keep machine-readable output clean.
func warnIfStale(env *appEnv) {
	if isJSONOutput() {
		return
	}

	staleness := env.indexer.CheckStaleness()
	if !staleness.IsStale {
		return
	}

	staleCount := len(staleness.StaleFiles)
	if staleCount == 1 {
		fmt.Fprintf(os.Stderr, "⚠ Warning: 1 file may be stale. Run 'mapdex scan' to update.\n")
	} else if staleCount <= 3 {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %d files may be stale: %s\n",
			staleCount, strings.Join(staleness.StaleFiles, ", "))
		fmt.Fprintf(os.Stderr, "  Run 'mapdex scan' to update.\n")
	} else {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %d files may be stale. Run 'mapdex scan' to update.\n", staleCount)
	}
	fmt.Fprintln(os.Stderr)
}

// parsePosition parses a 1-based "line:col" argument into a zero-based
// position.
func parsePosition(arg string) (model.Position, error) {
	lineStr, colStr, ok := strings.Cut(arg, ":")
	if !ok {
		return model.Position{}, fmt.Errorf("expected line:col, got '%s'", arg)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return model.Position{}, fmt.Errorf("invalid line number '%s'", lineStr)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return model.Position{}, fmt.Errorf("invalid column number '%s'", colStr)
	}
	return model.Position{Line: line - 1, Col: col - 1}, nil
}

// normalizeRelPath converts a user-supplied file argument into the
// workspace-relative slash form records are keyed by. Absolute paths
// and paths relative to the current directory are both accepted as
// long as they land inside the workspace.
func normalizeRelPath(root, arg string) (string, error) {
	abs := arg
	if !filepath.IsAbs(abs) {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = root
		}
		// Try relative to the workspace root first, then the cwd.
		if _, err := os.Stat(filepath.Join(root, arg)); err == nil {
			abs = filepath.Join(root, arg)
		} else {
			abs = filepath.Join(cwd, arg)
		}
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("'%s' is outside the workspace %s", arg, root)
	}
	return filepath.ToSlash(rel), nil
}
