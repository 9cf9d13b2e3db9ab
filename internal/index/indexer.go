package index

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"mapdex/internal/corpus"
	"mapdex/internal/jsondoc"
	"mapdex/internal/scanner"
)

// Indexer drives corpus scans into a store. Scans of different files
// run concurrently; store mutations are applied serially afterwards so
// an abandoned or failed scan leaves no trace.
type Indexer struct {
	store   *Store
	layout  corpus.Layout
	cache   *jsondoc.Cache
	scanner *scanner.Scanner
}

// NewIndexer wires a store to the corpus it is built from.
func NewIndexer(store *Store, layout corpus.Layout, cache *jsondoc.Cache, scan *scanner.Scanner) *Indexer {
	return &Indexer{store: store, layout: layout, cache: cache, scanner: scan}
}

// Store returns the store the indexer writes into.
func (ix *Indexer) Store() *Store {
	return ix.store
}

// RebuildResult summarizes one rebuild pass.
type RebuildResult struct {
	Indexed     int
	Unchanged   int
	Removed     int
	Failed      int
	Diagnostics []scanner.Diagnostic
}

type scanOutcome struct {
	res *scanner.Result
	err error
}

// RebuildAll scans every eligible corpus file whose on-disk mtime is
// newer than its recorded one (all of them when full is set) and drops
// records for files that no longer exist. Files that fail to read or
// parse keep their previous records.
func (ix *Indexer) RebuildAll(full bool) (*RebuildResult, error) {
	result := &RebuildResult{}
	seen := make(map[string]bool)

	var pending []corpus.WalkResult
	err := ix.layout.Walk(func(item corpus.WalkResult) error {
		if item.Error != nil {
			result.Failed++
			result.Diagnostics = append(result.Diagnostics, scanner.Diagnostic{
				File:    item.RelPath,
				Message: item.Error.Error(),
			})
			return nil
		}
		seen[item.RelPath] = true
		if !full {
			if mtime, ok := ix.store.Mtime(item.RelPath); ok && mtime >= item.Mtime {
				result.Unchanged++
				return nil
			}
		}
		pending = append(pending, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}

	outcomes := make([]scanOutcome, len(pending))
	if len(pending) > 0 {
		workers := runtime.NumCPU()
		if workers > len(pending) {
			workers = len(pending)
		}
		g := new(errgroup.Group)
		g.SetLimit(workers)
		for i, item := range pending {
			g.Go(func() error {
				outcomes[i] = ix.scanFile(item)
				return nil
			})
		}
		_ = g.Wait()
	}

	for i, item := range pending {
		out := outcomes[i]
		if out.err != nil {
			result.Failed++
			result.Diagnostics = append(result.Diagnostics, scanner.Diagnostic{
				File:    item.RelPath,
				Message: out.err.Error(),
			})
			continue
		}
		ix.store.ReplaceFile(item.RelPath, item.Mtime, out.res.Entities, out.res.References)
		result.Indexed++
		result.Diagnostics = append(result.Diagnostics, out.res.Diagnostics...)
	}

	for _, path := range ix.store.Files() {
		if !seen[path] {
			ix.store.RemoveFile(path)
			result.Removed++
		}
	}

	return result, nil
}

func (ix *Indexer) scanFile(item corpus.WalkResult) scanOutcome {
	doc, err := ix.cache.Load(item.AbsPath)
	if err != nil {
		return scanOutcome{err: fmt.Errorf("read %s: %w", item.RelPath, err)}
	}
	res, err := ix.scanner.Scan(item.RelPath, item.Role, item.ID, doc)
	if err != nil {
		return scanOutcome{err: err}
	}
	return scanOutcome{res: res}
}

// ReindexFile rescans a single file and replaces its records. Returns
// the scan result so the caller can report diagnostics, or nil when the
// path is not an eligible corpus document. A parse failure is returned
// as an error and leaves the file's prior records untouched.
func (ix *Indexer) ReindexFile(rel string) (*scanner.Result, error) {
	if !ix.layout.Eligible(rel) {
		return nil, nil
	}
	role, id, ok := corpus.Classify(rel)
	if !ok {
		return nil, nil
	}

	abs := ix.layout.Abs(rel)
	stat, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}

	doc, err := ix.cache.Load(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	res, err := ix.scanner.Scan(rel, role, id, doc)
	if err != nil {
		return nil, err
	}

	ix.store.ReplaceFile(rel, stat.ModTime().Unix(), res.Entities, res.References)
	return res, nil
}

// RemoveFile drops a deleted file's records from the store and evicts
// its cached parse. Reports whether the file was indexed.
func (ix *Indexer) RemoveFile(rel string) bool {
	ix.cache.Forget(ix.layout.Abs(rel))
	return ix.store.RemoveFile(rel)
}

// StalenessInfo describes how far the store lags the filesystem.
type StalenessInfo struct {
	IsStale      bool
	StaleFiles   []string
	TotalFiles   int
	CheckedFiles int
}

// CheckStaleness compares recorded file mtimes against the current
// filesystem. A file that disappeared counts as stale; the rebuild
// sweep will drop it.
func (ix *Indexer) CheckStaleness() *StalenessInfo {
	info := &StalenessInfo{}
	for _, path := range ix.store.Files() {
		info.TotalFiles++
		indexed, _ := ix.store.Mtime(path)

		stat, err := os.Stat(ix.layout.Abs(path))
		if err != nil {
			info.StaleFiles = append(info.StaleFiles, path)
			info.IsStale = true
			continue
		}
		info.CheckedFiles++
		if stat.ModTime().Unix() > indexed {
			info.StaleFiles = append(info.StaleFiles, path)
			info.IsStale = true
		}
	}
	return info
}
