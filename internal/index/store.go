// Package index maintains the record store built from corpus scans and
// its persisted snapshot. The store is the only source query operations
// read from; the snapshot exists to skip cold rebuilds across runs.
package index

import (
	"sort"
	"sync"

	"mapdex/internal/model"
)

// Store holds entity and reference records grouped by the file they
// were extracted from, plus the modification time each file was last
// scanned at. Every mutation is scoped to one file and fully replaces
// that file's prior records, so concurrent scans of different files
// never conflict and rescanning is idempotent.
type Store struct {
	mu        sync.RWMutex
	entities  map[string][]model.Entity
	refs      map[string][]model.Reference
	files     map[string]int64
	lastBuilt int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		entities: make(map[string][]model.Entity),
		refs:     make(map[string][]model.Reference),
		files:    make(map[string]int64),
	}
}

// ReplaceFile drops all records previously tagged with path, inserts
// the new set, and advances the file's recorded mtime. The store takes
// ownership of the slices.
func (s *Store) ReplaceFile(path string, mtime int64, entities []model.Entity, refs []model.Reference) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entities, path)
	delete(s.refs, path)
	if len(entities) > 0 {
		s.entities[path] = entities
	}
	if len(refs) > 0 {
		s.refs[path] = refs
	}
	s.files[path] = mtime
}

// RemoveFile drops all records tagged with path. Reports whether the
// file was present.
func (s *Store) RemoveFile(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, present := s.files[path]
	delete(s.entities, path)
	delete(s.refs, path)
	delete(s.files, path)
	return present
}

// Mtime returns the modification time recorded for path at its last
// scan, and whether the path is indexed at all.
func (s *Store) Mtime(path string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mtime, ok := s.files[path]
	return mtime, ok
}

// Files returns the indexed file paths in sorted order.
func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedFilesLocked()
}

func (s *Store) sortedFilesLocked() []string {
	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Entities returns every entity record, ordered by file and then by
// position within the file.
func (s *Store) Entities() []model.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Entity
	for _, path := range s.sortedFilesLocked() {
		out = append(out, s.entities[path]...)
	}
	return out
}

// EntitiesOfKind returns every entity of the given kind, ordered by
// file and then by position within the file.
func (s *Store) EntitiesOfKind(kind model.Kind) []model.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Entity
	for _, path := range s.sortedFilesLocked() {
		for _, ent := range s.entities[path] {
			if ent.Kind == kind {
				out = append(out, ent)
			}
		}
	}
	return out
}

// References returns every reference record, ordered by source file and
// then by position within the file.
func (s *Store) References() []model.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Reference
	for _, path := range s.sortedFilesLocked() {
		out = append(out, s.refs[path]...)
	}
	return out
}

// ReferencesFrom returns the references extracted from one file, in
// document order.
func (s *Store) ReferencesFrom(path string) []model.Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := s.refs[path]
	out := make([]model.Reference, len(refs))
	copy(out, refs)
	return out
}

// Stats summarizes the store's contents.
type Stats struct {
	Files      int
	Entities   int
	References int
	Unresolved int
	LastBuilt  int64
}

// Stats counts the store's records.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Files: len(s.files), LastBuilt: s.lastBuilt}
	for _, ents := range s.entities {
		stats.Entities += len(ents)
	}
	for _, refs := range s.refs {
		stats.References += len(refs)
		for _, ref := range refs {
			if !ref.Resolved {
				stats.Unresolved++
			}
		}
	}
	return stats
}
