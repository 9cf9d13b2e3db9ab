package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mapdex/internal/atomicfile"
	"mapdex/internal/model"
)

// snapshotVersion is bumped whenever the snapshot layout changes. A
// snapshot written by an incompatible version is discarded and the
// store starts empty.
const snapshotVersion = 1

// ErrIndexLocked indicates another process is writing the snapshot.
var ErrIndexLocked = errors.New("index snapshot is locked by another process")

type snapshot struct {
	Version   int              `json:"version"`
	Timestamp int64            `json:"timestamp"`
	Items     snapshotItems    `json:"items"`
	Files     map[string]int64 `json:"files"`
}

type snapshotItems struct {
	Entities   []model.Entity    `json:"entities"`
	References []model.Reference `json:"references"`
}

// LoadSnapshot reads a persisted snapshot and rebuilds a store from it.
// A missing, corrupt, or incompatible snapshot yields an empty store
// and ok=false rather than an error; the caller reacts by running a
// full rebuild.
func LoadSnapshot(path string) (store *Store, ok bool) {
	store = NewStore()

	data, err := os.ReadFile(path)
	if err != nil {
		return store, false
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store, false
	}
	if snap.Version != snapshotVersion {
		return store, false
	}

	for _, ent := range snap.Items.Entities {
		store.entities[ent.Anchor.File] = append(store.entities[ent.Anchor.File], ent)
	}
	for _, ref := range snap.Items.References {
		store.refs[ref.From.File] = append(store.refs[ref.From.File], ref)
	}
	for file, mtime := range snap.Files {
		store.files[file] = mtime
	}
	store.lastBuilt = snap.Timestamp

	return store, true
}

// Persist writes the store's full contents to path atomically. The
// write is guarded by a lock file next to the snapshot so that two
// processes never interleave writes; a held lock surfaces as
// ErrIndexLocked instead of blocking.
func (s *Store) Persist(path string) error {
	lock, err := acquireSnapshotLock(filepath.Dir(path))
	if err != nil {
		return err
	}
	defer lock.Release()

	now := time.Now().Unix()
	snap := s.snapshotValue(now)

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	s.mu.Lock()
	s.lastBuilt = now
	s.mu.Unlock()

	return nil
}

func (s *Store) snapshotValue(now int64) snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		Version:   snapshotVersion,
		Timestamp: now,
		Files:     make(map[string]int64, len(s.files)),
	}
	for _, path := range s.sortedFilesLocked() {
		snap.Items.Entities = append(snap.Items.Entities, s.entities[path]...)
		snap.Items.References = append(snap.Items.References, s.refs[path]...)
		snap.Files[path] = s.files[path]
	}
	return snap
}

type snapshotLock struct {
	file *os.File
}

func acquireSnapshotLock(dir string) (*snapshotLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	lockPath := filepath.Join(dir, "index.lock")
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open snapshot lock: %w", err)
	}

	if err := lockFileExclusiveNonBlocking(lockFile); err != nil {
		lockFile.Close()
		if isWouldBlockError(err) {
			return nil, ErrIndexLocked
		}
		return nil, fmt.Errorf("acquire snapshot lock: %w", err)
	}

	return &snapshotLock{file: lockFile}, nil
}

func (l *snapshotLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
