package corpus

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// WalkResult describes one corpus document found on disk. Error is set
// when the entry could not be read; the walk continues regardless.
type WalkResult struct {
	RelPath string // slash-separated path relative to the root
	AbsPath string
	Role    Role
	ID      string
	Mtime   int64 // modification time as Unix timestamp
	Error   error
}

// Walk enumerates every eligible corpus document under the layout root
// and calls the handler for each. Hidden directories are skipped. A
// missing assets tree is not an error; the handler is simply never
// called.
func (l Layout) Walk(handler func(result WalkResult) error) error {
	for _, sub := range []string{
		filepath.Join(l.Root, "assets", "themes"),
		filepath.Join(l.Root, "assets", "layers"),
	} {
		if _, err := os.Stat(sub); err != nil {
			continue
		}
		err := filepath.WalkDir(sub, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				rel, _ := filepath.Rel(l.Root, p)
				return handler(WalkResult{RelPath: filepath.ToSlash(rel), AbsPath: p, Error: err})
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}

			rel, _ := filepath.Rel(l.Root, p)
			rel = filepath.ToSlash(rel)
			if !l.Eligible(rel) {
				return nil
			}
			role, id, _ := Classify(rel)

			info, err := d.Info()
			if err != nil {
				return handler(WalkResult{RelPath: rel, AbsPath: p, Role: role, ID: id, Error: err})
			}

			return handler(WalkResult{
				RelPath: rel,
				AbsPath: p,
				Role:    role,
				ID:      id,
				Mtime:   info.ModTime().Unix(),
			})
		})
		if err != nil {
			return err
		}
	}
	return nil
}
