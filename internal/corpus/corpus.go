// Package corpus encodes the filesystem conventions of a map-theme
// workspace: theme documents at assets/themes/<name>/<name>.json and
// layer documents at assets/layers/<name>/<name>.json. All relative
// paths produced here are slash-separated regardless of platform;
// conversion to OS paths happens at the I/O boundary.
package corpus

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Role is the corpus role of a document.
type Role string

const (
	RoleTheme Role = "theme"
	RoleLayer Role = "layer"
)

// Layout describes a workspace and which of its files are eligible for
// indexing.
type Layout struct {
	// Root is the absolute path of the workspace root.
	Root string

	// ExcludeGlobs are doublestar patterns matched against the
	// slash-separated relative path. Matching files are never indexed.
	ExcludeGlobs []string

	// ExcludeLayers are layer ids skipped entirely (degenerate
	// single-purpose layers with no reusable content).
	ExcludeLayers []string
}

// ThemePath returns the relative path of a theme document.
func ThemePath(id string) string {
	return path.Join("assets", "themes", id, id+".json")
}

// LayerPath returns the relative path of a layer document.
func LayerPath(id string) string {
	return path.Join("assets", "layers", id, id+".json")
}

// Abs converts a slash-separated relative path to an absolute OS path
// under the layout root.
func (l Layout) Abs(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// Classify derives the corpus role and id from a relative path. ok is
// false for files that are not corpus documents: wrong directory, wrong
// extension, or a file whose name does not match its folder (the
// license_info.json convention).
func Classify(rel string) (role Role, id string, ok bool) {
	parts := strings.Split(path.Clean(filepath.ToSlash(rel)), "/")
	if len(parts) != 4 || parts[0] != "assets" {
		return "", "", false
	}
	name, found := strings.CutSuffix(parts[3], ".json")
	if !found || name != parts[2] {
		return "", "", false
	}
	switch parts[1] {
	case "themes":
		return RoleTheme, name, true
	case "layers":
		return RoleLayer, name, true
	}
	return "", "", false
}

// Eligible reports whether the file at rel should be indexed.
func (l Layout) Eligible(rel string) bool {
	rel = filepath.ToSlash(rel)
	role, id, ok := Classify(rel)
	if !ok {
		return false
	}
	if role == RoleLayer {
		for _, excluded := range l.ExcludeLayers {
			if id == excluded {
				return false
			}
		}
	}
	for _, pattern := range l.ExcludeGlobs {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return false
		}
	}
	return true
}
