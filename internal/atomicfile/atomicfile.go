// Package atomicfile writes files without exposing torn content.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes data to path by staging it in a temporary file in
// the same directory and renaming it into place. A reader of path sees
// either the previous content or the new content in full, and a crash
// mid-write leaves the previous content untouched.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, data, perm); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Windows refuses to rename over an existing file. Retrying
		// after a remove loses atomicity on that one platform but
		// keeps the common path safe.
		os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("rename temp file: %w", err)
		}
	}
	return nil
}

func writeAndClose(tmp *os.File, data []byte, perm os.FileMode) error {
	// Chmod can fail on filesystems that don't track modes; the write
	// still counts.
	_ = tmp.Chmod(perm)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}
