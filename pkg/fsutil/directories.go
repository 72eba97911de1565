package fsutil

import (
	"os"
	"path/filepath"
)

// EnsureDir creates a directory and its parents with DirModeDefault permissions.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirModeDefault)
}

// EnsureFileDir creates the parent directory of a file path.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}

// RemoveIfEmpty removes dir when it exists and has no entries.
// It reports whether the directory was removed.
func RemoveIfEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(dir); err != nil {
		return false, err
	}
	return true, nil
}
