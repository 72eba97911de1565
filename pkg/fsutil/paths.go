package fsutil

import (
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// AppName is the directory name used below user cache and config directories.
const AppName = "bl-notebook"

// ExpandPath expands a leading "~" to the user's home directory and cleans the result.
// Paths that cannot be expanded are returned cleaned but otherwise unchanged.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		expanded = path
	}
	return filepath.Clean(expanded)
}

// SplitSearchPath splits a ";" separated list of directories, trimming blanks,
// dropping empty entries and expanding "~".
func SplitSearchPath(searchPath string) []string {
	var dirs []string
	for _, entry := range strings.Split(searchPath, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		dirs = append(dirs, ExpandPath(entry))
	}
	return dirs
}
