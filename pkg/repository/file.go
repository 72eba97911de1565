package repository

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/platform"
	"github.com/glorpus-work/blnotebook/pkg/version"
)

// ArchiveKind is the container format of a release archive.
type ArchiveKind int

const (
	// KindUnknown is any format that cannot be installed.
	KindUnknown ArchiveKind = iota
	// KindZip is a zip archive (Windows builds).
	KindZip
	// KindTarXz is an xz compressed tarball (Linux builds).
	KindTarXz
)

var (
	zipExtRe   = regexp.MustCompile(`(?i)\.zip$`)
	tarXzExtRe = regexp.MustCompile(`(?i)\.tar\.xz$`)
)

// RemoteFile is one downloadable release archive.
type RemoteFile struct {
	// Href is the absolute download URL.
	Href string
	// Name is the file name shown in the listing.
	Name         string
	Version      version.Version
	Architecture platform.Architecture
	OSType       platform.OSType
	OSRank       int
	ArchRank     int
	// DownloadDir receives the archive; AppsRoot receives the installation.
	DownloadDir string
	AppsRoot    string

	hostOS platform.OSType
}

// Kind classifies the archive by its file name.
func (f *RemoteFile) Kind() ArchiveKind {
	switch {
	case zipExtRe.MatchString(f.Name):
		return KindZip
	case tarXzExtRe.MatchString(f.Name):
		return KindTarXz
	default:
		return KindUnknown
	}
}

// ArchivePath is where the archive is downloaded to.
func (f *RemoteFile) ArchivePath() string {
	return filepath.Join(f.DownloadDir, f.Name)
}

// TargetDirectory is the installation directory: the archive name without its
// extension, below AppsRoot. Formats other than zip and tar.xz fail with
// ErrNotImplemented.
func (f *RemoteFile) TargetDirectory() (string, error) {
	var base string
	switch f.Kind() {
	case KindZip:
		base = zipExtRe.ReplaceAllString(f.Name, "")
	case KindTarXz:
		base = tarXzExtRe.ReplaceAllString(f.Name, "")
	default:
		return "", fmt.Errorf("installing %s is not supported: %w", f.Name, errors.ErrNotImplemented)
	}
	return filepath.Join(f.AppsRoot, base), nil
}

// ExecutablePath is the main executable inside TargetDirectory.
func (f *RemoteFile) ExecutablePath() (string, error) {
	dir, err := f.TargetDirectory()
	if err != nil {
		return "", err
	}
	return platform.ExecutableName(filepath.Join(dir, "blender"), f.OSType, f.hostOS), nil
}

// less orders files by OS rank, then architecture rank, then version.
func (f *RemoteFile) less(other *RemoteFile) bool {
	if f.OSRank != other.OSRank {
		return f.OSRank < other.OSRank
	}
	if f.ArchRank != other.ArchRank {
		return f.ArchRank < other.ArchRank
	}
	// Padded sort keys, so "2.9" sorts before "2.10" unlike the raw elements.
	return f.Version.Less(other.Version)
}

func (f *RemoteFile) String() string {
	return f.Href
}
