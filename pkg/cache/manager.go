// Package cache inspects and cleans the files blnotebook keeps between runs:
// the cached release listing and the downloaded release archives.
package cache

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/fsutil"
)

// archiveNameRe matches the release archives left in the download directory.
var archiveNameRe = regexp.MustCompile(`(?i)\.(zip|tar\.xz|tar\.bz2|tar\.gz|dmg)$`)

// Manager implements cache inspection for a cache and a download directory.
type Manager struct {
	directory   string
	downloadDir string
}

// NewManager creates a cache manager. downloadDir may be shared with the
// installations, so only archive files directly inside it are considered.
func NewManager(directory, downloadDir string) *Manager {
	return &Manager{
		directory:   directory,
		downloadDir: downloadDir,
	}
}

// Directory returns the cache directory path.
func (cm *Manager) Directory() string {
	return cm.directory
}

// DownloadDirectory returns the directory that receives release archives.
func (cm *Manager) DownloadDirectory() string {
	return cm.downloadDir
}

// Clean removes cached files according to options. With no option set both
// listings and archives are removed.
func (cm *Manager) Clean(options CleanOptions) (*CleanResult, error) {
	if !options.Listings && !options.Archives {
		options.Listings = true
		options.Archives = true
	}

	result := &CleanResult{}
	if options.Listings {
		files, _, err := listingFiles(cm.directory)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to clean listing cache")
		}
		freed, removed, err := removeFiles(files)
		result.ListingFreed = freed
		result.Removed = append(result.Removed, removed...)
		if err != nil {
			return result, errors.Wrapf(err, "failed to clean listing cache")
		}
	}
	if options.Archives {
		files, _, err := archiveFiles(cm.downloadDir)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to clean archive cache")
		}
		freed, removed, err := removeFiles(files)
		result.ArchiveFreed = freed
		result.Removed = append(result.Removed, removed...)
		if err != nil {
			return result, errors.Wrapf(err, "failed to clean archive cache")
		}
	}
	result.TotalFreed = result.ListingFreed + result.ArchiveFreed
	return result, nil
}

// Info returns the sizes of the cached listings and archives.
func (cm *Manager) Info() (*Info, error) {
	info := &Info{
		Directory:         cm.directory,
		DownloadDirectory: cm.downloadDir,
	}

	files, size, err := listingFiles(cm.directory)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get listing cache info")
	}
	info.ListingSize = size
	info.ListingFiles = len(files)
	for _, f := range files {
		if st, err := os.Stat(f); err == nil && st.ModTime().After(info.LastUpdated) {
			info.LastUpdated = st.ModTime()
		}
	}

	files, size, err = archiveFiles(cm.downloadDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get archive cache info")
	}
	info.ArchiveSize = size
	info.ArchiveFiles = len(files)

	info.TotalSize = info.ListingSize + info.ArchiveSize
	return info, nil
}

// listingFiles returns every regular file below dir and their total size.
func listingFiles(dir string) (files []string, size int64, err error) {
	if dir == "" || !fsutil.IsDir(dir) {
		return nil, 0, nil
	}
	err = filepath.Walk(dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
			size += info.Size()
		}
		return nil
	})
	if err != nil {
		err = errors.Wrapf(err, "error walking directory %s", dir)
	}
	return files, size, err
}

// archiveFiles returns the release archives directly inside dir.
func archiveFiles(dir string) (files []string, size int64, err error) {
	if dir == "" || !fsutil.IsDir(dir) {
		return nil, 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed to read directory %s", dir)
	}
	for _, entry := range entries {
		if !archiveNameRe.MatchString(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !fsutil.IsRegularFile(path) {
			continue
		}
		st, err := entry.Info()
		if err != nil {
			return nil, 0, errors.Wrapf(err, "failed to stat %s", path)
		}
		files = append(files, path)
		size += st.Size()
	}
	return files, size, nil
}

// removeFiles deletes files and returns the bytes freed and the removed paths.
func removeFiles(files []string) (freed int64, removed []string, err error) {
	for _, f := range files {
		st, statErr := os.Stat(f)
		if statErr != nil {
			continue
		}
		if err := os.Remove(f); err != nil {
			return freed, removed, errors.Wrapf(err, "failed to remove %s", f)
		}
		freed += st.Size()
		removed = append(removed, f)
	}
	return freed, removed, nil
}

// CleanOptions selects what Clean removes.
type CleanOptions struct {
	Listings bool
	Archives bool
}

// CleanResult reports what Clean removed.
type CleanResult struct {
	ListingFreed int64
	ArchiveFreed int64
	TotalFreed   int64
	Removed      []string
}

// Info describes the cache contents.
type Info struct {
	Directory         string
	DownloadDirectory string
	ListingSize       int64
	ListingFiles      int
	ArchiveSize       int64
	ArchiveFiles      int
	TotalSize         int64
	// LastUpdated is the newest listing modification time, zero when empty.
	LastUpdated time.Time
}
