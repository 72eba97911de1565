package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/archive"
	"github.com/glorpus-work/blnotebook/pkg/download"
	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/fsutil"
	"github.com/glorpus-work/blnotebook/pkg/platform"
	"github.com/glorpus-work/blnotebook/pkg/version"
)

const (
	// DefaultMirror is the official release listing.
	DefaultMirror = "https://download.blender.org/release/"
	// DefaultCacheTTL is how long a cached release listing is reused.
	DefaultCacheTTL = 24 * time.Hour
	// ReleaseIndexFile is the cache file name of the release listing.
	ReleaseIndexFile = "release_index.html"
)

var (
	folderAnchorRe = regexp.MustCompile(`(?i)<a\s+href\s*=\s*"(blender(\d[^"]+))"[^>]*>([^<]+)<`)
	folderNameRe   = regexp.MustCompile(`(?i)^blender(\d.*)`)
)

// Extractor unpacks release archives.
type Extractor interface {
	ExtractZip(ctx context.Context, archivePath, destDir string) (string, error)
	ExtractTarXz(ctx context.Context, archivePath, destDir string, mode archive.TarMode) error
}

// RemoteOptions configures a Remote.
type RemoteOptions struct {
	// BaseURL is the release listing; a trailing "/" is added when missing.
	BaseURL string
	// AppsRoot receives installations.
	AppsRoot string
	// DownloadDir receives archives; defaults to AppsRoot.
	DownloadDir string
	// CacheDir holds the release listing cache; empty disables the cache.
	CacheDir string
	// CacheTTL defaults to DefaultCacheTTL.
	CacheTTL time.Duration
	TarMode  archive.TarMode
	HostOS   platform.OSType
	// Progress returns the progress callback for a download, or nil.
	Progress func(name string) download.ProgressFunc
}

// Remote is a download mirror organised in per-version folders.
type Remote struct {
	opts      RemoteOptions
	dl        download.Manager
	extractor Extractor

	mu      sync.Mutex
	folders []*VersionFolder
}

// NewRemote creates a Remote.
func NewRemote(opts RemoteOptions, dl download.Manager, extractor Extractor) *Remote {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultMirror
	}
	if !strings.HasSuffix(opts.BaseURL, "/") {
		opts.BaseURL += "/"
	}
	if opts.DownloadDir == "" {
		opts.DownloadDir = opts.AppsRoot
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.TarMode == "" {
		opts.TarMode = archive.TarExternal
	}
	if opts.HostOS == "" {
		opts.HostOS = platform.HostOSType()
	}
	return &Remote{opts: opts, dl: dl, extractor: extractor}
}

// BaseURL returns the normalised release listing URL.
func (r *Remote) BaseURL() string { return r.opts.BaseURL }

// VersionFolders returns the release folders, latest first. With useCache the
// folders of an earlier call and a fresh on-disk listing are reused.
func (r *Remote) VersionFolders(ctx context.Context, useCache bool) ([]*VersionFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if useCache && len(r.folders) > 0 {
		return r.folders, nil
	}

	body, err := r.releaseIndex(ctx, useCache)
	if err != nil {
		return nil, err
	}

	var folders []*VersionFolder
	for _, line := range strings.Split(string(body), "\n") {
		m := folderAnchorRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimRight(m[3], "/")
		nm := folderNameRe.FindStringSubmatch(name)
		if nm == nil {
			logger.Debug("skipping release folder", logger.Fields{"name": name})
			continue
		}
		v, err := version.Parse(nm[1])
		if err != nil {
			logger.Debug("skipping release folder", logger.Fields{"name": name, "error": err.Error()})
			continue
		}
		folders = append(folders, &VersionFolder{
			URL:         r.opts.BaseURL + m[1],
			Name:        name,
			Version:     v,
			downloadDir: r.opts.DownloadDir,
			appsRoot:    r.opts.AppsRoot,
			hostOS:      r.opts.HostOS,
			dl:          r.dl,
		})
	}

	sort.SliceStable(folders, func(i, j int) bool { return folders[j].Version.Less(folders[i].Version) })
	r.folders = folders
	return folders, nil
}

// releaseIndex returns the top-level listing, from the cache file when it is
// younger than the TTL.
func (r *Remote) releaseIndex(ctx context.Context, useCache bool) ([]byte, error) {
	cachePath := ""
	if r.opts.CacheDir != "" {
		cachePath = filepath.Join(r.opts.CacheDir, ReleaseIndexFile)
	}

	if useCache && cachePath != "" && !r.isCacheStale(cachePath) {
		if body, err := os.ReadFile(cachePath); err == nil {
			logger.Debug("using cached release listing", logger.Fields{"path": cachePath})
			return body, nil
		}
	}

	body, err := r.dl.Get(ctx, r.opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		if err := r.writeCache(cachePath, body); err != nil {
			logger.Warn(fmt.Sprintf("failed to cache release listing: %v", err), logger.Fields{"path": cachePath})
		}
	}
	return body, nil
}

func (r *Remote) isCacheStale(cachePath string) bool {
	info, err := os.Stat(cachePath)
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) >= r.opts.CacheTTL
}

func (r *Remote) writeCache(cachePath string, body []byte) error {
	if err := fsutil.EnsureFileDir(cachePath); err != nil {
		return err
	}
	return os.WriteFile(cachePath, body, fsutil.FileModeDefault)
}

// FindVersionFolder returns the latest folder when spec is nil, otherwise the
// latest folder whose version is contained in spec. It returns nil when no
// folder matches.
func (r *Remote) FindVersionFolder(ctx context.Context, spec *version.Version) (*VersionFolder, error) {
	folders, err := r.VersionFolders(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, f := range folders {
		if spec == nil || spec.Contains(f.Version) {
			return f, nil
		}
	}
	return nil, nil
}

// FindBestFile returns the best file in folder for c.
func (r *Remote) FindBestFile(ctx context.Context, folder *VersionFolder, c Criteria) (*RemoteFile, error) {
	return folder.FindBest(ctx, c)
}

// Download fetches the archive of f unless it is already present.
func (r *Remote) Download(ctx context.Context, f *RemoteFile, force bool) error {
	dest := f.ArchivePath()
	if !force && fsutil.Exists(dest) {
		logger.Debug("archive already downloaded", logger.Fields{"path": dest})
		return nil
	}
	logger.Info(fmt.Sprintf("Downloading %s...", f.Href))

	var progress download.ProgressFunc
	if r.opts.Progress != nil {
		progress = r.opts.Progress(f.Name)
	}
	if err := r.dl.Fetch(ctx, f.Href, dest, progress); err != nil {
		return errors.Wrapf(err, "downloading %s", f.Href)
	}
	return nil
}

// Install extracts the downloaded archive of f and returns the installation
// directory. An existing installation is returned as is unless force is set,
// in which case it is replaced.
func (r *Remote) Install(ctx context.Context, f *RemoteFile, force bool) (string, error) {
	dir, err := f.TargetDirectory()
	if err != nil {
		return "", err
	}
	if fsutil.Exists(dir) {
		if !force {
			return dir, nil
		}
		if err := os.RemoveAll(dir); err != nil {
			return "", errors.Wrapf(err, "removing %s", dir)
		}
	}

	archivePath := f.ArchivePath()
	logger.Info(fmt.Sprintf("Extracting %s into %s", archivePath, dir))

	switch f.Kind() {
	case KindZip:
		if _, err := r.extractor.ExtractZip(ctx, archivePath, dir); err != nil {
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				logger.Debug("failed to remove partial installation", logger.Fields{"dir": dir, "error": rmErr.Error()})
			}
			return "", err
		}
	case KindTarXz:
		err := r.extractor.ExtractTarXz(ctx, archivePath, dir, r.opts.TarMode)
		if _, rmErr := fsutil.RemoveIfEmpty(dir); rmErr != nil {
			logger.Debug("failed to remove empty directory", logger.Fields{"dir": dir, "error": rmErr.Error()})
		}
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("extracting %s is not supported: %w", archivePath, errors.ErrNotImplemented)
	}
	return dir, nil
}
