// Package archive extracts downloaded Blender bundles into installation directories.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/command"
	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/fsutil"
	"github.com/glorpus-work/blnotebook/pkg/platform"
	"github.com/mholt/archives"
)

// TarMode selects how .tar.xz bundles are unpacked.
type TarMode string

const (
	// TarExternal runs the system tar (through WSL on Windows hosts).
	TarExternal TarMode = "external"
	// TarBuiltin decompresses in-process.
	TarBuiltin TarMode = "builtin"
)

// Manager handles archive extraction.
type Manager struct {
	Runner command.Runner
	HostOS platform.OSType
}

// NewManager creates a Manager for the current host.
func NewManager(runner command.Runner) *Manager {
	return &Manager{Runner: runner, HostOS: platform.HostOSType()}
}

// ExtractZip extracts a zip bundle into destDir. A single top-level directory
// is stripped so that its contents land directly in destDir. An archive with no
// top-level directory is extracted as-is with a warning; one with several
// top-level entries alongside a directory is rejected with ErrArchiveIntegrity.
// It returns the stripped root, or "" when nothing was stripped.
//
// Zip files need not list their directories, so the roots are derived from the
// entry names.
func (am *Manager) ExtractZip(ctx context.Context, archivePath, destDir string) (string, error) {
	dirSet := map[string]bool{}
	fileSet := map[string]bool{}
	err := walkZip(ctx, archivePath, func(_ context.Context, info archives.FileInfo) error {
		name := cleanEntryName(info.NameInArchive)
		if name == "" {
			return nil
		}
		first, rest, nested := strings.Cut(name, "/")
		if nested || info.IsDir() {
			dirSet[first] = true
		} else if rest == "" {
			fileSet[first] = true
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	dirs, files := sortedKeys(dirSet), sortedKeys(fileSet)

	root := ""
	switch {
	case len(dirs) == 1 && len(files) == 0:
		root = dirs[0]
	case len(dirs) == 0:
		logger.Warn(fmt.Sprintf("warning: %s has no common root directory", archivePath))
	default:
		return "", fmt.Errorf("%s contains multiple roots (%s): %w",
			archivePath, strings.Join(append(dirs, files...), ", "), errors.ErrArchiveIntegrity)
	}

	if err := fsutil.EnsureDir(destDir); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}
	logger.Debug("extracting archive", logger.Fields{"archive": archivePath, "dest": destDir, "root": root})

	err = walkZip(ctx, archivePath, func(ctx context.Context, info archives.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := cleanEntryName(info.NameInArchive)
		if root != "" {
			var ok bool
			if name, ok = stripFirstComponent(name); !ok {
				return nil
			}
		}
		if name == "" {
			return nil
		}
		return extractZipEntry(info, name, destDir)
	})
	if err != nil {
		return "", err
	}
	return root, nil
}

// walkZip calls handle for every entry of the zip file at archivePath.
func walkZip(ctx context.Context, archivePath string, handle archives.FileHandler) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive file %s: %w", archivePath, err)
	}
	defer func() { _ = f.Close() }()

	if err := (archives.Zip{}).Extract(ctx, f, handle); err != nil {
		return fmt.Errorf("failed to read %s: %w", archivePath, err)
	}
	return nil
}

// extractZipEntry writes a single entry to destDir under name.
func extractZipEntry(info archives.FileInfo, name, destDir string) error {
	targetPath, err := safeJoin(destDir, name)
	if err != nil {
		return err
	}
	switch {
	case info.IsDir():
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	case info.Mode()&os.ModeSymlink != 0:
		return writeSymlink(linkTarget(info), targetPath)
	default:
		return writeRegularFile(func() (io.ReadCloser, error) { return info.Open() }, targetPath, info)
	}
}

// linkTarget prefers the link target recorded in the archive header and falls
// back to the entry contents.
func linkTarget(info archives.FileInfo) string {
	if info.LinkTarget != "" {
		return info.LinkTarget
	}
	f, err := info.Open()
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()
	b, _ := io.ReadAll(f)
	return string(b)
}

func cleanEntryName(name string) string {
	name = strings.TrimPrefix(path.Clean(strings.TrimPrefix(name, "./")), "/")
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeSymlink(target, targetPath string) error {
	if target == "" {
		return fmt.Errorf("empty symlink target for %s: %w", targetPath, errors.ErrArchiveIntegrity)
	}
	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for symlink %s: %w", targetPath, err)
	}
	_ = os.Remove(targetPath)
	return os.Symlink(target, targetPath)
}

func writeRegularFile(open func() (io.ReadCloser, error), targetPath string, info fs.FileInfo) error {
	src, err := open()
	if err != nil {
		return fmt.Errorf("failed to open source file for %s: %w", targetPath, err)
	}
	defer func() { _ = src.Close() }()

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", targetPath, err)
	}
	perm := info.Mode().Perm()
	if perm == 0 {
		perm = fsutil.FileModeDefault
	}
	dst, err := fsutil.CreateFilePerm(targetPath, perm)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", targetPath, err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy file %s: %w", targetPath, err)
	}
	if err := os.Chmod(targetPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions for %s: %w", targetPath, err)
	}
	if err := os.Chtimes(targetPath, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time for %s: %w", targetPath, err)
	}
	return nil
}

// ExtractTarXz unpacks a .tar.xz bundle into destDir, dropping the first path
// component of every entry (tar --strip-components=1).
func (am *Manager) ExtractTarXz(ctx context.Context, archivePath, destDir string, mode TarMode) error {
	if err := fsutil.EnsureDir(destDir); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	logger.Debug("extracting archive", logger.Fields{"archive": archivePath, "dest": destDir, "mode": string(mode)})

	if mode == TarBuiltin {
		return am.extractTarBuiltin(ctx, archivePath, destDir)
	}
	name, args := am.TarCommand(archivePath, destDir)
	return am.Runner.Run(ctx, name, args...)
}

// TarCommand returns the external command extracting archivePath into destDir.
func (am *Manager) TarCommand(archivePath, destDir string) (string, []string) {
	if am.HostOS == platform.Windows {
		script := fmt.Sprintf(`tar -xaf $(wslpath "%s") -C $(wslpath "%s") --strip-components=1`, archivePath, destDir)
		return "wsl", []string{"--exec", "bash", "-c", script}
	}
	return "tar", []string{"-xaf", archivePath, "-C", destDir, "--strip-components=1"}
}

func (am *Manager) extractTarBuiltin(ctx context.Context, archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive file %s: %w", archivePath, err)
	}
	defer func() { _ = f.Close() }()

	format := archives.CompressedArchive{
		Compression: archives.Xz{},
		Extraction:  archives.Tar{},
	}
	return format.Extract(ctx, f, func(_ context.Context, info archives.FileInfo) error {
		rel, ok := stripFirstComponent(info.NameInArchive)
		if !ok {
			return nil
		}
		targetPath, err := safeJoin(destDir, rel)
		if err != nil {
			return err
		}

		if hdr, isTar := info.Header.(*tar.Header); isTar && hdr.Typeflag == tar.TypeLink {
			linked, ok := stripFirstComponent(hdr.Linkname)
			if !ok {
				return fmt.Errorf("hard link %s points outside the bundle: %w", info.NameInArchive, errors.ErrArchiveIntegrity)
			}
			source, err := safeJoin(destDir, linked)
			if err != nil {
				return err
			}
			if err := fsutil.EnsureFileDir(targetPath); err != nil {
				return err
			}
			_ = os.Remove(targetPath)
			return os.Link(source, targetPath)
		}

		switch {
		case info.IsDir():
			return os.MkdirAll(targetPath, fsutil.DirModeDefault)
		case info.Mode()&os.ModeSymlink != 0:
			return writeSymlink(info.LinkTarget, targetPath)
		case info.Mode().IsRegular():
			return writeRegularFile(func() (io.ReadCloser, error) { return info.Open() }, targetPath, info)
		default:
			logger.Debug("skipping special archive entry", logger.Fields{"name": info.NameInArchive})
			return nil
		}
	})
}

// stripFirstComponent removes the leading directory from an archive path.
// It reports false for the root entry itself.
func stripFirstComponent(name string) (string, bool) {
	name = strings.TrimPrefix(path.Clean(strings.TrimPrefix(name, "./")), "/")
	_, rest, found := strings.Cut(name, "/")
	if !found || rest == "" {
		return "", false
	}
	return rest, true
}

// safeJoin joins an archive path onto destDir, rejecting entries that would
// escape it.
func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("entry %q escapes %s: %w", name, destDir, errors.ErrArchiveIntegrity)
	}
	return target, nil
}
