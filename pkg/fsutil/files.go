package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// Move moves a file or directory from src to dst.
// It first attempts os.Rename and falls back to copy + delete when src and dst
// live on different filesystems (downloads are staged in the cache directory,
// which may be a different mount than the applications root).
func Move(src, dst string) error {
	if src == "" || dst == "" {
		return fmt.Errorf("source and destination paths cannot be empty")
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source %s: %w", src, err)
	}

	if !srcInfo.IsDir() {
		if err := EnsureFileDir(dst); err != nil {
			return fmt.Errorf("failed to create destination directory for %s: %w", dst, err)
		}
	}

	err = os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossFilesystemError(err) {
		return fmt.Errorf("failed to rename %s to %s: %w", src, dst, err)
	}

	if srcInfo.IsDir() {
		return moveDirectory(src, dst)
	}
	return moveFile(src, dst, srcInfo)
}

func isCrossFilesystemError(err error) bool {
	var linkError *os.LinkError
	if errors.As(err, &linkError) {
		return errors.Is(linkError.Err, syscall.EXDEV)
	}
	return false
}

func moveFile(src, dst string, srcInfo os.FileInfo) error {
	if err := Copy(src, dst); err != nil {
		return err
	}
	if err := os.Chmod(dst, srcInfo.Mode()); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", dst, err)
	}
	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time on %s: %w", dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove source file %s after copy: %w", src, err)
	}
	return nil
}

func moveDirectory(src, dst string) error {
	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info for %s: %w", path, err)
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		if err := Copy(path, target); err != nil {
			return err
		}
		return os.Chmod(target, info.Mode())
	})
	if err != nil {
		return err
	}

	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("failed to remove source directory %s after copy: %w", src, err)
	}
	return nil
}

// Copy copies the contents of srcFile to dstFile.
func Copy(srcFile, dstFile string) error {
	src, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy from %s to %s: %w", srcFile, dstFile, err)
	}
	return nil
}

// CreateFilePerm creates a new file with the specified permissions.
func CreateFilePerm(name string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
}

// Exists reports whether path exists, following symlinks.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsRegularFile reports whether path exists and is a regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
