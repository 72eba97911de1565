package cache

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/glorpus-work/blnotebook/internal/logger"
)

// Operation renders cache manager results for the command line.
type Operation struct {
	manager *Manager
}

// NewOperation creates a new cache operation instance.
func NewOperation(manager *Manager) *Operation {
	return &Operation{
		manager: manager,
	}
}

// Clean cleans the cache and returns a human-readable summary.
func (op *Operation) Clean(listings, archives bool) (string, error) {
	options := CleanOptions{
		Listings: listings,
		Archives: archives,
	}

	logger.Debug("Cleaning cache", logger.Fields{
		"listings": options.Listings,
		"archives": options.Archives,
	})

	result, err := op.manager.Clean(options)
	if err != nil {
		return "", fmt.Errorf("failed to clean cache: %w", err)
	}

	if result.TotalFreed == 0 && len(result.Removed) == 0 {
		return "No files were removed from the cache.", nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "Successfully cleaned cache. Freed %s of disk space.", formatBytes(result.TotalFreed))
	if result.ListingFreed > 0 {
		fmt.Fprintf(&msg, "\n- Listings: %s", formatBytes(result.ListingFreed))
	}
	if result.ArchiveFreed > 0 {
		fmt.Fprintf(&msg, "\n- Archives: %s", formatBytes(result.ArchiveFreed))
	}
	return msg.String(), nil
}

// Info returns a human-readable description of the cache.
func (op *Operation) Info() (string, error) {
	info, err := op.manager.Info()
	if err != nil {
		return "", fmt.Errorf("failed to get cache info: %w", err)
	}

	lastUpdated := "never"
	if !info.LastUpdated.IsZero() {
		lastUpdated = humanize.Time(info.LastUpdated)
	}

	return fmt.Sprintf(`Cache Information:
  Directory:      %s
  Downloads:      %s
  Total Size:     %s
  Listings:       %s (%d files)
  Archives:       %s (%d files)
  Last Updated:   %s`,
		info.Directory,
		info.DownloadDirectory,
		formatBytes(info.TotalSize),
		formatBytes(info.ListingSize),
		info.ListingFiles,
		formatBytes(info.ArchiveSize),
		info.ArchiveFiles,
		lastUpdated,
	), nil
}

// Directory returns the cache directory path.
func (op *Operation) Directory() string {
	return op.manager.Directory()
}

func formatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}
