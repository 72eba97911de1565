package cli

import (
	"fmt"
	"io"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/cache"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command with subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the download cache",
		Long:  "Clean and show information about the cached release listing and downloaded archives",
	}

	cmd.AddCommand(
		newCacheCleanCmd(),
		newCacheInfoCmd(),
		newCacheDirCmd(),
	)

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var listings, archives bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the cache",
		Long:  "Remove the cached release listing and downloaded archives. Installations are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheClean(cmd.OutOrStdout(), listings, archives)
		},
	}

	cmd.Flags().BoolVar(&listings, "listings", false, "Clean only the cached release listing")
	cmd.Flags().BoolVar(&archives, "archives", false, "Clean only downloaded archives")

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheInfo(cmd.OutOrStdout())
		},
	}
}

func newCacheDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Show cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheDir(cmd.OutOrStdout())
		},
	}
}

func newCacheOperation() (*cache.Operation, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cache.NewOperation(cache.NewManager(cfg.CacheDir(), cfg.DownloadDir())), nil
}

func runCacheClean(out io.Writer, listings, archives bool) error {
	op, err := newCacheOperation()
	if err != nil {
		return err
	}
	if Opts.DryRun {
		logger.Info("(DRY-RUN) Clean cache: " + op.Directory())
		return nil
	}

	msg, err := op.Clean(listings, archives)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, msg)
	return nil
}

func runCacheInfo(out io.Writer) error {
	op, err := newCacheOperation()
	if err != nil {
		return err
	}

	info, err := op.Info()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, info)
	return nil
}

func runCacheDir(out io.Writer) error {
	op, err := newCacheOperation()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, op.Directory())
	return nil
}
