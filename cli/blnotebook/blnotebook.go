package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/glorpus-work/blnotebook/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	// Reset so that repeated construction in tests starts from clean options.
	*cli.Opts = cli.Options{}
	opts := cli.Opts

	cmd := &cobra.Command{
		Use:   "blnotebook",
		Short: "Find, install and run Blender for notebooks",
		Long: `blnotebook resolves a Blender installation by version and platform with:
- Local search through the configured search path
- Remote lookup and installation from a Blender download mirror
- Jupyter kernels that run the resolved Blender`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return cli.Setup()
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (default: auto-detect)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	flags.StringVar(&opts.LogFormat, "log-format", "", "log format (text, json)")

	// Resolution flags
	flags.StringVarP(&opts.BlenderVersion, "blender-version", "b", "", "Blender version to resolve, e.g. 4.1 or 3.6.5")
	flags.StringVarP(&opts.SearchPath, "search-path", "s", "", "list of directories searched for local installations")
	flags.StringVarP(&opts.Mirror, "mirror", "m", "", "base URL of the Blender download mirror")
	flags.StringSliceVar(&opts.Architectures, "arch", nil, "preferred architectures (x64, x32, any)")
	flags.StringSliceVar(&opts.OSTypes, "ostype", nil, "preferred operating systems (windows, mac, linux, any)")
	flags.StringVar(&opts.Ext, "ext", "", "archive extension pattern for remote files")
	flags.BoolVar(&opts.Strict, "strict", false, "probe executables when classifying local installations")
	flags.BoolVarP(&opts.Remote, "remote", "r", false, "look up the download mirror when nothing matches locally")
	flags.BoolVarP(&opts.DryRun, "dry-run", "n", false, "print actions without changing anything")

	// Add subcommands
	cmd.AddCommand(
		cli.NewListCmd(),
		cli.NewInstallCmd(),
		cli.NewShowCmd(),
		cli.NewRunCmd(),
		cli.NewKernelCmd(),
		cli.NewUseCmd(),
		cli.NewConfigCmd(),
		cli.NewCacheCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
