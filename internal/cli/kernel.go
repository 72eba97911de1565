package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/spf13/cobra"
)

// NewKernelCmd creates the kernel command with subcommands.
func NewKernelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kernel",
		Short: "Manage notebook kernels",
		Long:  "List, install and remove the Jupyter kernels that run Blender",
	}

	cmd.AddCommand(
		newKernelListCmd(),
		newKernelInstallCmd(),
		newKernelRemoveCmd(),
		newKernelCleanCmd(),
	)

	return cmd
}

func newKernelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List kernels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKernelList(cmd.OutOrStdout())
		},
	}
}

func newKernelInstallCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install a kernel for the resolved Blender",
		Long: `Register a kernel that runs the resolved Blender. The kernel is named after
the installation directory unless --name is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKernelInstall(cmd.Context(), cmd.ErrOrStderr(), name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Kernel name (default: installation directory name)")

	return cmd
}

func newKernelRemoveCmd() *cobra.Command {
	var ignoreMissing bool

	cmd := &cobra.Command{
		Use:   "remove [NAME]",
		Short: "Remove a kernel",
		Long: `Remove the kernel NAME, or the kernel of the resolved Blender when no name
is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runKernelRemove(cmd.Context(), name, ignoreMissing)
		},
	}

	cmd.Flags().BoolVar(&ignoreMissing, "ignore-missing", false, "Do not fail when the kernel does not exist")

	return cmd
}

func newKernelCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove all kernels created by blnotebook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKernelClean(cmd.ErrOrStderr())
		},
	}
}

func runKernelList(out io.Writer) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	kernels, err := s.kernels.List()
	if err != nil {
		return err
	}
	for _, k := range kernels {
		if !Opts.Verbose {
			_, _ = fmt.Fprintln(out, k.Directory)
			continue
		}
		name := k.Name
		if k.HasTag(s.kernels.Tag) {
			name = color.CyanString(name)
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", name, k.DisplayName, strings.Join(k.Tags, ","), k.Directory)
	}
	return nil
}

func runKernelInstall(ctx context.Context, errOut io.Writer, name string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	a, err := s.resolveApp(ctx)
	if err != nil {
		return err
	}
	if name == "" {
		name = a.Name()
	}
	logger.Debug("Target kernel root is " + s.kernels.Root())

	installed, err := s.kernels.Install(ctx, name, a.PythonExecutable(), a.Executable())
	if err != nil {
		return err
	}
	if !Opts.DryRun {
		_, _ = fmt.Fprintln(errOut, color.GreenString("Kernel %s installed for Blender %s", installed, a.Version()))
	}
	return nil
}

func runKernelRemove(ctx context.Context, name string, ignoreMissing bool) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	if name == "" {
		a, err := s.resolveApp(ctx)
		if err != nil {
			return err
		}
		name = a.Name()
	}
	return s.kernels.Remove(name, ignoreMissing)
}

func runKernelClean(errOut io.Writer) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	removed, err := s.kernels.RemoveAll()
	for _, name := range removed {
		_, _ = fmt.Fprintf(errOut, "Removed kernel %s\n", name)
	}
	return err
}
