package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	var directory, python bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved Blender installation",
		Long: `Resolve the requested Blender and print its details. With --directory or
--python only that path is printed, which is convenient in scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd.Context(), cmd.OutOrStdout(), directory, python)
		},
	}

	cmd.Flags().BoolVarP(&directory, "directory", "d", false, "Show the installation directory")
	cmd.Flags().BoolVarP(&python, "python", "p", false, "Show the bundled python executable")

	return cmd
}

func runShow(ctx context.Context, out io.Writer, directory, python bool) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	a, err := s.resolveApp(ctx)
	if err != nil {
		return err
	}

	switch {
	case directory:
		_, _ = fmt.Fprintln(out, a.Directory())
	case python:
		_, _ = fmt.Fprintln(out, a.PythonExecutable())
	default:
		tw := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
		_, _ = fmt.Fprintf(tw, "Name\t%s\n", a.Name())
		_, _ = fmt.Fprintf(tw, "Version\t%s\n", a.Version())
		_, _ = fmt.Fprintf(tw, "OS type\t%s\n", a.OSType().Name())
		_, _ = fmt.Fprintf(tw, "Architecture\t%s\n", a.Architecture().Name())
		_, _ = fmt.Fprintf(tw, "Directory\t%s\n", a.Directory())
		_, _ = fmt.Fprintf(tw, "Executable\t%s\n", a.Executable())
		_, _ = fmt.Fprintf(tw, "Python\t%s\n", a.PythonExecutable())
		_, _ = fmt.Fprintf(tw, "Kernel\t%s\n", filepath.Join(s.kernels.Root(), a.Name()))
		_ = tw.Flush()
	}
	return nil
}
