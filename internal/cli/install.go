package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install Blender",
		Long: `Make sure a Blender matching the requested version, architecture and
operating system is available, downloading and unpacking a release from the
mirror when none is installed. Implies --remote.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd.Context(), cmd.ErrOrStderr())
		},
	}

	return cmd
}

func runInstall(ctx context.Context, errOut io.Writer) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	a, installed, err := s.resolve(ctx, true)
	if err != nil {
		return err
	}
	if a == nil {
		return nil
	}

	switch {
	case !a.IsOK():
		return fmt.Errorf("failed to install blender %s: %w", a.Version(), a.Check())
	case installed:
		_, _ = fmt.Fprintln(errOut, color.GreenString("Blender %s installed into %s", a.Version(), a.Directory()))
	default:
		_, _ = fmt.Fprintf(errOut, "Blender %s is already installed.\n", a.Version())
	}
	return nil
}
