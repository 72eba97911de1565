package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [-- BLENDER_ARGS...]",
		Short: "Run the resolved Blender",
		Long: `Resolve the requested Blender and run its executable with the given
arguments. Use "--" to pass flags through to Blender.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlender(cmd.Context(), args)
		},
	}

	return cmd
}

func runBlender(ctx context.Context, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	a, err := s.resolveApp(ctx)
	if err != nil {
		return err
	}
	return s.runner.Run(ctx, a.Executable(), args...)
}
