package cli

import (
	"fmt"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/config"
	"github.com/glorpus-work/blnotebook/pkg/version"
	"github.com/spf13/cobra"
)

// NewUseCmd creates the use command.
func NewUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use VERSION",
		Short: "Set the default Blender version",
		Long: `Store VERSION as the default Blender version in the configuration file.
A .blender-version file in the working directory or a parent still takes
precedence, and --blender-version overrides both.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runUse(args[0])
		},
	}

	return cmd
}

func runUse(spec string) error {
	v, err := version.Parse(spec)
	if err != nil {
		return err
	}

	configPath := getConfigPath()
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.SetValue("blender.version", v.Original()); err != nil {
		return err
	}

	if err := cfg.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Default blender version updated", logger.Fields{"version": v.Original(), "path": configPath})
	return nil
}
