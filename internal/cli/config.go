package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/config"
	"github.com/glorpus-work/blnotebook/pkg/fsutil"
	"github.com/glorpus-work/blnotebook/pkg/hooks"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and modify blnotebook configuration settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
		newConfigGetCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration settings, including command line overrides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	return cmd
}

// Number of arguments expected by the set command.
const setCommandArgs = 2

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration key such as blender.mirror or settings.cache_ttl to a specific value",
		Args:  cobra.ExactArgs(setCommandArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Get a configuration value",
		Long:  "Get the value of a specific configuration key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long:  "Create a default configuration file and a post-install hook template",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")

	return cmd
}

func runConfigShow(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tabWriter := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "SETTING\tVALUE")
	_, _ = fmt.Fprintln(tabWriter, "-------\t-----")

	values := cfg.ToMap()
	for _, key := range config.Keys() {
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\n", key, values[key])
	}

	_ = tabWriter.Flush()

	_, _ = fmt.Fprintf(out, "\nConfiguration file: %s\n", getConfigPath())
	return nil
}

func runConfigSet(key, value string) error {
	configPath := getConfigPath()
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.SetValue(key, value); err != nil {
		return fmt.Errorf("failed to set configuration value: %w", err)
	}

	if err := cfg.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Configuration updated", logger.Fields{"key": key, "value": value})
	return nil
}

func runConfigGet(out io.Writer, key string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	value, err := cfg.GetValue(key)
	if err != nil {
		return fmt.Errorf("failed to get configuration value: %w", err)
	}

	_, _ = fmt.Fprintln(out, value)
	return nil
}

func runConfigInit(force bool) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", configPath)
	}

	defaultConfig := config.DefaultConfig()
	if err := defaultConfig.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save default configuration: %w", err)
	}
	logger.Success("Configuration file created", logger.Fields{"path": configPath})

	if defaultConfig.Hooks.Dir == "" {
		return nil
	}
	hookPath := filepath.Join(defaultConfig.Hooks.Dir, string(hooks.PostInstall)+hooks.HookFileExtension+".example")
	if _, err := os.Stat(hookPath); err == nil {
		return nil
	}
	if err := fsutil.EnsureDir(defaultConfig.Hooks.Dir); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}
	if err := os.WriteFile(hookPath, []byte(hooks.Template(hooks.PostInstall)), fsutil.FileModeDefault); err != nil {
		return fmt.Errorf("failed to write hook template: %w", err)
	}
	logger.Info("Hook template written", logger.Fields{"path": hookPath})
	return nil
}
