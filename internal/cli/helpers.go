package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/app"
	"github.com/glorpus-work/blnotebook/pkg/archive"
	"github.com/glorpus-work/blnotebook/pkg/command"
	"github.com/glorpus-work/blnotebook/pkg/config"
	"github.com/glorpus-work/blnotebook/pkg/download"
	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/hooks"
	"github.com/glorpus-work/blnotebook/pkg/kernel"
	"github.com/glorpus-work/blnotebook/pkg/orchestrator"
	"github.com/glorpus-work/blnotebook/pkg/platform"
	"github.com/glorpus-work/blnotebook/pkg/repository"
	"github.com/glorpus-work/blnotebook/pkg/version"
)

// Options holds the persistent flags. The main package binds them.
type Options struct {
	ConfigPath string
	Verbose    bool
	NoColor    bool
	LogFormat  string

	BlenderVersion string
	SearchPath     string
	Mirror         string
	Architectures  []string
	OSTypes        []string
	Ext            string
	Strict         bool
	Remote         bool
	DryRun         bool
}

// Opts will be set by the main package.
var Opts = &Options{}

// Setup initializes logging and colors from the configuration and flags.
// It runs before every command. An unreadable configuration is reported
// by the command itself, so Setup falls back to the defaults.
func Setup() error {
	if Opts.NoColor {
		color.NoColor = true
	}
	cfg, err := loadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	level := cfg.Settings.LogLevel
	if Opts.Verbose {
		level = "debug"
	}
	format := cfg.Settings.LogFormat
	if Opts.LogFormat != "" {
		format = Opts.LogFormat
	}
	switch logger.OutputFormat(format) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return errors.InvalidLogFormat(format)
	}
	logger.InitLogger(level, logger.OutputFormat(format))
	return nil
}

// loadConfig loads the configuration file and applies the flag overrides.
func loadConfig() (*config.Config, error) {
	configPath := getConfigPath()
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if Opts.SearchPath != "" {
		cfg.Blender.SearchPath = Opts.SearchPath
	}
	if Opts.Mirror != "" {
		cfg.Blender.Mirror = Opts.Mirror
	}
	if Opts.Strict {
		cfg.Blender.Strict = true
	}
	return cfg, nil
}

func getConfigPath() string {
	if Opts.ConfigPath != "" {
		return Opts.ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err.Error()})
		return ""
	}
	return defaultPath
}

// session wires the repositories, installers and kernel manager for one command.
type session struct {
	cfg     *config.Config
	runner  *command.ExecRunner
	loader  *app.Loader
	local   *repository.Local
	remote  *repository.Remote
	hooks   *hooks.Manager
	kernels *kernel.Manager
}

func newSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	runner := command.NewExecRunner(Opts.DryRun, Opts.Verbose)
	loader := app.NewLoader(runner)
	s := &session{cfg: cfg, runner: runner, loader: loader}

	s.local = repository.NewLocal(cfg.Blender.SearchPath, loader, cfg.Blender.Strict)
	logger.Debug("Blender search path is "+cfg.Blender.SearchPath)

	dl := download.NewManager(cfg.Settings.HTTPTimeout.Std(), "blnotebook/"+Version)
	s.remote = repository.NewRemote(repository.RemoteOptions{
		BaseURL:     cfg.Blender.Mirror,
		AppsRoot:    cfg.AppsRoot(),
		DownloadDir: cfg.DownloadDir(),
		CacheDir:    cfg.CacheDir(),
		CacheTTL:    cfg.Settings.CacheTTL.Std(),
		TarMode:     archive.TarMode(cfg.Blender.TarExtractor),
		Progress: func(name string) download.ProgressFunc {
			return download.NewProgressPrinter(os.Stderr, name)
		},
	}, dl, archive.NewManager(runner))

	s.hooks = hooks.NewManager()
	if err := hooks.LoadFromDir(s.hooks, cfg.Hooks.Dir); err != nil {
		return nil, err
	}
	if err := hooks.LoadFiles(s.hooks, hooks.PostInstall, cfg.Hooks.PostInstall); err != nil {
		return nil, err
	}

	s.kernels = kernel.NewManager(cfg.Kernel.DataDir, runner, Opts.DryRun)
	if cfg.Kernel.Python != "" {
		s.kernels.Python = cfg.Kernel.Python
	}
	s.kernels.InstallerModule = cfg.Kernel.InstallerModule
	s.kernels.Tag = cfg.Kernel.Tag
	return s, nil
}

// versionSpec returns the requested version text: the --blender-version flag,
// then a version file in the working directory or its parents, then the config.
func (s *session) versionSpec() (string, error) {
	if Opts.BlenderVersion != "" {
		return Opts.BlenderVersion, nil
	}
	wd, err := os.Getwd()
	if err == nil {
		v, path, err := config.FindVersionFile(wd)
		if err != nil {
			return "", err
		}
		if v != "" {
			logger.Debug("version file found", logger.Fields{"path": path, "version": v})
			return v, nil
		}
	}
	return s.cfg.Blender.Version, nil
}

// criteria builds the selection criteria from the flags. Without --arch and
// --ostype the host platform is preferred.
func (s *session) criteria(spec string) (repository.Criteria, error) {
	var c repository.Criteria

	if spec != "" {
		v, err := version.Parse(spec)
		if err != nil {
			return c, err
		}
		c.Version = &v
	}

	archs, err := platform.ParseArchitectures(Opts.Architectures)
	if err != nil {
		return c, fmt.Errorf("bad option value for --arch: %w", err)
	}
	if len(archs) == 0 {
		if host := platform.HostArchitecture(); host != platform.AnyArch {
			archs = []platform.Architecture{host}
		}
	}
	c.Architectures = archs

	ostypes, err := platform.ParseOSTypes(Opts.OSTypes)
	if err != nil {
		return c, fmt.Errorf("bad option value for --ostype: %w", err)
	}
	if len(ostypes) == 0 {
		if host := platform.HostOSType(); host != platform.AnyOS {
			ostypes = []platform.OSType{host}
		}
	}
	c.OSTypes = ostypes

	c.ExtPattern = Opts.Ext
	if c.ExtPattern == "" {
		c.ExtPattern = platform.JoinExtPatterns(ostypes)
	}
	return c, nil
}

// resolve finds or installs the requested Blender. installed reports whether
// a new installation was made. A dry run that would install returns a nil app.
func (s *session) resolve(ctx context.Context, allowRemote bool) (a *app.App, installed bool, err error) {
	spec, err := s.versionSpec()
	if err != nil {
		return nil, false, err
	}
	c, err := s.criteria(spec)
	if err != nil {
		return nil, false, err
	}

	orch := orchestrator.New(s.local, s.remote, s.remote, s.loader, orchestrator.Hooks{
		OnEvent: func(e orchestrator.Event) {
			switch e.Phase {
			case "downloading", "installing":
				logger.Info(fmt.Sprintf("%s: %s", e.Phase, e.Msg))
			case "done":
				installed = e.Msg != "dry-run"
			default:
				logger.Debug(fmt.Sprintf("%s: %s", e.Phase, e.Msg), logger.Fields{"id": e.ID})
			}
		},
	})
	if s.hooks.HasHook(hooks.PostInstall) {
		orch.PostInstall = s.hooks
	}

	a, err = orch.Resolve(ctx, orchestrator.Request{
		Criteria:    c,
		AllowRemote: allowRemote,
		DryRun:      Opts.DryRun,
		Strict:      s.cfg.Blender.Strict,
	})
	return a, installed, err
}

// resolveApp resolves an installation that must exist for the command to continue.
func (s *session) resolveApp(ctx context.Context) (*app.App, error) {
	a, _, err := s.resolve(ctx, Opts.Remote)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("(DRY-RUN) blender is not installed yet: %w", errors.ErrInstallationNotFound)
	}
	logger.Debug("Blender found: "+a.Executable())
	return a, nil
}
