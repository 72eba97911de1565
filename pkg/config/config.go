// Package config provides configuration management for blnotebook.
// It loads YAML or TOML configuration files, fills in per-platform defaults
// (which BL_NOTEBOOK_* environment variables may override), validates the
// result and saves it back atomically.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/fsutil"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings" toml:"settings"`
	Blender  Blender  `yaml:"blender" toml:"blender"`
	Kernel   Kernel   `yaml:"kernel" toml:"kernel"`
	Hooks    Hooks    `yaml:"hooks" toml:"hooks"`
}

// Settings represents general application settings.
type Settings struct {
	CacheDir    string   `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty"`
	CacheTTL    Duration `yaml:"cache_ttl" toml:"cache_ttl"`
	HTTPTimeout Duration `yaml:"http_timeout" toml:"http_timeout"`
	LogLevel    string   `yaml:"log_level" toml:"log_level"`   // debug, info, warn, error
	LogFormat   string   `yaml:"log_format" toml:"log_format"` // text, json
}

// Blender holds where installations are searched for and fetched from.
type Blender struct {
	// Version is the default version used when none is given on the command line.
	Version     string `yaml:"version" toml:"version"`
	AppsRoot    string `yaml:"apps_root,omitempty" toml:"apps_root,omitempty"`
	DownloadDir string `yaml:"download_dir,omitempty" toml:"download_dir,omitempty"`
	// SearchPath is a ";" separated list of directories holding blender* installations.
	SearchPath   string `yaml:"search_path,omitempty" toml:"search_path,omitempty"`
	Mirror       string `yaml:"mirror,omitempty" toml:"mirror,omitempty"`
	Strict       bool   `yaml:"strict" toml:"strict"`
	TarExtractor string `yaml:"tar_extractor" toml:"tar_extractor"` // external, builtin
}

// Kernel configures the notebook kernel registration.
type Kernel struct {
	DataDir         string `yaml:"data_dir,omitempty" toml:"data_dir,omitempty"`
	Python          string `yaml:"python,omitempty" toml:"python,omitempty"`
	InstallerModule string `yaml:"installer_module" toml:"installer_module"`
	Tag             string `yaml:"tag" toml:"tag"`
}

// Hooks configures the post-install scripts.
type Hooks struct {
	Dir         string   `yaml:"dir,omitempty" toml:"dir,omitempty"`
	PostInstall []string `yaml:"post_install,omitempty" toml:"post_install,omitempty"`
}

// Default configuration values.
const (
	// EnvPrefix prefixes the environment variables read by the loader.
	EnvPrefix = "BL_NOTEBOOK_"

	// DefaultCacheTTL is how long a downloaded release index stays fresh.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultHTTPTimeout bounds the wait for response headers.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMirror is the release listing used when none is configured.
	DefaultMirror = "https://mirrors.ocf.berkeley.edu/blender/release/"

	DefaultInstallerModule = "blender_notebook"
	DefaultKernelTag       = "bl_notebook"

	TarExtractorExternal = "external"
	TarExtractorBuiltin  = "builtin"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return defaultConfigFor(runtime.GOOS)
}

func defaultConfigFor(goos string) *Config {
	cfg := &Config{
		Settings: Settings{
			CacheDir:    envOr("CACHE_DIR", "~/.cache/"+fsutil.AppName),
			CacheTTL:    Duration(DefaultCacheTTL),
			HTTPTimeout: Duration(DefaultHTTPTimeout),
			LogLevel:    "info",
			LogFormat:   "text",
		},
		Blender: Blender{
			AppsRoot:     envOr("APP_DIR", defaultAppsRoot(goos)),
			SearchPath:   envOr("SEARCH_PATH", ""),
			Mirror:       envOr("MIRROR", DefaultMirror),
			TarExtractor: TarExtractorExternal,
		},
		Kernel: Kernel{
			InstallerModule: DefaultInstallerModule,
			Tag:             DefaultKernelTag,
		},
	}
	if cfg.Blender.SearchPath == "" {
		cfg.Blender.SearchPath = defaultSearchPath(goos, cfg.Blender.AppsRoot)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		cfg.Hooks.Dir = filepath.Join(dir, fsutil.AppName, "hooks")
	}
	return cfg
}

func defaultAppsRoot(goos string) string {
	if goos == "windows" {
		return `C:\app\blender`
	}
	return "~/.local/blender"
}

func defaultSearchPath(goos, appsRoot string) string {
	if goos == "windows" {
		return appsRoot + `;C:\Program Files\Blender Foundation`
	}
	return appsRoot + ";~/.local/bin;/usr/local/bin;/usr/bin"
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + name)); v != "" {
		return v
	}
	return fallback
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
// Files ending in .toml are parsed as TOML, everything else as YAML.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(fsutil.ExpandPath(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}

	return ParseConfig(data, formatOf(absPath))
}

// Format is the serialization of a configuration file.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// ParseConfig decodes data, applies defaults and validates the result.
func ParseConfig(data []byte, format Format) (*Config, error) {
	var config Config
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &config)
	default:
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigParse, err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Encode serializes the configuration.
func (c *Config) Encode(format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(c); err != nil {
			return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(YAMLIndent)
		if err := enc.Encode(c); err != nil {
			return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
		}
		_ = enc.Close()
	}
	return buf.Bytes(), nil
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(fsutil.ExpandPath(path))
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	data, err := c.Encode(formatOf(absPath))
	if err != nil {
		return err
	}

	tempPath := absPath + ".tmp"
	if err := os.WriteFile(tempPath, data, fsutil.FileModeDefault); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	s := c.Settings
	if s.HTTPTimeout < 0 {
		return fmt.Errorf("%w: %w", errors.ErrConfigValidation, errors.ErrHTTPTimeoutNegative)
	}
	if s.CacheTTL < 0 {
		return fmt.Errorf("%w: %w", errors.ErrConfigValidation, errors.ErrCacheTTLNegative)
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errors.InvalidLogLevel(s.LogLevel)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return errors.InvalidLogFormat(s.LogFormat)
	}
	switch c.Blender.TarExtractor {
	case TarExtractorExternal, TarExtractorBuiltin:
	default:
		return errors.InvalidTarExtractor(c.Blender.TarExtractor)
	}
	return nil
}

// GetDefaultConfigPath returns $BL_NOTEBOOK_CONFIG or the per-user config file.
func GetDefaultConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvPrefix + "CONFIG")); p != "" {
		return fsutil.ExpandPath(p), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, fsutil.AppName, "config.yaml"), nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.CacheDir == "" {
		c.Settings.CacheDir = defaults.Settings.CacheDir
	}
	if c.Settings.CacheTTL == 0 {
		c.Settings.CacheTTL = defaults.Settings.CacheTTL
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.LogFormat == "" {
		c.Settings.LogFormat = defaults.Settings.LogFormat
	}
	if c.Blender.AppsRoot == "" {
		c.Blender.AppsRoot = defaults.Blender.AppsRoot
	}
	if c.Blender.SearchPath == "" {
		if env := envOr("SEARCH_PATH", ""); env != "" {
			c.Blender.SearchPath = env
		} else {
			c.Blender.SearchPath = defaultSearchPath(runtime.GOOS, c.Blender.AppsRoot)
		}
	}
	if c.Blender.Mirror == "" {
		c.Blender.Mirror = defaults.Blender.Mirror
	}
	if c.Blender.TarExtractor == "" {
		c.Blender.TarExtractor = defaults.Blender.TarExtractor
	}
	if c.Kernel.InstallerModule == "" {
		c.Kernel.InstallerModule = defaults.Kernel.InstallerModule
	}
	if c.Kernel.Tag == "" {
		c.Kernel.Tag = defaults.Kernel.Tag
	}
	if c.Hooks.Dir == "" {
		c.Hooks.Dir = defaults.Hooks.Dir
	}
}

// AppsRoot is the expanded installation directory.
func (c *Config) AppsRoot() string {
	return fsutil.ExpandPath(c.Blender.AppsRoot)
}

// DownloadDir is the expanded archive directory, defaulting to AppsRoot.
func (c *Config) DownloadDir() string {
	if c.Blender.DownloadDir == "" {
		return c.AppsRoot()
	}
	return fsutil.ExpandPath(c.Blender.DownloadDir)
}

// CacheDir is the expanded cache directory.
func (c *Config) CacheDir() string {
	return fsutil.ExpandPath(c.Settings.CacheDir)
}
