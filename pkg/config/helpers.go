package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/glorpus-work/blnotebook/pkg/errors"
)

// VersionFileNames are looked up by FindVersionFile, in order.
var VersionFileNames = []string{".blender-version", ".blender_version"}

type field struct {
	get func(c *Config) string
	set func(c *Config, value string) error
}

func stringField(p func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, v string) error { *p(c) = v; return nil },
	}
}

func boolField(p func(c *Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*p(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid boolean value %q: %w", v, errors.ErrMalformedInput)
			}
			*p(c) = b
			return nil
		},
	}
}

func durationField(p func(c *Config) *Duration) field {
	return field{
		get: func(c *Config) string { return p(c).String() },
		set: func(c *Config, v string) error {
			if err := p(c).UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%w: %w", errors.ErrMalformedInput, err)
			}
			return nil
		},
	}
}

var fields = map[string]field{
	"settings.cache_dir":      stringField(func(c *Config) *string { return &c.Settings.CacheDir }),
	"settings.cache_ttl":      durationField(func(c *Config) *Duration { return &c.Settings.CacheTTL }),
	"settings.http_timeout":   durationField(func(c *Config) *Duration { return &c.Settings.HTTPTimeout }),
	"settings.log_level":      stringField(func(c *Config) *string { return &c.Settings.LogLevel }),
	"settings.log_format":     stringField(func(c *Config) *string { return &c.Settings.LogFormat }),
	"blender.version":         stringField(func(c *Config) *string { return &c.Blender.Version }),
	"blender.apps_root":       stringField(func(c *Config) *string { return &c.Blender.AppsRoot }),
	"blender.download_dir":    stringField(func(c *Config) *string { return &c.Blender.DownloadDir }),
	"blender.search_path":     stringField(func(c *Config) *string { return &c.Blender.SearchPath }),
	"blender.mirror":          stringField(func(c *Config) *string { return &c.Blender.Mirror }),
	"blender.strict":          boolField(func(c *Config) *bool { return &c.Blender.Strict }),
	"blender.tar_extractor":   stringField(func(c *Config) *string { return &c.Blender.TarExtractor }),
	"kernel.data_dir":         stringField(func(c *Config) *string { return &c.Kernel.DataDir }),
	"kernel.python":           stringField(func(c *Config) *string { return &c.Kernel.Python }),
	"kernel.installer_module": stringField(func(c *Config) *string { return &c.Kernel.InstallerModule }),
	"kernel.tag":              stringField(func(c *Config) *string { return &c.Kernel.Tag }),
	"hooks.dir":               stringField(func(c *Config) *string { return &c.Hooks.Dir }),
	"hooks.post_install": {
		get: func(c *Config) string { return strings.Join(c.Hooks.PostInstall, ",") },
		set: func(c *Config, v string) error {
			c.Hooks.PostInstall = nil
			for _, p := range strings.Split(v, ",") {
				if p = strings.TrimSpace(p); p != "" {
					c.Hooks.PostInstall = append(c.Hooks.PostInstall, p)
				}
			}
			return nil
		},
	},
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetValue sets a configuration value by its "section.key" name and
// validates the result. The configuration is left unchanged on error.
func (c *Config) SetValue(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrConfigUnknownKey, key)
	}
	updated := *c
	updated.Hooks.PostInstall = append([]string(nil), c.Hooks.PostInstall...)
	if err := f.set(&updated, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	*c = updated
	return nil
}

// GetValue returns the value of a "section.key" name as a string.
func (c *Config) GetValue(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", errors.ErrConfigUnknownKey, key)
	}
	return f.get(c), nil
}

// ToMap returns every key with its value, for display.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string, len(fields))
	for k, f := range fields {
		result[k] = f.get(c)
	}
	return result
}

// FindVersionFile looks for a version file in dir and each of its parents.
// It returns the trimmed contents and the file path, or two empty strings
// when none exists up to the filesystem root.
func FindVersionFile(dir string) (string, string, error) {
	d, err := filepath.Abs(dir)
	if err != nil {
		return "", "", errors.Wrapf(err, "resolving %s", dir)
	}
	for {
		for _, name := range VersionFileNames {
			p := filepath.Join(d, name)
			data, err := os.ReadFile(p)
			if err == nil {
				return strings.Trim(string(data), " \r\n\t"), p, nil
			}
			if !os.IsNotExist(err) {
				return "", "", errors.Wrapf(err, "reading %s", p)
			}
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", "", nil
		}
		d = parent
	}
}
