// Package kernel manages the Jupyter kernel specs that point at Blender
// installations: listing them, registering a new one through the kernel
// installer module and removing the ones this tool created.
package kernel

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/command"
	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/fsutil"
)

const (
	// DefaultTag marks kernels registered by this tool.
	DefaultTag = "bl_notebook"
	// DefaultInstallerModule is run with the host interpreter to write a kernel spec.
	DefaultInstallerModule = "blender_notebook"
	// SpecFile is the kernel spec file inside a kernel directory.
	SpecFile = "kernel.json"
)

var (
	managedNameRe = regexp.MustCompile(`(?i)^blender[\d_-]`)
	unsafeNameRe  = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)
)

// Kernel is an entry of the kernels directory.
type Kernel struct {
	Name        string
	Directory   string
	DisplayName string
	Tags        []string
}

// HasTag reports whether tag is one of the kernel's comma separated tags.
func (k Kernel) HasTag(tag string) bool {
	for _, t := range k.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type spec struct {
	DisplayName string `json:"display_name"`
	Tag         string `json:"tag"`
}

// Manager operates on <DataDir>/kernels.
type Manager struct {
	DataDir         string
	Tag             string
	Python          string
	InstallerModule string
	Runner          command.Runner
	// DryRun logs removals instead of performing them. Commands are
	// routed through Runner, which has its own dry-run handling.
	DryRun bool
}

// NewManager returns a manager for dataDir, or the Jupyter default when it is empty.
func NewManager(dataDir string, runner command.Runner, dryRun bool) *Manager {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	return &Manager{
		DataDir:         fsutil.ExpandPath(dataDir),
		Tag:             DefaultTag,
		Python:          DefaultPython(),
		InstallerModule: DefaultInstallerModule,
		Runner:          runner,
		DryRun:          dryRun,
	}
}

// Root is the kernels directory.
func (m *Manager) Root() string {
	return filepath.Join(m.DataDir, "kernels")
}

// List returns the kernels sorted by name. A missing kernels directory is empty.
func (m *Manager) List() ([]Kernel, error) {
	entries, err := os.ReadDir(m.Root())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", m.Root())
	}

	kernels := make([]Kernel, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		k := Kernel{Name: entry.Name(), Directory: filepath.Join(m.Root(), entry.Name())}
		if s, err := readSpec(filepath.Join(k.Directory, SpecFile)); err == nil {
			k.DisplayName = s.DisplayName
			k.Tags = splitTags(s.Tag)
		} else if !os.IsNotExist(err) {
			logger.Debug("unreadable kernel spec", logger.Fields{"kernel": k.Name, "error": err.Error()})
		}
		kernels = append(kernels, k)
	}
	sort.Slice(kernels, func(i, j int) bool { return kernels[i].Name < kernels[j].Name })
	return kernels, nil
}

// Remove deletes the kernel directory name.
func (m *Manager) Remove(name string, ignoreMissing bool) error {
	path := filepath.Join(m.Root(), name)
	if m.DryRun {
		logger.Info("(DRY-RUN) Remove: " + path)
	} else {
		logger.Debug("Remove: " + path)
	}

	if !fsutil.IsDir(path) {
		if ignoreMissing {
			return nil
		}
		err := fmt.Errorf("kernel does not exist: %s: %w", path, errors.ErrKernelNotFound)
		if m.DryRun {
			logger.Error(err.Error())
			return nil
		}
		return err
	}
	if m.DryRun {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return errors.Wrapf(err, "can not delete %s", path)
	}
	return nil
}

// RemoveAll removes every blender kernel carrying the manager's tag and
// returns the names it removed.
func (m *Manager) RemoveAll() ([]string, error) {
	kernels, err := m.List()
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, k := range kernels {
		if !managedNameRe.MatchString(k.Name) || !k.HasTag(m.Tag) {
			continue
		}
		if err := m.Remove(k.Name, true); err != nil {
			return removed, err
		}
		removed = append(removed, k.Name)
	}
	return removed, nil
}

// Install registers a kernel named name for the Blender executable and makes
// sure ipykernel is importable by the bundled python.
func (m *Manager) Install(ctx context.Context, name, python, executable string) (string, error) {
	name = SanitizeName(name)
	err := m.Runner.Run(ctx, m.Python, "-m", m.InstallerModule, "install",
		"--kernel-name", name,
		"--kernel-dir", m.Root(),
		"--blender-exec", executable,
		"--tag", m.Tag)
	if err != nil {
		return "", errors.Wrapf(err, "installing kernel %s", name)
	}

	if _, err := m.Runner.Output(ctx, python, "-c", "import ipykernel"); err == nil {
		return name, nil
	}
	logger.Info("Installing ipykernel...")
	if err := m.Runner.Run(ctx, python, "-m", "pip", "install", "--no-warn-script-location", "ipykernel"); err != nil {
		return "", errors.Wrapf(err, "installing ipykernel for %s", python)
	}
	return name, nil
}

// SanitizeName replaces characters that are not allowed in kernel names with "-".
func SanitizeName(name string) string {
	return unsafeNameRe.ReplaceAllString(name, "-")
}

// DefaultDataDir is $JUPYTER_DATA_DIR, or the per-OS Jupyter data directory.
func DefaultDataDir() string {
	if dir := os.Getenv("JUPYTER_DATA_DIR"); dir != "" {
		return dir
	}
	return dataDirFor(runtime.GOOS)
}

func dataDirFor(goos string) string {
	switch goos {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "jupyter")
		}
		return fsutil.ExpandPath("~/AppData/Roaming/jupyter")
	case "darwin":
		return fsutil.ExpandPath("~/Library/Jupyter")
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "jupyter")
		}
		return fsutil.ExpandPath("~/.local/share/jupyter")
	}
}

// DefaultPython is the interpreter name used to run the installer module.
func DefaultPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

func readSpec(path string) (spec, error) {
	var s spec
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("%s: %w: %w", path, errors.ErrMalformedInput, err)
	}
	return s, nil
}

func splitTags(tag string) []string {
	var tags []string
	for _, t := range strings.Split(tag, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
