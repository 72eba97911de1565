// Package app models a Blender installation on disk: its main executable,
// the Python interpreter bundled next to it, and the version, architecture
// and operating system it was built for.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/command"
	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/fsutil"
	"github.com/glorpus-work/blnotebook/pkg/platform"
	"github.com/glorpus-work/blnotebook/pkg/version"
	goversion "github.com/hashicorp/go-version"
)

// ProbeScript prints the machine, system and executable of the running interpreter.
const ProbeScript = "import sys, platform as p; print(p.machine()); print(p.system()); print(sys.executable)"

// Spec describes an installation before its interpreter has been located.
type Spec struct {
	// Path is the main executable; its parent directory is the installation root.
	Path         string
	Version      version.Version
	Architecture platform.Architecture
	OSType       platform.OSType
	// Strict asks for the architecture and OS to be confirmed by running the
	// bundled interpreter. It is implied when either of them is AnyArch/AnyOS.
	Strict bool
}

// App is a resolved Blender installation. Values are immutable; Refine returns a copy.
type App struct {
	path       string
	directory  string
	name       string
	version    version.Version
	arch       platform.Architecture
	ostype     platform.OSType
	strict     bool
	python     string
	executable string
	hostOS     platform.OSType
}

// New builds the provisional record for spec: it derives the installation
// directory and locates the bundled Python interpreter, but runs nothing.
// hostOS decides executable naming when spec.OSType is AnyOS.
func New(spec Spec, hostOS platform.OSType) (*App, error) {
	if strings.TrimSpace(spec.Path) == "" {
		return nil, fmt.Errorf("invalid path name %q: %w", spec.Path, errors.ErrMalformedInput)
	}
	if spec.Version.IsZero() {
		return nil, fmt.Errorf("missing version for %s: %w", spec.Path, errors.ErrMalformedInput)
	}

	p, err := filepath.Abs(fsutil.ExpandPath(spec.Path))
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", spec.Path)
	}

	a := &App{
		path:      p,
		directory: filepath.Dir(p),
		version:   spec.Version,
		arch:      spec.Architecture,
		ostype:    spec.OSType,
		strict:    spec.Strict || spec.Architecture == platform.AnyArch || spec.OSType == platform.AnyOS,
		hostOS:    hostOS,
	}
	a.name = filepath.Base(a.directory)

	a.python, err = FindPython(a.PythonBinDir(), platform.TargetsWindows(a.ostype, hostOS))
	if err != nil {
		return nil, err
	}
	a.executable = platform.ExecutableName(a.path, a.ostype, hostOS)
	return a, nil
}

// Refine confirms architecture, OS and interpreter path by running the bundled
// interpreter and returns the corrected copy. If the interpreter cannot be run,
// a warning is logged and the provisional values are kept.
func (a *App) Refine(ctx context.Context, runner command.Runner) (*App, error) {
	c := *a

	out, err := runner.Output(ctx, a.python, "-c", ProbeScript)
	if err != nil {
		logger.Warn(fmt.Sprintf("%s: %v", a.directory, err), logger.Fields{"python": a.python})
		return &c, nil
	}
	lines := strings.Split(strings.ReplaceAll(strings.TrimSpace(string(out)), "\r\n", "\n"), "\n")
	if len(lines) < 3 {
		logger.Warn(fmt.Sprintf("%s: unexpected interpreter output %q", a.directory, string(out)), logger.Fields{"python": a.python})
		return &c, nil
	}

	arch, err := platform.ParseArchitecture(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: probing architecture", a.directory)
	}
	ostype, err := platform.ParseOSType(strings.TrimSpace(lines[1]))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: probing operating system", a.directory)
	}

	c.arch = arch
	c.ostype = ostype
	if exe := strings.TrimSpace(lines[2]); exe != "" {
		c.python = exe
	}
	c.executable = platform.ExecutableName(c.path, c.ostype, c.hostOS)
	return &c, nil
}

// PythonBinDir is <directory>/<major.minor>/python/bin.
func (a *App) PythonBinDir() string {
	return filepath.Join(a.directory, a.version.MajorMinor(), "python", "bin")
}

// Path returns the main executable path as given (absolute, without ".exe" fixup).
func (a *App) Path() string { return a.path }

// Directory returns the installation root.
func (a *App) Directory() string { return a.directory }

// Name returns the base name of the installation root, e.g. "blender-3.6.2-linux-x64".
func (a *App) Name() string { return a.name }

// Version returns the installed version.
func (a *App) Version() version.Version { return a.version }

// Architecture returns the (possibly probed) architecture.
func (a *App) Architecture() platform.Architecture { return a.arch }

// OSType returns the (possibly probed) operating system.
func (a *App) OSType() platform.OSType { return a.ostype }

// Strict reports whether the platform must be confirmed by probing.
func (a *App) Strict() bool { return a.strict }

// PythonExecutable returns the bundled interpreter.
func (a *App) PythonExecutable() string { return a.python }

// Executable returns the main executable, with ".exe" for Windows builds.
func (a *App) Executable() string { return a.executable }

// Check verifies the main executable exists and is a regular file.
func (a *App) Check() error {
	info, err := os.Stat(a.executable)
	if err != nil {
		return fmt.Errorf("can not find blender executable: %s: %w", a.executable, errors.ErrNotFound)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s: %w", a.executable, errors.ErrNotFound)
	}
	return nil
}

// IsOK reports whether Check succeeds.
func (a *App) IsOK() bool { return a.Check() == nil }

func (a *App) String() string {
	return fmt.Sprintf("%s (version=%s, arch=%s, ostype=%s)", a.directory, a.version, a.arch.Name(), a.ostype.Name())
}

// FindPython returns the interpreter in binDir. Candidates are named "python",
// "python3" or "python3.10" (with ".exe" when windows is set); the highest
// version wins and an unversioned name ranks lowest.
func FindPython(binDir string, windows bool) (string, error) {
	pattern := `^python(\d+(\.\d+)*)?`
	if windows {
		pattern += `\.exe$`
	} else {
		pattern += `$`
	}
	re := regexp.MustCompile(pattern)

	entries, err := os.ReadDir(binDir)
	if err != nil {
		return "", fmt.Errorf("can not find python executable in directory %s: %w", binDir, errors.ErrNotFound)
	}

	type candidate struct {
		name    string
		version *goversion.Version
	}
	var candidates []candidate
	for _, e := range entries {
		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		c := candidate{name: e.Name()}
		if m[1] != "" {
			if v, err := goversion.NewVersion(m[1]); err == nil {
				c.version = v
			}
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("can not find python executable in directory %s: %w", binDir, errors.ErrNotFound)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		vi, vj := candidates[i].version, candidates[j].version
		switch {
		case vi == nil && vj == nil:
			return candidates[i].name < candidates[j].name
		case vi == nil:
			return true
		case vj == nil:
			return false
		case vi.Equal(vj):
			return candidates[i].name < candidates[j].name
		default:
			return vi.LessThan(vj)
		}
	})
	return filepath.Join(binDir, candidates[len(candidates)-1].name), nil
}
