package repository

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/app"
	"github.com/glorpus-work/blnotebook/pkg/fsutil"
	"github.com/glorpus-work/blnotebook/pkg/platform"
	"github.com/glorpus-work/blnotebook/pkg/version"
)

var localDirRe = regexp.MustCompile(`(?i)^blender[-_ ]?(.*)`)

// AppLoader builds an App from a provisional description.
type AppLoader interface {
	Load(ctx context.Context, spec app.Spec) (*app.App, error)
}

// Local enumerates Blender installations below the directories of a search path.
// The scan runs once; later lookups reuse its result.
type Local struct {
	searchPath []string
	loader     AppLoader
	strict     bool

	mu   sync.Mutex
	apps []*app.App
	done bool
}

// NewLocal creates a repository over a ";" separated search path.
func NewLocal(searchPath string, loader AppLoader, strict bool) *Local {
	return &Local{
		searchPath: fsutil.SplitSearchPath(searchPath),
		loader:     loader,
		strict:     strict,
	}
}

// SearchPath returns the expanded search directories.
func (l *Local) SearchPath() []string {
	return append([]string(nil), l.searchPath...)
}

// Apps returns every installation found on the search path, ascending by version.
// Directories that are not valid installations are skipped.
func (l *Local) Apps(ctx context.Context) []*app.App {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.done {
		l.apps = l.scan(ctx)
		l.done = true
	}
	return l.apps
}

func (l *Local) scan(ctx context.Context) []*app.App {
	var apps []*app.App
	for _, root := range l.searchPath {
		entries, err := os.ReadDir(root)
		if err != nil {
			logger.Debug("skipping search directory", logger.Fields{"dir": root, "error": err.Error()})
			continue
		}
		for _, e := range entries {
			dir := filepath.Join(root, e.Name())
			if !fsutil.IsDir(dir) {
				continue
			}
			m := localDirRe.FindStringSubmatch(e.Name())
			if m == nil {
				continue
			}
			if a := l.load(ctx, dir, m[1]); a != nil {
				apps = append(apps, a)
			}
		}
	}
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].Version().Less(apps[j].Version()) })
	return apps
}

func (l *Local) load(ctx context.Context, dir, rawVersion string) *app.App {
	v, err := version.Parse(rawVersion)
	if err != nil {
		logger.Debug("skipping directory", logger.Fields{"dir": dir, "error": err.Error()})
		return nil
	}
	name := filepath.Base(dir)
	a, err := l.loader.Load(ctx, app.Spec{
		Path:         filepath.Join(dir, "blender"),
		Version:      v,
		Architecture: platform.ClassifyArchitecture(name),
		OSType:       platform.ClassifyOS(name),
		Strict:       l.strict,
	})
	if err != nil {
		logger.Debug("skipping directory", logger.Fields{"dir": dir, "error": err.Error()})
		return nil
	}
	return a
}

// FindAll returns the installations matching c, ascending by version.
func (l *Local) FindAll(ctx context.Context, c Criteria) []*app.App {
	var result []*app.App
	for _, a := range l.Apps(ctx) {
		if !c.matchesVersion(a.Version()) {
			continue
		}
		if rank(c.Architectures, a.Architecture()) < 0 || rank(c.OSTypes, a.OSType()) < 0 {
			continue
		}
		result = append(result, a)
	}
	return result
}

// FindBest returns the highest matching installation, or nil.
func (l *Local) FindBest(ctx context.Context, c Criteria) *app.App {
	all := l.FindAll(ctx, c)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}
