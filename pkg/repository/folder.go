package repository

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/download"
	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/platform"
	"github.com/glorpus-work/blnotebook/pkg/version"
)

var fileAnchorRe = regexp.MustCompile(`(?i)<a\s+href\s*=\s*"(blender[-_ ]?([^"]+))"[^>]*>\s*([^<\s]+)`)

// VersionFolder is one release directory on the mirror, e.g. "Blender3.6/".
type VersionFolder struct {
	URL     string
	Name    string
	Version version.Version

	downloadDir string
	appsRoot    string
	hostOS      platform.OSType
	dl          download.Manager
}

// FindAll lists the folder and returns the files matching c, ordered by OS
// rank, architecture rank and version. Listings are always fetched fresh.
func (f *VersionFolder) FindAll(ctx context.Context, c Criteria) ([]*RemoteFile, error) {
	extRe, err := regexp.Compile(c.ExtPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid extension pattern %q: %w", c.ExtPattern, errors.ErrMalformedInput)
	}

	body, err := f.dl.Get(ctx, f.URL)
	if err != nil {
		return nil, err
	}

	var files []*RemoteFile
	for _, line := range strings.Split(string(body), "\n") {
		m := fileAnchorRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		href, rawVersion, name := m[1], m[2], m[3]
		if !extRe.MatchString(name) {
			continue
		}

		arch := platform.ClassifyArchitecture(name)
		ostype := platform.ClassifyOS(name)
		archRank := rank(c.Architectures, arch)
		osRank := rank(c.OSTypes, ostype)
		if archRank < 0 || osRank < 0 {
			continue
		}

		v, err := version.Parse(rawVersion)
		if err != nil {
			logger.Debug("skipping release file", logger.Fields{"name": name, "error": err.Error()})
			continue
		}
		if !c.matchesVersion(v) {
			continue
		}

		files = append(files, &RemoteFile{
			Href:         f.URL + href,
			Name:         name,
			Version:      v,
			Architecture: arch,
			OSType:       ostype,
			OSRank:       osRank,
			ArchRank:     archRank,
			DownloadDir:  f.downloadDir,
			AppsRoot:     f.appsRoot,
			hostOS:       f.hostOS,
		})
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].less(files[j]) })
	return files, nil
}

// FindBest returns the highest ranked matching file.
func (f *VersionFolder) FindBest(ctx context.Context, c Criteria) (*RemoteFile, error) {
	files, err := f.FindAll(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no matching blender file in %s: %w", f.URL, errors.ErrNotFound)
	}
	return files[len(files)-1], nil
}

func (f *VersionFolder) String() string {
	return f.Name
}
