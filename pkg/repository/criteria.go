// Package repository finds Blender installations on the local search path and
// release archives on a download mirror.
package repository

import (
	"fmt"
	"slices"
	"strings"

	"github.com/glorpus-work/blnotebook/pkg/platform"
	"github.com/glorpus-work/blnotebook/pkg/version"
)

// Criteria selects installations and release files.
//
// Architectures and OSTypes are ordered preferences: earlier entries rank
// higher when several remote files match. An empty list accepts any value.
type Criteria struct {
	// Version is a containment filter; nil matches every version.
	Version       *version.Version
	Architectures []platform.Architecture
	OSTypes       []platform.OSType
	// ExtPattern is a regular expression applied to remote file names.
	ExtPattern string
}

func (c Criteria) String() string {
	var parts []string
	if c.Version != nil {
		parts = append(parts, "Version="+c.Version.String())
	}
	if len(c.Architectures) > 0 {
		names := make([]string, len(c.Architectures))
		for i, a := range c.Architectures {
			names[i] = a.Name()
		}
		parts = append(parts, fmt.Sprintf("Architectures=[%s]", strings.Join(names, ", ")))
	}
	if len(c.OSTypes) > 0 {
		names := make([]string, len(c.OSTypes))
		for i, o := range c.OSTypes {
			names[i] = o.Name()
		}
		parts = append(parts, fmt.Sprintf("OSTypes=[%s]", strings.Join(names, ", ")))
	}
	if c.ExtPattern != "" {
		parts = append(parts, fmt.Sprintf("Ext=%q", c.ExtPattern))
	}
	if len(parts) == 0 {
		return "Any"
	}
	return strings.Join(parts, ", ")
}

// IsEmpty reports whether c constrains nothing.
func (c Criteria) IsEmpty() bool {
	return c.Version == nil && len(c.Architectures) == 0 && len(c.OSTypes) == 0 && c.ExtPattern == ""
}

// matchesVersion reports whether v is contained in the requested version.
func (c Criteria) matchesVersion(v version.Version) bool {
	return c.Version == nil || c.Version.Contains(v)
}

// rank scores v by its position in prefs: the first entry scores len(prefs),
// the last scores 1, and a missing value scores -1. Empty prefs score 0.
func rank[T comparable](prefs []T, v T) int {
	if len(prefs) == 0 {
		return 0
	}
	i := slices.Index(prefs, v)
	if i < 0 {
		return -1
	}
	return len(prefs) - i
}
