package platform

import (
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/glorpus-work/blnotebook/pkg/errors"
)

var (
	x64Re = regexp.MustCompile(`(?i)^(amd64|x86_64|x64)$`)
	x32Re = regexp.MustCompile(`(?i)^(i[345]86|x86_32|x86|x32)$`)
)

// osAliases maps lower-cased spellings to operating systems.
var osAliases = map[string]OSType{
	"win":     Windows,
	"windows": Windows,
	"mac":     Mac,
	"macos":   Mac,
	"darwin":  Mac,
	"linux":   Linux,
	"unix":    Linux,
	"posix":   Linux,
	"any":     AnyOS,
}

const osChoices = "windows|win|mac|macos|darwin|linux|unix|posix|any"

// ParseArchitecture resolves an architecture spelling such as "amd64", "i386" or "x32".
// The canonical values themselves are accepted unchanged.
func ParseArchitecture(s string) (Architecture, error) {
	switch Architecture(s) {
	case X64, X32, AnyArch:
		return Architecture(s), nil
	}
	switch {
	case x64Re.MatchString(s):
		return X64, nil
	case x32Re.MatchString(s):
		return X32, nil
	case strings.EqualFold(s, string(AnyArch)):
		return AnyArch, nil
	}
	return "", fmt.Errorf("%q must be (%s|%s|any): %w", s, x64Re, x32Re, errors.ErrMalformedInput)
}

// Name returns the short lower-case name: x64, x32 or any.
func (a Architecture) Name() string {
	switch a {
	case X64:
		return "x64"
	case X32:
		return "x32"
	default:
		return "any"
	}
}

func (a Architecture) String() string { return string(a) }

// ParseOSType resolves an operating system spelling such as "win", "macos" or "posix".
// The canonical values themselves are accepted unchanged.
func ParseOSType(s string) (OSType, error) {
	switch OSType(s) {
	case Windows, Mac, Linux, AnyOS:
		return OSType(s), nil
	}
	if os, ok := osAliases[strings.ToLower(s)]; ok {
		return os, nil
	}
	return "", fmt.Errorf("%q must be (%s): %w", s, osChoices, errors.ErrMalformedInput)
}

// Name returns the short lower-case name: windows, mac, linux or any.
func (o OSType) Name() string {
	switch o {
	case Windows:
		return "windows"
	case Mac:
		return "mac"
	case Linux:
		return "linux"
	default:
		return "any"
	}
}

func (o OSType) String() string { return string(o) }

// ExtPattern returns the regular expression matching release archives for o.
// AnyOS has an empty pattern, which matches every name.
func (o OSType) ExtPattern() string {
	switch o {
	case Windows:
		return `\.zip$`
	case Mac:
		return `\.dmg$`
	case Linux:
		return `\.tar\.xz$`
	default:
		return ""
	}
}

// JoinExtPatterns combines the extension patterns of ostypes into one alternation.
// The result is empty when any of the operating systems accepts every extension.
func JoinExtPatterns(ostypes []OSType) string {
	patterns := make([]string, 0, len(ostypes))
	for _, o := range ostypes {
		p := o.ExtPattern()
		if p == "" {
			return ""
		}
		patterns = append(patterns, p)
	}
	return strings.Join(patterns, "|")
}

// ParseArchitectures parses repeated or comma separated architecture values.
func ParseArchitectures(values []string) ([]Architecture, error) {
	var out []Architecture
	for _, v := range splitList(values) {
		a, err := ParseArchitecture(v)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// ParseOSTypes parses repeated or comma separated operating system values.
func ParseOSTypes(values []string) ([]OSType, error) {
	var out []OSType
	for _, v := range splitList(values) {
		o, err := ParseOSType(v)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// HostArchitecture maps runtime.GOARCH onto an Architecture.
func HostArchitecture() Architecture {
	return architectureFromGOARCH(runtime.GOARCH)
}

func architectureFromGOARCH(goarch string) Architecture {
	switch goarch {
	case "amd64":
		return X64
	case "386":
		return X32
	default:
		return AnyArch
	}
}

// HostOSType maps runtime.GOOS onto an OSType.
func HostOSType() OSType {
	return osTypeFromGOOS(runtime.GOOS)
}

func osTypeFromGOOS(goos string) OSType {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return Mac
	case "linux", "freebsd", "openbsd", "netbsd":
		return Linux
	default:
		return AnyOS
	}
}

// TargetsWindows reports whether binaries for os need Windows naming when
// inspected from host.
func TargetsWindows(os, host OSType) bool {
	return os == Windows || (os == AnyOS && host == Windows)
}

// ExecutableName returns path with an ".exe" suffix when it targets Windows.
// An existing extension is replaced; a path already ending in ".exe" is unchanged.
func ExecutableName(path string, os, host OSType) string {
	if !TargetsWindows(os, host) {
		return path
	}
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".exe") {
		return path
	}
	return strings.TrimSuffix(path, ext) + ".exe"
}
