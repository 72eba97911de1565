package platform

import "regexp"

var (
	arch64Re = regexp.MustCompile(`(^|[^\d])64([^\d]|$)`)
	arch32Re = regexp.MustCompile(`(^|[^\d])32([^\d]|$)`)

	windowsNameRe = regexp.MustCompile(`(^|\b|\d)(win(dows)?)(\b|\d|$)`)
	macNameRe     = regexp.MustCompile(`(^|\b|\d)(mac([-_ ]?os)?)(\b|\d|$)`)
	linuxNameRe   = regexp.MustCompile(`(^|\b|\d)(linux([-_ ]?os)?)(\b|\d|$)`)
)

// ClassifyArchitecture guesses the architecture of a release file or directory
// name from a standalone "64" or "32" token.
func ClassifyArchitecture(name string) Architecture {
	switch {
	case arch64Re.MatchString(name):
		return X64
	case arch32Re.MatchString(name):
		return X32
	default:
		return AnyArch
	}
}

// ClassifyOS guesses the operating system of a release file or directory name.
// Matching is case sensitive, as release names use lower-case OS tokens.
func ClassifyOS(name string) OSType {
	switch {
	case windowsNameRe.MatchString(name):
		return Windows
	case macNameRe.MatchString(name):
		return Mac
	case linuxNameRe.MatchString(name):
		return Linux
	default:
		return AnyOS
	}
}
