// Package version implements Blender release version strings.
//
// Release names found on the download mirrors are irregular ("2.56abeta",
// "2.79b", "3.6.0-linux-x64.tar.xz"), so versions are normalized into a display
// form and a list of comparison elements. Ordering is defined on a sort key in
// which every numeric element is zero padded, making "2.9" sort before "2.10".
package version

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/glorpus-work/blnotebook/pkg/errors"
)

// numberWidth is the zero padding width applied to numeric elements of the sort key.
const numberWidth = 8

var (
	leadingDigitRe   = regexp.MustCompile(`^[0-9]`)
	prereleaseRe     = regexp.MustCompile(`([a-zA-Z])(alpha|beta)`)
	archiveSuffixRe  = regexp.MustCompile(`(\.tar|((\.tar)?\.(gz|xz|zip)))$`)
	badElementRe     = regexp.MustCompile(`^-\d`)
	leadingZerosRe   = regexp.MustCompile(`^0+([^0])`)
	leadingDashesRe  = regexp.MustCompile(`^-+`)
	digitThenOtherRe = regexp.MustCompile(`([^.\D])([^.\d])`)
	otherThenDigitRe = regexp.MustCompile(`([^.\d])([^.\D])`)
	elementSplitRe   = regexp.MustCompile(`[-.]`)
	numericElementRe = regexp.MustCompile(`^([0-9]+)(.*)$`)
)

// Version is an immutable, comparable release version.
// The zero value is not a valid version; use Parse.
type Version struct {
	original string
	display  string
	elements []string
	sortKey  []string
}

// Parse builds a Version from text such as "2.93", "2.56abeta" or "3.6.2.tar.xz".
func Parse(text string) (Version, error) {
	trimmed := strings.Trim(text, ". ")
	if !leadingDigitRe.MatchString(trimmed) {
		return Version{}, fmt.Errorf("malformed version string %q: %w", trimmed, errors.ErrMalformedInput)
	}

	s := prereleaseRe.ReplaceAllString(trimmed, "${1}-${2}")
	s = archiveSuffixRe.ReplaceAllString(s, "")

	parts := strings.Split(s, ".")
	display := make([]string, 0, len(parts))
	for _, part := range parts {
		if badElementRe.MatchString(part) {
			return Version{}, fmt.Errorf("malformed version string %q (element %q starts with a dash followed by a digit): %w",
				trimmed, part, errors.ErrMalformedInput)
		}
		part = leadingZerosRe.ReplaceAllString(part, "${1}")
		part = leadingDashesRe.ReplaceAllString(part, "")
		if part != "" {
			display = append(display, part)
		}
	}

	split := digitThenOtherRe.ReplaceAllString(s, "${1}.${2}")
	split = otherThenDigitRe.ReplaceAllString(split, "${1}.${2}")
	elements := elementSplitRe.Split(split, -1)

	key := make([]string, len(elements))
	for i, el := range elements {
		key[i] = sortable(el)
	}

	return Version{
		original: trimmed,
		display:  strings.Join(display, "."),
		elements: elements,
		sortKey:  key,
	}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func sortable(el string) string {
	m := numericElementRe.FindStringSubmatch(el)
	if m == nil {
		return el
	}
	digits := strings.TrimLeft(m[1], "0")
	if digits == "" {
		digits = "0"
	}
	if len(digits) < numberWidth {
		digits = strings.Repeat("0", numberWidth-len(digits)) + digits
	}
	return digits + m[2]
}

// String returns the normalized display form, e.g. "2.56a-beta".
func (v Version) String() string { return v.display }

// Original returns the input text after trimming dots and spaces.
func (v Version) Original() string { return v.original }

// Elements returns a copy of the comparison elements, e.g. ["2", "56", "a", "beta"].
func (v Version) Elements() []string {
	return append([]string(nil), v.elements...)
}

// SortKey returns a copy of the padded sort key.
func (v Version) SortKey() []string {
	return append([]string(nil), v.sortKey...)
}

// IsZero reports whether v was never parsed.
func (v Version) IsZero() bool { return v.sortKey == nil }

// MajorMinor returns the first two comparison elements joined by a dot ("2.93").
func (v Version) MajorMinor() string {
	n := len(v.elements)
	if n > 2 {
		n = 2
	}
	return strings.Join(v.elements[:n], ".")
}

// Compare returns -1, 0 or +1 comparing the sort keys of v and other.
// A key that is a strict prefix of the other sorts first.
func (v Version) Compare(other Version) int {
	return compareKeys(v.sortKey, other.sortKey)
}

func compareKeys(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Equal reports whether v and other have identical sort keys.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Contains reports whether other falls within v when v is used as a range:
// other's sort key truncated to the length of v's key equals v's key.
// "2.93" contains "2.93.1" but "2.93.1" does not contain "2.93".
func (v Version) Contains(other Version) bool {
	if len(other.sortKey) < len(v.sortKey) {
		return false
	}
	return compareKeys(v.sortKey, other.sortKey[:len(v.sortKey)]) == 0
}

// Sort orders versions ascending, keeping the input order of equal versions.
func Sort(versions []Version) {
	sort.SliceStable(versions, func(i, j int) bool { return versions[i].Less(versions[j]) })
}
