package platform

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/glorpus-work/blnotebook/pkg/errors"
)

func TestParseArchitecture(t *testing.T) {
	tests := []struct {
		input    string
		expected Architecture
	}{
		{"x86_64", X64},
		{"amd64", X64},
		{"AMD64", X64},
		{"x64", X64},
		{"x86", X32},
		{"i386", X32},
		{"i586", X32},
		{"x86_32", X32},
		{"X32", X32},
		{"any", AnyArch},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseArchitecture(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseArchitecture(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseArchitectureRejects(t *testing.T) {
	for _, input := range []string{"arm64", "i686", "i786", "x86_64_v2", ""} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseArchitecture(input)
			if !stderrors.Is(err, errors.ErrMalformedInput) {
				t.Errorf("ParseArchitecture(%q) error = %v, want ErrMalformedInput", input, err)
			}
		})
	}
}

func TestParseOSType(t *testing.T) {
	tests := []struct {
		input    string
		expected OSType
	}{
		{"Windows", Windows},
		{"win", Windows},
		{"WINDOWS", Windows},
		{"Darwin", Mac},
		{"mac", Mac},
		{"macOS", Mac},
		{"Linux", Linux},
		{"unix", Linux},
		{"posix", Linux},
		{"any", AnyOS},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOSType(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseOSType(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseOSTypeRejects(t *testing.T) {
	_, err := ParseOSType("beos")
	if !stderrors.Is(err, errors.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	if !strings.Contains(err.Error(), osChoices) {
		t.Errorf("error %q should list %q", err, osChoices)
	}
}

func TestNames(t *testing.T) {
	if X64.Name() != "x64" || X32.Name() != "x32" || AnyArch.Name() != "any" {
		t.Errorf("unexpected architecture names: %s %s %s", X64.Name(), X32.Name(), AnyArch.Name())
	}
	if Windows.Name() != "windows" || Mac.Name() != "mac" || Linux.Name() != "linux" || AnyOS.Name() != "any" {
		t.Errorf("unexpected OS names: %s %s %s %s", Windows.Name(), Mac.Name(), Linux.Name(), AnyOS.Name())
	}
}

func TestExtPattern(t *testing.T) {
	tests := []struct {
		os       OSType
		expected string
	}{
		{Windows, `\.zip$`},
		{Mac, `\.dmg$`},
		{Linux, `\.tar\.xz$`},
		{AnyOS, ""},
	}
	for _, tt := range tests {
		if got := tt.os.ExtPattern(); got != tt.expected {
			t.Errorf("%s.ExtPattern() = %q, want %q", tt.os, got, tt.expected)
		}
	}

	if got := JoinExtPatterns([]OSType{Windows, Linux}); got != `\.zip$|\.tar\.xz$` {
		t.Errorf("JoinExtPatterns = %q", got)
	}
	if got := JoinExtPatterns([]OSType{Linux, AnyOS}); got != "" {
		t.Errorf("JoinExtPatterns with any = %q, want empty", got)
	}
}

func TestParseLists(t *testing.T) {
	archs, err := ParseArchitectures([]string{"x64,x32", " amd64 ", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(archs) != 3 || archs[0] != X64 || archs[1] != X32 || archs[2] != X64 {
		t.Errorf("ParseArchitectures = %v", archs)
	}

	oses, err := ParseOSTypes([]string{"linux,win"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(oses) != 2 || oses[0] != Linux || oses[1] != Windows {
		t.Errorf("ParseOSTypes = %v", oses)
	}

	if _, err := ParseOSTypes([]string{"linux,plan9"}); err == nil {
		t.Error("expected error for unknown OS in list")
	}
}

func TestHostMapping(t *testing.T) {
	if architectureFromGOARCH("amd64") != X64 || architectureFromGOARCH("386") != X32 || architectureFromGOARCH("arm64") != AnyArch {
		t.Error("unexpected GOARCH mapping")
	}
	if osTypeFromGOOS("windows") != Windows || osTypeFromGOOS("darwin") != Mac || osTypeFromGOOS("linux") != Linux || osTypeFromGOOS("plan9") != AnyOS {
		t.Error("unexpected GOOS mapping")
	}
}

func TestExecutableName(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		os       OSType
		host     OSType
		expected string
	}{
		{"linux unchanged", "/opt/blender-3.6/blender", Linux, Linux, "/opt/blender-3.6/blender"},
		{"windows appends exe", "/opt/blender-3.6/blender", Windows, Linux, "/opt/blender-3.6/blender.exe"},
		{"windows keeps exe", "/opt/blender-3.6/blender.exe", Windows, Linux, "/opt/blender-3.6/blender.exe"},
		{"windows replaces extension", "/opt/b/python3.10", Windows, Linux, "/opt/b/python3.exe"},
		{"any on windows host", "/opt/b/blender", AnyOS, Windows, "/opt/b/blender.exe"},
		{"any on linux host", "/opt/b/blender", AnyOS, Linux, "/opt/b/blender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExecutableName(tt.path, tt.os, tt.host); got != tt.expected {
				t.Errorf("ExecutableName(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
