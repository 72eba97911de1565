package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/blnotebook/pkg/command"
	mock_command "github.com/glorpus-work/blnotebook/pkg/command/mocks"
	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/platform"
	"github.com/glorpus-work/blnotebook/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// makeBundle lays out <root>/<name>/blender and <root>/<name>/<mm>/python/bin/<pythons...>.
func makeBundle(t *testing.T, name, majorMinor string, pythons ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	bin := filepath.Join(dir, majorMinor, "python", "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blender"), []byte("#!/bin/sh\n"), 0o755))
	for _, p := range pythons {
		require.NoError(t, os.WriteFile(filepath.Join(bin, p), nil, 0o755))
	}
	return dir
}

func linuxSpec(dir, ver string, strict bool) Spec {
	return Spec{
		Path:         filepath.Join(dir, "blender"),
		Version:      version.MustParse(ver),
		Architecture: platform.X64,
		OSType:       platform.Linux,
		Strict:       strict,
	}
}

func TestNew(t *testing.T) {
	dir := makeBundle(t, "blender-3.6.2-linux-x64", "3.6", "python3.10", "python3.10-config")

	a, err := New(linuxSpec(dir, "3.6.2", false), platform.Linux)
	require.NoError(t, err)

	assert.Equal(t, dir, a.Directory())
	assert.Equal(t, "blender-3.6.2-linux-x64", a.Name())
	assert.Equal(t, filepath.Join(dir, "3.6", "python", "bin", "python3.10"), a.PythonExecutable())
	assert.Equal(t, filepath.Join(dir, "blender"), a.Executable())
	assert.False(t, a.Strict())
	assert.True(t, a.IsOK())
	assert.NoError(t, a.Check())
}

func TestNewForcesStrictForWildcards(t *testing.T) {
	dir := makeBundle(t, "blender-3.6", "3.6", "python3.10")

	spec := linuxSpec(dir, "3.6", false)
	spec.Architecture = platform.AnyArch
	a, err := New(spec, platform.Linux)
	require.NoError(t, err)
	assert.True(t, a.Strict())

	spec = linuxSpec(dir, "3.6", false)
	spec.OSType = platform.AnyOS
	a, err = New(spec, platform.Linux)
	require.NoError(t, err)
	assert.True(t, a.Strict())
}

func TestNewErrors(t *testing.T) {
	dir := makeBundle(t, "blender-2.93", "2.93")

	_, err := New(Spec{Path: "", Version: version.MustParse("2.93")}, platform.Linux)
	assert.ErrorIs(t, err, errors.ErrMalformedInput)

	_, err = New(linuxSpec(dir, "2.93", false), platform.Linux)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Contains(t, err.Error(), filepath.Join(dir, "2.93", "python", "bin"))

	// interpreter directory for a different major.minor
	_, err = New(linuxSpec(dir, "3.0", false), platform.Linux)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestWindowsExecutableNaming(t *testing.T) {
	dir := makeBundle(t, "blender-2.93.4-windows-x64", "2.93", "python.exe", "python3.9")

	spec := linuxSpec(dir, "2.93.4", false)
	spec.OSType = platform.Windows
	a, err := New(spec, platform.Linux)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "2.93", "python", "bin", "python.exe"), a.PythonExecutable())
	assert.Equal(t, filepath.Join(dir, "blender.exe"), a.Executable())
	assert.ErrorIs(t, a.Check(), errors.ErrNotFound)
	assert.False(t, a.IsOK())
}

func TestCheckRejectsDirectory(t *testing.T) {
	dir := makeBundle(t, "blender-3.6", "3.6", "python3.10")
	require.NoError(t, os.Remove(filepath.Join(dir, "blender")))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "blender"), 0o755))

	a, err := New(linuxSpec(dir, "3.6", false), platform.Linux)
	require.NoError(t, err)
	err = a.Check()
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Contains(t, err.Error(), "not a regular file")
}

func TestFindPythonPrefersHighestVersion(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		windows  bool
		expected string
	}{
		{"single", []string{"python3.10"}, false, "python3.10"},
		{"highest wins", []string{"python", "python3", "python3.9", "python3.10"}, false, "python3.10"},
		{"unversioned only", []string{"python", "pip3"}, false, "python"},
		{"windows suffix", []string{"python.exe", "python3.10"}, true, "python.exe"},
		{"windows versioned", []string{"python.exe", "python3.11.exe"}, true, "python3.11.exe"},
		{"ignores config scripts", []string{"python3.10-config", "python3"}, false, "python3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(bin, f), nil, 0o755))
			}
			got, err := FindPython(bin, tt.windows)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(bin, tt.expected), got)
		})
	}
}

func TestFindPythonNone(t *testing.T) {
	bin := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bin, "pip3"), nil, 0o755))

	_, err := FindPython(bin, false)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = FindPython(filepath.Join(bin, "missing"), false)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestRefine(t *testing.T) {
	dir := makeBundle(t, "blender-3.6", "3.6", "python3.10")
	a, err := New(linuxSpec(dir, "3.6", true), platform.Linux)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	runner := mock_command.NewMockRunner(ctrl)
	runner.EXPECT().
		Output(gomock.Any(), a.PythonExecutable(), "-c", ProbeScript).
		Return([]byte("i386\r\nWindows\r\nC:\\blender\\python.exe\r\n"), nil)

	refined, err := a.Refine(context.Background(), runner)
	require.NoError(t, err)

	assert.Equal(t, platform.X32, refined.Architecture())
	assert.Equal(t, platform.Windows, refined.OSType())
	assert.Equal(t, `C:\blender\python.exe`, refined.PythonExecutable())
	assert.Equal(t, filepath.Join(dir, "blender.exe"), refined.Executable())

	// the provisional record is untouched
	assert.Equal(t, platform.X64, a.Architecture())
	assert.Equal(t, platform.Linux, a.OSType())
	assert.Equal(t, filepath.Join(dir, "blender"), a.Executable())
}

func TestRefineKeepsValuesWhenProbeFails(t *testing.T) {
	dir := makeBundle(t, "blender-3.6", "3.6", "python3.10")
	a, err := New(linuxSpec(dir, "3.6", true), platform.Linux)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	runner := mock_command.NewMockRunner(ctrl)
	runner.EXPECT().Output(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.Wrap(errors.ErrExternalTool, "python could not be started"))
	runner.EXPECT().Output(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte("x86_64\n"), nil)

	for i := 0; i < 2; i++ {
		refined, err := a.Refine(context.Background(), runner)
		require.NoError(t, err)
		assert.Equal(t, platform.X64, refined.Architecture())
		assert.Equal(t, platform.Linux, refined.OSType())
		assert.Equal(t, a.PythonExecutable(), refined.PythonExecutable())
	}
}

func TestRefineRejectsUnknownPlatform(t *testing.T) {
	dir := makeBundle(t, "blender-3.6", "3.6", "python3.10")
	a, err := New(linuxSpec(dir, "3.6", true), platform.Linux)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	runner := mock_command.NewMockRunner(ctrl)
	runner.EXPECT().Output(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte("arm64\nLinux\n/usr/bin/python3\n"), nil)

	_, err = a.Refine(context.Background(), runner)
	assert.ErrorIs(t, err, errors.ErrMalformedInput)
}

func TestLoaderSkipsProbeUnlessStrict(t *testing.T) {
	dir := makeBundle(t, "blender-3.6", "3.6", "python3.10")
	ctrl := gomock.NewController(t)
	runner := mock_command.NewMockRunner(ctrl)

	loader := &Loader{Runner: runner, HostOS: platform.Linux}
	a, err := loader.Load(context.Background(), linuxSpec(dir, "3.6", false))
	require.NoError(t, err)
	assert.Equal(t, platform.X64, a.Architecture())

	runner.EXPECT().Output(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte("x86_64\nLinux\n"+a.PythonExecutable()+"\n"), nil)
	a, err = loader.Load(context.Background(), linuxSpec(dir, "3.6", true))
	require.NoError(t, err)
	assert.Equal(t, platform.Linux, a.OSType())
}

var _ command.Runner = (*mock_command.MockRunner)(nil)
