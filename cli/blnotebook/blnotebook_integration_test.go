//go:build integration

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/fsutil"
	"github.com/glorpus-work/blnotebook/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// windowsFlags select the Windows build the mirror serves, whatever the host.
var windowsFlags = []string{"--no-color", "-b", "3.6", "--arch", "x64", "--ostype", "windows"}

// execute runs the root command and returns what it wrote to stdout.
func execute(t *testing.T, env testutil.Env, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", env.ConfigPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func installedDir(env testutil.Env) string {
	return filepath.Join(env.AppsRoot, strings.TrimSuffix(testutil.WindowsArchive, ".zip"))
}

func TestVersionCommand(t *testing.T) {
	env := testutil.SetupConfig(t, "http://127.0.0.1:1/release/")

	out, err := execute(t, env, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "blnotebook version")
}

func TestInstall_FromMirror(t *testing.T) {
	mirror := testutil.NewMirror(t)
	env := testutil.SetupConfig(t, mirror.URL)

	_, err := execute(t, env, append(windowsFlags, "install")...)
	require.NoError(t, err)

	dir := installedDir(env)
	assert.True(t, fsutil.IsRegularFile(filepath.Join(dir, "blender.exe")))
	assert.Equal(t, int32(1), mirror.DownloadHits.Load())

	// A second install finds the local installation.
	_, err = execute(t, env, append(windowsFlags, "install")...)
	require.NoError(t, err)
	assert.Equal(t, int32(1), mirror.DownloadHits.Load())

	out, err := execute(t, env, append(windowsFlags, "show", "--directory")...)
	require.NoError(t, err)
	assert.Equal(t, dir, strings.TrimSpace(out))

	out, err = execute(t, env, append(windowsFlags, "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "3.6.2")
	assert.Contains(t, out, dir)
}

func TestInstall_DryRun(t *testing.T) {
	mirror := testutil.NewMirror(t)
	env := testutil.SetupConfig(t, mirror.URL)

	_, err := execute(t, env, append(windowsFlags, "--dry-run", "install")...)
	require.NoError(t, err)

	assert.False(t, fsutil.Exists(installedDir(env)))
	assert.Equal(t, int32(0), mirror.DownloadHits.Load())
}

func TestShow_NotInstalled(t *testing.T) {
	mirror := testutil.NewMirror(t)
	env := testutil.SetupConfig(t, mirror.URL)

	_, err := execute(t, env, append(windowsFlags, "show")...)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInstallationNotFound)
	assert.Equal(t, int32(0), mirror.IndexHits.Load())
}

func TestListRemote(t *testing.T) {
	mirror := testutil.NewMirror(t)
	env := testutil.SetupConfig(t, mirror.URL)

	out, err := execute(t, env, append(windowsFlags, "--remote", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, mirror.URL+"Blender3.6/"+testutil.WindowsArchive)
	assert.NotContains(t, out, "3.5.1")

	// The release listing is served from the cache on the next run.
	_, err = execute(t, env, append(windowsFlags, "--remote", "list")...)
	require.NoError(t, err)
	assert.Equal(t, int32(1), mirror.IndexHits.Load())
}

func TestCacheCommands(t *testing.T) {
	mirror := testutil.NewMirror(t)
	env := testutil.SetupConfig(t, mirror.URL)

	_, err := execute(t, env, append(windowsFlags, "install")...)
	require.NoError(t, err)

	out, err := execute(t, env, "cache", "dir")
	require.NoError(t, err)
	assert.Equal(t, env.CacheDir, strings.TrimSpace(out))

	out, err = execute(t, env, "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Listings:       ")
	assert.Contains(t, out, "(1 files)")

	out, err = execute(t, env, "cache", "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully cleaned cache")

	assert.False(t, fsutil.Exists(filepath.Join(env.AppsRoot, testutil.WindowsArchive)))
	assert.True(t, fsutil.IsRegularFile(filepath.Join(installedDir(env), "blender.exe")))
}

func TestUseAndConfig(t *testing.T) {
	env := testutil.SetupConfig(t, "http://127.0.0.1:1/release/")

	_, err := execute(t, env, "use", "3.6")
	require.NoError(t, err)

	out, err := execute(t, env, "config", "get", "blender.version")
	require.NoError(t, err)
	assert.Equal(t, "3.6", strings.TrimSpace(out))

	_, err = execute(t, env, "config", "set", "blender.strict", "true")
	require.NoError(t, err)

	out, err = execute(t, env, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "blender.strict")
	assert.Contains(t, out, env.ConfigPath)

	_, err = execute(t, env, "use", "not-a-version")
	require.Error(t, err)
}
