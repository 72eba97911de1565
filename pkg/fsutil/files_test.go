package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_File(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "dl-123.tmp")
	dst := filepath.Join(tempDir, "apps", "blender-3.6.2-linux-x64.tar.xz")

	require.NoError(t, os.WriteFile(src, []byte("archive"), FileModeDefault))
	require.NoError(t, Move(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "archive", string(content))
	assert.False(t, Exists(src))
}

func TestMove_Directory(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "staging")
	dst := filepath.Join(tempDir, "blender-3.6.2")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "3.6", "python", "bin"), DirModeDefault))
	require.NoError(t, os.WriteFile(filepath.Join(src, "3.6", "python", "bin", "python3.10"), []byte("#!"), FileModeExec))

	require.NoError(t, Move(src, dst))
	assert.True(t, IsRegularFile(filepath.Join(dst, "3.6", "python", "bin", "python3.10")))
	assert.False(t, Exists(src))
}

func TestMove_Errors(t *testing.T) {
	tempDir := t.TempDir()

	assert.Error(t, Move("", filepath.Join(tempDir, "x")))
	assert.Error(t, Move(filepath.Join(tempDir, "x"), ""))
	assert.Error(t, Move(filepath.Join(tempDir, "missing"), filepath.Join(tempDir, "dst")))
}

func TestCopy(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "src.txt")
	dst := filepath.Join(tempDir, "dst.txt")

	require.NoError(t, os.WriteFile(src, []byte("payload"), FileModeDefault))
	require.NoError(t, Copy(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
	assert.True(t, Exists(src))
}

func TestFileChecks(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "blender")
	require.NoError(t, os.WriteFile(file, nil, FileModeExec))

	assert.True(t, Exists(file))
	assert.True(t, IsRegularFile(file))
	assert.False(t, IsDir(file))

	assert.True(t, IsDir(tempDir))
	assert.False(t, IsRegularFile(tempDir))

	missing := filepath.Join(tempDir, "missing")
	assert.False(t, Exists(missing))
	assert.False(t, IsRegularFile(missing))
	assert.False(t, IsDir(missing))
}

func TestCreateFilePerm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernel.json")
	f, err := CreateFilePerm(path, FileModeSecure)
	require.NoError(t, err)
	_, err = f.WriteString("{}")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(content))
}
