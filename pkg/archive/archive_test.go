package archive

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	mock_command "github.com/glorpus-work/blnotebook/pkg/command/mocks"
	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/platform"
	"github.com/mholt/archives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// writeZip creates a zip whose entries are given as name -> content.
// Names ending in "/" become directory entries.
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range entries {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
		if name[len(name)-1] == '/' {
			hdr.SetMode(os.ModeDir | 0o755)
		} else {
			hdr.SetMode(0o755)
		}
		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		if content != "" {
			_, err = w.Write([]byte(content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestExtractZip_StripsSingleRoot(t *testing.T) {
	tempDir := t.TempDir()
	archivePath := filepath.Join(tempDir, "blender-2.93.4-windows-x64.zip")
	writeZip(t, archivePath, map[string]string{
		"blender-2.93.4-windows-x64/":                           "",
		"blender-2.93.4-windows-x64/blender.exe":                "exe",
		"blender-2.93.4-windows-x64/2.93/python/bin/python.exe": "py",
	})

	dest := filepath.Join(tempDir, "blender-2.93.4-windows-x64")
	root, err := NewManager(nil).ExtractZip(context.Background(), archivePath, dest)
	require.NoError(t, err)

	assert.Equal(t, "blender-2.93.4-windows-x64", root)
	assert.Equal(t, "exe", readFile(t, filepath.Join(dest, "blender.exe")))
	assert.Equal(t, "py", readFile(t, filepath.Join(dest, "2.93", "python", "bin", "python.exe")))
	_, err = os.Stat(filepath.Join(dest, "blender-2.93.4-windows-x64"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractZip_ImplicitRootDirectory(t *testing.T) {
	tempDir := t.TempDir()
	archivePath := filepath.Join(tempDir, "b.zip")
	writeZip(t, archivePath, map[string]string{
		"blender-3.0/blender.exe": "exe",
	})

	dest := filepath.Join(tempDir, "out")
	root, err := NewManager(nil).ExtractZip(context.Background(), archivePath, dest)
	require.NoError(t, err)
	assert.Equal(t, "blender-3.0", root)
	assert.Equal(t, "exe", readFile(t, filepath.Join(dest, "blender.exe")))
}

func TestExtractZip_FileOnlyEntries(t *testing.T) {
	tempDir := t.TempDir()
	archivePath := filepath.Join(tempDir, "blender-3.6.2-windows-x64.zip")

	f, err := os.Create(archivePath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, entry := range []struct{ name, content string }{
		{"blender-3.6.2-windows-x64/blender.exe", "exe"},
		{"blender-3.6.2-windows-x64/3.6/python/bin/python.exe", "py"},
		{"blender-3.6.2-windows-x64/3.6/scripts/startup/init.py", "print()"},
	} {
		w, err := zw.Create(entry.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(entry.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(tempDir, "apps", "blender-3.6.2-windows-x64")
	root, err := NewManager(nil).ExtractZip(context.Background(), archivePath, dest)
	require.NoError(t, err)

	assert.Equal(t, "blender-3.6.2-windows-x64", root)
	assert.Equal(t, "exe", readFile(t, filepath.Join(dest, "blender.exe")))
	assert.Equal(t, "py", readFile(t, filepath.Join(dest, "3.6", "python", "bin", "python.exe")))
	assert.Equal(t, "print()", readFile(t, filepath.Join(dest, "3.6", "scripts", "startup", "init.py")))
	_, err = os.Stat(filepath.Join(dest, "blender-3.6.2-windows-x64"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractZip_Cancelled(t *testing.T) {
	tempDir := t.TempDir()
	archivePath := filepath.Join(tempDir, "b.zip")
	writeZip(t, archivePath, map[string]string{
		"blender-3.0/blender.exe": "exe",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewManager(nil).ExtractZip(ctx, archivePath, filepath.Join(tempDir, "out"))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(tempDir, "out", "blender.exe"))
}

func TestExtractZip_NoRootExtractsAsIs(t *testing.T) {
	tempDir := t.TempDir()
	archivePath := filepath.Join(tempDir, "flat.zip")
	writeZip(t, archivePath, map[string]string{
		"blender.exe": "exe",
		"readme.txt":  "hello",
	})

	dest := filepath.Join(tempDir, "out")
	root, err := NewManager(nil).ExtractZip(context.Background(), archivePath, dest)
	require.NoError(t, err)
	assert.Empty(t, root)
	assert.Equal(t, "exe", readFile(t, filepath.Join(dest, "blender.exe")))
	assert.Equal(t, "hello", readFile(t, filepath.Join(dest, "readme.txt")))
}

func TestExtractZip_MultipleRoots(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
	}{
		{"two directories", map[string]string{"a/blender.exe": "x", "b/blender.exe": "y"}},
		{"directory and file", map[string]string{"a/blender.exe": "x", "readme.txt": "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			archivePath := filepath.Join(tempDir, "bad.zip")
			writeZip(t, archivePath, tt.entries)

			_, err := NewManager(nil).ExtractZip(context.Background(), archivePath, filepath.Join(tempDir, "out"))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrArchiveIntegrity)
		})
	}
}

func TestExtractTarXz_Builtin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	tempDir := t.TempDir()

	source := filepath.Join(tempDir, "src", "blender-3.6.2-linux-x64")
	require.NoError(t, os.MkdirAll(filepath.Join(source, "3.6", "python", "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "blender"), []byte("elf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "3.6", "python", "bin", "python3.10"), []byte("py"), 0o755))
	require.NoError(t, os.Symlink("python3.10", filepath.Join(source, "3.6", "python", "bin", "python3")))

	ctx := context.Background()
	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{source: "blender-3.6.2-linux-x64"})
	require.NoError(t, err)

	archivePath := filepath.Join(tempDir, "blender-3.6.2-linux-x64.tar.xz")
	out, err := os.Create(archivePath)
	require.NoError(t, err)
	format := archives.CompressedArchive{Compression: archives.Xz{}, Archival: archives.Tar{}}
	require.NoError(t, format.Archive(ctx, out, files))
	require.NoError(t, out.Close())

	dest := filepath.Join(tempDir, "apps", "blender-3.6.2-linux-x64")
	require.NoError(t, NewManager(nil).ExtractTarXz(ctx, archivePath, dest, TarBuiltin))

	assert.Equal(t, "elf", readFile(t, filepath.Join(dest, "blender")))
	assert.Equal(t, "py", readFile(t, filepath.Join(dest, "3.6", "python", "bin", "python3.10")))
	link, err := os.Readlink(filepath.Join(dest, "3.6", "python", "bin", "python3"))
	require.NoError(t, err)
	assert.Equal(t, "python3.10", link)

	info, err := os.Stat(filepath.Join(dest, "blender"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100)
}

func TestExtractTarXz_External(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mock_command.NewMockRunner(ctrl)
	dest := filepath.Join(t.TempDir(), "blender-3.6.2-linux-x64")

	runner.EXPECT().
		Run(gomock.Any(), "tar", "-xaf", "/dl/b.tar.xz", "-C", dest, "--strip-components=1").
		Return(nil)

	m := &Manager{Runner: runner, HostOS: platform.Linux}
	require.NoError(t, m.ExtractTarXz(context.Background(), "/dl/b.tar.xz", dest, TarExternal))
	_, err := os.Stat(dest)
	assert.NoError(t, err)
}

func TestTarCommandOnWindowsUsesWSL(t *testing.T) {
	m := &Manager{HostOS: platform.Windows}
	name, args := m.TarCommand(`C:\dl\b.tar.xz`, `C:\app\blender\b`)
	assert.Equal(t, "wsl", name)
	assert.Equal(t, []string{
		"--exec", "bash", "-c",
		`tar -xaf $(wslpath "C:\dl\b.tar.xz") -C $(wslpath "C:\app\blender\b") --strip-components=1`,
	}, args)
}

func TestStripFirstComponent(t *testing.T) {
	tests := []struct {
		in   string
		out  string
		keep bool
	}{
		{"blender-3.6/blender", "blender", true},
		{"./blender-3.6/3.6/python/bin/python3.10", "3.6/python/bin/python3.10", true},
		{"blender-3.6/", "", false},
		{"blender-3.6", "", false},
	}
	for _, tt := range tests {
		got, ok := stripFirstComponent(tt.in)
		assert.Equal(t, tt.keep, ok, tt.in)
		assert.Equal(t, tt.out, got, tt.in)
	}
}

func TestSafeJoin(t *testing.T) {
	dest := t.TempDir()
	_, err := safeJoin(dest, "../evil")
	assert.ErrorIs(t, err, errors.ErrArchiveIntegrity)

	p, err := safeJoin(dest, "3.6/python")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "3.6", "python"), p)
}
