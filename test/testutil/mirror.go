// Package testutil provides a fake Blender download mirror and configuration
// helpers for integration tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// WindowsArchive is the only archive the mirror serves.
const WindowsArchive = "blender-3.6.2-windows-x64.zip"

const releaseIndex = `<html><head><title>Index of /release/</title></head>
<body><h1>Index of /release/</h1><hr><pre><a href="../">../</a>
<a href="Blender3.5/">Blender3.5/</a>                                        29-Mar-2023 10:00       -
<a href="Blender3.6/">Blender3.6/</a>                                        17-Oct-2023 14:00       -
</pre><hr></body></html>
`

const folder36 = `<html><body><pre><a href="../">../</a>
<a href="blender-3.6.2-linux-x64.tar.xz">blender-3.6.2-linux-x64.tar.xz</a>                     17-Aug-2023 09:11    250M
<a href="blender-3.6.2-windows-x64.zip">blender-3.6.2-windows-x64.zip</a>                      17-Aug-2023 09:12    291M
<a href="blender-3.6.5-windows32.zip">blender-3.6.5-windows32.zip</a>                        05-Oct-2023 09:12    260M
</pre></body></html>
`

const folder35 = `<html><body><pre><a href="../">../</a>
<a href="blender-3.5.1-linux-x64.tar.xz">blender-3.5.1-linux-x64.tar.xz</a>                     25-Apr-2023 09:11    240M
</pre></body></html>
`

// Mirror is an httptest server laid out like the Blender release mirror.
type Mirror struct {
	Server *httptest.Server
	// URL is the release listing URL, ending in "/".
	URL string

	IndexHits    atomic.Int32
	DownloadHits atomic.Int32
	archive      []byte
}

// NewMirror starts a mirror that is closed when the test ends.
func NewMirror(t *testing.T) *Mirror {
	t.Helper()
	m := &Mirror{archive: windowsZip(t)}

	mux := http.NewServeMux()
	mux.HandleFunc("/release/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/release/" {
			http.NotFound(w, r)
			return
		}
		m.IndexHits.Add(1)
		_, _ = fmt.Fprint(w, releaseIndex)
	})
	mux.HandleFunc("/release/Blender3.6/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/release/Blender3.6/" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, folder36)
	})
	mux.HandleFunc("/release/Blender3.5/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/release/Blender3.5/" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, folder35)
	})
	mux.HandleFunc("/release/Blender3.6/"+WindowsArchive, func(w http.ResponseWriter, _ *http.Request) {
		m.DownloadHits.Add(1)
		w.Header().Set("Content-Length", fmt.Sprint(len(m.archive)))
		_, _ = w.Write(m.archive)
	})

	m.Server = httptest.NewServer(mux)
	m.URL = m.Server.URL + "/release/"
	t.Cleanup(m.Server.Close)
	return m
}

func windowsZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range []struct{ name, content string }{
		{"blender-3.6.2-windows-x64/blender.exe", "exe"},
		{"blender-3.6.2-windows-x64/3.6/python/bin/python.exe", "py"},
	} {
		w, err := zw.Create(entry.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(entry.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// Env holds the directories of a test configuration.
type Env struct {
	ConfigPath string
	AppsRoot   string
	CacheDir   string
	KernelDir  string
	HooksDir   string
}

// SetupConfig writes a YAML configuration below a temporary directory that
// points every blnotebook directory into it and uses mirrorURL.
func SetupConfig(t *testing.T, mirrorURL string) Env {
	t.Helper()
	root := t.TempDir()
	env := Env{
		ConfigPath: filepath.Join(root, "config.yaml"),
		AppsRoot:   filepath.Join(root, "apps"),
		CacheDir:   filepath.Join(root, "cache"),
		KernelDir:  filepath.Join(root, "jupyter"),
		HooksDir:   filepath.Join(root, "hooks"),
	}

	content := fmt.Sprintf(`settings:
  cache_dir: %q
  log_level: info
blender:
  apps_root: %q
  search_path: %q
  mirror: %q
  tar_extractor: builtin
kernel:
  data_dir: %q
hooks:
  dir: %q
`, env.CacheDir, env.AppsRoot, env.AppsRoot, mirrorURL, env.KernelDir, env.HooksDir)

	require.NoError(t, os.WriteFile(env.ConfigPath, []byte(content), 0o600))
	return env
}
