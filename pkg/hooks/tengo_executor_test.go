package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/blnotebook/pkg/app"
	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/hooks"
	"github.com/glorpus-work/blnotebook/pkg/platform"
	"github.com/glorpus-work/blnotebook/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() hooks.Context {
	return hooks.Context{
		AppName:      "blender-3.6.2-linux-x64",
		AppVersion:   "3.6.2",
		AppDirectory: "/apps/blender-3.6.2-linux-x64",
		Executable:   "/apps/blender-3.6.2-linux-x64/blender",
		Architecture: "x86_64",
		OSType:       "Linux",
		Vars:         map[string]interface{}{"customVar": "customValue"},
	}
}

func TestTengoExecutor(t *testing.T) {
	executor := hooks.NewTengoExecutor()
	ctx := context.Background()

	tests := []struct {
		name    string
		script  string
		wantErr error
	}{
		{
			name:   "empty script",
			script: `// nothing to do`,
		},
		{
			name: "context variables are accessible",
			script: `
				text := import("text")
				err := ""
				if !text.has_prefix(appName, "blender-") || appVersion != "3.6.2" || customVar != "customValue" {
					err = "unexpected context"
				}
				dir := appDirectory
				exe := executable
				arch := architecture
				os := ostype
			`,
		},
		{
			name: "stdlib modules",
			script: `
				fmt := import("fmt")
				times := import("times")
				s := fmt.sprintf("%s@%s", appName, appVersion)
				now := times.now()
			`,
		},
		{
			name:    "runtime error",
			script:  `non_existent_function()`,
			wantErr: errors.ErrHookExecution,
		},
		{
			name:    "err variable fails the hook",
			script:  `err := "kernel registration refused"`,
			wantErr: errors.ErrHookScript,
		},
		{
			name:   "empty err variable is success",
			script: `err := ""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := executor.Execute(ctx, hooks.Hook{Type: hooks.PostInstall, Name: "test.tengo", Content: tt.script}, testContext())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTengoExecutor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := hooks.NewTengoExecutor().Execute(ctx, hooks.Hook{Type: hooks.PostInstall, Content: `for {}`}, testContext())
	assert.ErrorIs(t, err, errors.ErrHookExecution)
}

func TestManager(t *testing.T) {
	m := hooks.NewManager()
	assert.False(t, m.HasHook(hooks.PostInstall))
	assert.NoError(t, m.Execute(context.Background(), hooks.PostInstall, testContext()))

	assert.ErrorIs(t, m.AddHook(hooks.Hook{Content: "x"}), errors.ErrHookLoad)

	require.NoError(t, m.AddHook(hooks.Hook{Type: hooks.PostInstall, Name: "first", Content: `a := 1`}))
	require.NoError(t, m.AddHook(hooks.Hook{Type: hooks.PostInstall, Name: "second", Content: `err := "stop"`}))
	assert.True(t, m.HasHook(hooks.PostInstall))

	err := m.Execute(context.Background(), hooks.PostInstall, testContext())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrHookScript)
	assert.Contains(t, err.Error(), "second")
}

func TestManager_PostInstall(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blender-3.6.2-linux-x64")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "3.6", "python", "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "3.6", "python", "bin", "python3.10"), nil, 0o755))
	a, err := app.New(app.Spec{
		Path:         filepath.Join(dir, "blender"),
		Version:      version.MustParse("3.6.2"),
		Architecture: platform.X64,
		OSType:       platform.Linux,
	}, platform.Linux)
	require.NoError(t, err)

	m := hooks.NewManager()
	require.NoError(t, m.AddHook(hooks.Hook{Type: hooks.PostInstall, Content: `
		err := ""
		if appName != "blender-3.6.2-linux-x64" { err = "bad name" }
		if architecture != "x86_64" || ostype != "Linux" { err = "bad platform" }
	`}))
	assert.NoError(t, m.PostInstall(context.Background(), a))
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post-install.tengo"), []byte(hooks.Template(hooks.PostInstall)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-remove.tengo"), []byte(`x := 1`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o644))

	m := hooks.NewManager()
	require.NoError(t, hooks.LoadFromDir(m, dir))
	assert.True(t, m.HasHook(hooks.PostInstall))
	assert.NoError(t, m.Execute(context.Background(), hooks.PostInstall, testContext()))

	assert.NoError(t, hooks.LoadFromDir(hooks.NewManager(), filepath.Join(dir, "missing")))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "register.tengo")
	require.NoError(t, os.WriteFile(script, []byte(`err := "refused"`), 0o644))

	m := hooks.NewManager()
	require.NoError(t, hooks.LoadFiles(m, hooks.PostInstall, []string{script}))
	err := m.Execute(context.Background(), hooks.PostInstall, testContext())
	assert.ErrorIs(t, err, errors.ErrHookScript)
	assert.Contains(t, err.Error(), "refused")

	err = hooks.LoadFiles(m, hooks.PostInstall, []string{filepath.Join(dir, "missing.tengo")})
	assert.ErrorIs(t, err, errors.ErrHookLoad)
}
