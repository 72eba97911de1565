package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/fsutil"
)

// HookFileExtension is the extension of hook scripts.
const HookFileExtension = ".tengo"

// LoadFromDir registers every <hook-type>.tengo script found in dir.
// A missing directory is not an error.
func LoadFromDir(m *Manager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read hooks directory %s: %w: %w", dir, errors.ErrHookLoad, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != HookFileExtension {
			continue
		}
		hookType := HookType(strings.TrimSuffix(entry.Name(), HookFileExtension))
		if hookType != PostInstall {
			continue
		}
		if err := LoadFiles(m, hookType, []string{filepath.Join(dir, entry.Name())}); err != nil {
			return err
		}
	}
	return nil
}

// LoadFiles registers the scripts at paths as hooks of hookType.
func LoadFiles(m *Manager, hookType HookType, paths []string) error {
	for _, p := range paths {
		p = fsutil.ExpandPath(p)
		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("error reading hook file %s: %w: %w", p, errors.ErrHookLoad, err)
		}
		if err := m.AddHook(Hook{Type: hookType, Name: p, Content: string(content)}); err != nil {
			return err
		}
	}
	return nil
}

// Template returns a commented starting point for a hook script.
func Template(hookType HookType) string {
	switch hookType {
	case PostInstall:
		return `// Post-install hook
// Runs after a Blender bundle was downloaded and unpacked.
// Available variables:
// - appName: string - installation directory name
// - appVersion: string - installed version
// - appDirectory: string - installation directory
// - executable: string - main executable
// - pythonExecutable: string - bundled interpreter
// - architecture, ostype: string - platform of the bundle
// Assign a message to err to fail the installation.

fmt := import("fmt")
fmt.println("installed " + appName + " into " + appDirectory)
`
	default:
		return "// Unknown hook type: " + string(hookType)
	}
}
