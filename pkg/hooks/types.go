package hooks

import "github.com/glorpus-work/blnotebook/pkg/app"

// HookType represents the type of hook.
type HookType string

// Supported hook types.
const (
	PostInstall HookType = "post-install"
)

// Hook represents a hook script with its type and content.
type Hook struct {
	Type    HookType
	Name    string // file the script was read from, for error messages
	Content string
}

// Context contains information passed to hooks.
type Context struct {
	AppName          string
	AppVersion       string
	AppDirectory     string
	Executable       string
	PythonExecutable string
	Architecture     string
	OSType           string
	Vars             map[string]interface{}
}

// ContextFromApp describes a for a hook script.
func ContextFromApp(a *app.App) Context {
	return Context{
		AppName:          a.Name(),
		AppVersion:       a.Version().String(),
		AppDirectory:     a.Directory(),
		Executable:       a.Executable(),
		PythonExecutable: a.PythonExecutable(),
		Architecture:     a.Architecture().String(),
		OSType:           a.OSType().String(),
	}
}

// variables maps the script variable names onto the context values.
func (c Context) variables() map[string]interface{} {
	vars := map[string]interface{}{
		"appName":          c.AppName,
		"appVersion":       c.AppVersion,
		"appDirectory":     c.AppDirectory,
		"executable":       c.Executable,
		"pythonExecutable": c.PythonExecutable,
		"architecture":     c.Architecture,
		"ostype":           c.OSType,
	}
	for k, v := range c.Vars {
		vars[k] = v
	}
	return vars
}
