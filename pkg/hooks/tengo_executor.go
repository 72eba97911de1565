// Package hooks runs user supplied Tengo scripts at points of the
// installation workflow, such as after a new Blender bundle was unpacked.
package hooks

import (
	"context"
	"fmt"
	"sort"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/glorpus-work/blnotebook/pkg/errors"
)

// StdlibModules are the Tengo standard library modules scripts may import.
var StdlibModules = []string{"fmt", "os", "text", "times"}

// TengoExecutor handles the execution of Tengo scripts.
type TengoExecutor struct{}

// NewTengoExecutor creates a new Tengo script executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{}
}

// Execute runs hook with the variables of hctx. A script signals failure by
// assigning a non-empty string or an error value to a global named err.
func (e *TengoExecutor) Execute(ctx context.Context, hook Hook, hctx Context) error {
	script := tengo.NewScript([]byte(hook.Content))
	script.SetImports(stdlib.GetModuleMap(StdlibModules...))

	vars := hctx.variables()
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := script.Add(k, vars[k]); err != nil {
			return fmt.Errorf("failed to add variable '%s' to script: %w", k, err)
		}
	}

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", hook.Type, hook.Name, errors.ErrHookExecution, err)
	}

	switch v := compiled.Get("err").Value().(type) {
	case error:
		return fmt.Errorf("%s %s: %w: %w", hook.Type, hook.Name, errors.ErrHookScript, v)
	case string:
		if v != "" {
			return fmt.Errorf("%s %s: %w: %s", hook.Type, hook.Name, errors.ErrHookScript, v)
		}
	}
	return nil
}
