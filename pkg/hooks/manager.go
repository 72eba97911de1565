package hooks

import (
	"context"
	"fmt"
	"sync"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/app"
	"github.com/glorpus-work/blnotebook/pkg/errors"
)

// Manager keeps the registered hooks and runs them in registration order.
type Manager struct {
	executor *TengoExecutor
	hooks    map[HookType][]Hook
	mutex    sync.RWMutex
}

// NewManager creates an empty hook manager.
func NewManager() *Manager {
	return &Manager{
		executor: NewTengoExecutor(),
		hooks:    make(map[HookType][]Hook),
	}
}

// AddHook registers a hook.
func (m *Manager) AddHook(hook Hook) error {
	if hook.Type == "" {
		return fmt.Errorf("hook type cannot be empty: %w", errors.ErrHookLoad)
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.hooks[hook.Type] = append(m.hooks[hook.Type], hook)
	return nil
}

// HasHook checks if a hook of the specified type exists.
func (m *Manager) HasHook(hookType HookType) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.hooks[hookType]) > 0
}

// Execute runs every hook of hookType, stopping at the first failure.
func (m *Manager) Execute(ctx context.Context, hookType HookType, hctx Context) error {
	m.mutex.RLock()
	hooks := append([]Hook(nil), m.hooks[hookType]...)
	m.mutex.RUnlock()

	for _, h := range hooks {
		logger.Debug("running hook", logger.Fields{"type": string(hookType), "name": h.Name})
		if err := m.executor.Execute(ctx, h, hctx); err != nil {
			return err
		}
	}
	return nil
}

// PostInstall runs the post-install hooks for a freshly installed a.
func (m *Manager) PostInstall(ctx context.Context, a *app.App) error {
	return m.Execute(ctx, PostInstall, ContextFromApp(a))
}
