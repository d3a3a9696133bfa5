package actions

import (
	"context"

	"github.com/stake-plus/capapp/src/actions/core"
	"go.uber.org/zap"
)

type (
	// Manager re-exports the core.Manager for consumers outside the actions package.
	Manager = core.Manager
	// Module re-exports the core.Module interface.
	Module = core.Module
)

// NewManager is a helper that forwards to core.NewManager.
func NewManager(mods ...Module) *Manager {
	return core.NewManager(mods...)
}

// closerModule releases a shared resource when the manager stops. Registered before
// the modules that use the resource so it is released after them.
type closerModule struct {
	name  string
	close func() error
	log   *zap.Logger
}

func closer(name string, close func() error, log *zap.Logger) Module {
	return &closerModule{name: name, close: close, log: log}
}

func (c *closerModule) Name() string { return c.name }

func (c *closerModule) Start(ctx context.Context) error { return nil }

func (c *closerModule) Stop(ctx context.Context) {
	if err := c.close(); err != nil {
		c.log.Warn("actions: close", zap.String("resource", c.name), zap.Error(err))
	}
}
