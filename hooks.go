package oscalreports

import (
	"sync"

	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/differ"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/reconciler"
)

// Hook function types for control events
type (
	// ControlNewHook is called for a control the prior plan did not have.
	ControlNewHook func(entry reconciler.Entry)

	// ControlChangedHook is called for a control whose catalog text changed.
	ControlChangedHook func(entry reconciler.Entry)

	// ControlRemovedHook is called for a control that left the catalog.
	ControlRemovedHook func(entry reconciler.Entry)
)

// Hooks registers callbacks fired after each successful reconciliation, in
// report order.
type Hooks interface {
	OnControlNew(ControlNewHook)
	OnControlChanged(ControlChangedHook)
	OnControlRemoved(ControlRemovedHook)
}

// hooks manages event callbacks for reconciliation results
type hooks struct {
	mu               sync.RWMutex
	onControlNew     []ControlNewHook
	onControlChanged []ControlChangedHook
	onControlRemoved []ControlRemovedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnControlNew registers a callback for new controls
func (c *client) OnControlNew(fn ControlNewHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onControlNew = append(c.hooks.onControlNew, fn)
}

// OnControlChanged registers a callback for changed controls
func (c *client) OnControlChanged(fn ControlChangedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onControlChanged = append(c.hooks.onControlChanged, fn)
}

// OnControlRemoved registers a callback for removed controls
func (c *client) OnControlRemoved(fn ControlRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onControlRemoved = append(c.hooks.onControlRemoved, fn)
}

// trigger fires the registered hooks for every entry of report
func (h *hooks) trigger(report *reconciler.Report) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, entry := range report.Entries {
		switch entry.Status {
		case differ.StatusNew:
			for _, hook := range h.onControlNew {
				hook(entry)
			}
		case differ.StatusChanged:
			for _, hook := range h.onControlChanged {
				hook(entry)
			}
		case differ.StatusRemoved:
			for _, hook := range h.onControlRemoved {
				hook(entry)
			}
		}
	}
}
