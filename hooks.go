package dimcheck

import (
	"sync"

	"github.com/agentstation/dimcheck/pkg/report"
)

// Hook function types for run events
type (
	// UnitFailedHook is called for each unit outside tolerance
	UnitFailedHook func(row report.Row)

	// UnitUnresolvedHook is called for each unit whose box type is not selected
	UnitUnresolvedHook func(row report.Row)

	// RunCompleteHook is called once a report has been built
	RunCompleteHook func(r *report.Report)
)

// hooks manages event callbacks for reconciliation runs
type hooks struct {
	mu               sync.RWMutex
	onUnitFailed     []UnitFailedHook
	onUnitUnresolved []UnitUnresolvedHook
	onRunComplete    []RunCompleteHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnUnitFailed registers a callback for units outside tolerance
func (h *hooks) OnUnitFailed(fn UnitFailedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUnitFailed = append(h.onUnitFailed, fn)
}

// OnUnitUnresolved registers a callback for unresolved units
func (h *hooks) OnUnitUnresolved(fn UnitUnresolvedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUnitUnresolved = append(h.onUnitUnresolved, fn)
}

// OnRunComplete registers a callback for finished runs
func (h *hooks) OnRunComplete(fn RunCompleteHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRunComplete = append(h.onRunComplete, fn)
}

// trigger fires row hooks in ingestion order, then the completion hooks.
func (h *hooks) trigger(r *report.Report) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, row := range r.Rows {
		switch {
		case row.Failed():
			for _, fn := range h.onUnitFailed {
				fn(row)
			}
		case row.Delta == nil:
			for _, fn := range h.onUnitUnresolved {
				fn(row)
			}
		}
	}
	for _, fn := range h.onRunComplete {
		fn(r)
	}
}
