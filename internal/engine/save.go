package engine

import "fmt"

// Save persists the workspace overrides and clears Dirty.
func (e *Engine) Save(ws *Workspace) error {
	if err := e.stateStore.Save(ws.Session.Overrides()); err != nil {
		return fmt.Errorf("failed to write enablement file: %w", err)
	}
	ws.Dirty = false
	e.logger.Debug("saved overrides", "entries", ws.Session.Overrides().Len())
	return nil
}
