package engine

import "github.com/danieljhkim/assetgate/internal/domain"

// CleanupOrphans removes overrides for paths that are no longer in the
// catalog.
func (e *Engine) CleanupOrphans(ws *Workspace) *CleanupResult {
	orphans := append([]domain.OrphanEntry{}, ws.Session.Orphans()...)
	removed := ws.Session.CleanupOrphans()
	if removed > 0 {
		ws.Dirty = true
	}
	e.logger.Debug("cleaned up orphans", "removed", removed)
	return &CleanupResult{
		Orphans: orphans,
		Removed: removed,
	}
}
