package engine

import (
	"fmt"

	"github.com/danieljhkim/assetgate/internal/catalog"
)

// Reset clears every override. With RemoveLocal, the mirrored copy of every
// catalog prompt, instruction and chat mode is deleted first, whatever its
// content; modified copies are backed up before they go.
func (e *Engine) Reset(ws *Workspace, req *ResetRequest) (*ResetResult, error) {
	result := &ResetResult{
		Cleared:      ws.Session.Overrides().Len(),
		RemovedFiles: []string{},
	}

	if req.RemoveLocal {
		res := ws.Session.Resolution()
		for _, kind := range catalog.Kinds() {
			if kind == catalog.KindCollection {
				continue
			}
			for _, v := range res.Views(kind) {
				backup, err := e.backupIfModified(ws, kind, v.Path)
				if err != nil {
					return result, err
				}
				if backup != "" {
					result.BackedUp = append(result.BackedUp, backup)
				}
				removed, err := ws.syncer.RemoveLocal(kind, v.Path)
				if err != nil {
					return result, fmt.Errorf("failed to remove local copy of %s: %w", v.Path, err)
				}
				if removed {
					result.RemovedFiles = append(result.RemovedFiles, v.Path)
				}
			}
		}
	}

	ws.Session.ResetAll()
	ws.Dirty = true
	e.logger.Debug("reset overrides", "cleared", result.Cleared, "removed_files", len(result.RemovedFiles))
	return result, nil
}
