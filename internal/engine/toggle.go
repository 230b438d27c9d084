package engine

import (
	"fmt"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/domain"
	"github.com/danieljhkim/assetgate/internal/planner"
)

// Toggle flips one asset and mirrors the result.
//
// Algorithm steps:
// 1. Snapshot the overrides so the toggle can be rolled back
// 2. Toggle in the domain session (minimal override footprint)
// 3. Plan copies/removals for the asset, or every member of a collection
// 4. Roll back on conflicts or DryRun; otherwise execute the plan
// 5. If execution stops partway, keep the toggle so files already mirrored
//    match effective state, and report ErrPartialSync
func (e *Engine) Toggle(ws *Workspace, req *ToggleRequest) (*ToggleResult, error) {
	before := ws.Session.Overrides().Clone()

	toggled, err := ws.Session.Toggle(req.Kind, req.Path)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("toggled asset",
		"kind", req.Kind, "path", req.Path,
		"change", toggled.Change, "effective", toggled.View.Effective)

	result := &ToggleResult{
		ToggleResult: toggled,
		Applied:      []planner.Operation{},
		DryRun:       req.DryRun,
	}

	if e.settings.Sync.Mirror {
		result.Plan = planner.BuildSyncPlan(e.toggleTargets(ws, &toggled.View), ws.syncer.Status, req.Force)
		if result.Plan.HasConflicts() {
			ws.Session.ReplaceOverrides(before)
			return result, fmt.Errorf("%w: %d conflicts detected", ErrConflict, len(result.Plan.Conflicts))
		}
	}

	if req.DryRun {
		ws.Session.ReplaceOverrides(before)
		return result, nil
	}

	if result.Plan != nil {
		applied, backedUp, err := e.executePlan(ws, result.Plan)
		result.Applied = applied
		result.BackedUp = backedUp
		if err != nil {
			ws.Dirty = true
			return result, fmt.Errorf("%w (%d of %d operations applied): %w",
				ErrPartialSync, len(applied), len(result.Plan.Operations), err)
		}
	}

	ws.Dirty = true
	return result, nil
}

// toggleTargets lists the assets whose mirror may change after v toggled.
func (e *Engine) toggleTargets(ws *Workspace, v *domain.AssetView) []planner.Target {
	if v.Kind != catalog.KindCollection {
		return []planner.Target{{Kind: v.Kind, Path: v.Path, Effective: v.Effective}}
	}
	return memberTargets(ws.Session.Resolution(), v.Members)
}

// memberTargets resolves collection items to targets, skipping items that
// are not in the catalog.
func memberTargets(res *domain.Resolution, items []catalog.CollectionItem) []planner.Target {
	targets := make([]planner.Target, 0, len(items))
	for _, item := range items {
		view, ok := res.Find(item.Kind, item.Path)
		if !ok {
			continue
		}
		targets = append(targets, planner.Target{Kind: view.Kind, Path: view.Path, Effective: view.Effective})
	}
	return targets
}

// Impact previews the effect of toggling the collection at path.
func (e *Engine) Impact(ws *Workspace, path string) (*domain.Impact, error) {
	return ws.Session.AnalyzeCollectionToggle(path)
}
