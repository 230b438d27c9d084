package engine

import (
	"fmt"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/domain"
	"github.com/danieljhkim/assetgate/internal/planner"
)

// Apply reconciles mirrored files with effective state without touching the
// overrides. A single asset is copied from upstream regardless of its state,
// refreshing a stale local copy; a collection reconciles its members; an
// empty path reconciles the whole catalog.
func (e *Engine) Apply(ws *Workspace, req *ApplyRequest) (*ApplyResult, error) {
	res := ws.Session.Resolution()

	var targets []planner.Target
	switch {
	case req.Path == "":
		for _, kind := range catalog.Kinds() {
			for _, v := range res.Views(kind) {
				targets = append(targets, planner.Target{Kind: v.Kind, Path: v.Path, Effective: v.Effective})
			}
		}
	case req.Kind == catalog.KindCollection:
		v, ok := res.Find(req.Kind, req.Path)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, req.Path)
		}
		targets = memberTargets(res, v.Members)
	default:
		if _, ok := res.Find(req.Kind, req.Path); !ok {
			return nil, fmt.Errorf("%w: %s %s", domain.ErrAssetNotFound, req.Kind, req.Path)
		}
		targets = []planner.Target{{Kind: req.Kind, Path: req.Path, Effective: true}}
	}

	plan := planner.BuildSyncPlan(targets, ws.syncer.Status, req.Force)
	result := &ApplyResult{
		Plan:    plan,
		Applied: []planner.Operation{},
		DryRun:  req.DryRun,
	}

	if plan.HasConflicts() {
		return result, fmt.Errorf("%w: %d conflicts detected", ErrConflict, len(plan.Conflicts))
	}
	if req.DryRun {
		return result, nil
	}

	applied, backedUp, err := e.executePlan(ws, plan)
	result.Applied = applied
	result.BackedUp = backedUp
	if err != nil {
		return result, err
	}
	return result, nil
}
