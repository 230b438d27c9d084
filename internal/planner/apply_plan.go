package planner

import (
	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/sync"
)

// Target is an asset together with the effective state it should have.
type Target struct {
	Kind      catalog.AssetKind
	Path      string
	Effective bool
}

// StatusFunc reports the local status of an asset. *sync.Syncer's Status
// method satisfies it.
type StatusFunc func(kind catalog.AssetKind, path string) (sync.LocalStatus, error)

// BuildSyncPlan generates a deterministic plan that mirrors targets.
//
// An effective target whose local copy is not identical to upstream is
// copied; a non-effective target with a local copy is removed. Collections
// are skipped, as are repeated targets. Locally modified files conflict
// unless force is set. Operations follow the order of targets.
func BuildSyncPlan(targets []Target, status StatusFunc, force bool) *SyncPlan {
	plan := NewSyncPlan()
	checker := NewConflictChecker(force)
	seen := make(map[Target]bool)

	for _, target := range targets {
		if target.Kind == catalog.KindCollection {
			continue
		}
		key := Target{Kind: target.Kind, Path: target.Path}
		if seen[key] {
			continue
		}
		seen[key] = true

		st, err := status(target.Kind, target.Path)

		opType := ""
		switch {
		case err != nil:
			opType = OpCopy
			if !target.Effective {
				opType = OpRemove
			}
		case target.Effective && st != sync.StatusSame:
			opType = OpCopy
		case !target.Effective && st.Present():
			opType = OpRemove
		}
		if opType == "" {
			plan.Skipped++
			continue
		}

		if conflict := checker.Check(target, opType, st, err); conflict != nil {
			plan.AddConflict(*conflict)
			continue
		}
		plan.AddOperation(Operation{
			Type: opType,
			Kind: target.Kind,
			Path: target.Path,
		})
	}

	return plan
}
