package engine

import (
	"github.com/danieljhkim/assetgate/internal/domain"
	"github.com/danieljhkim/assetgate/internal/planner"
	"github.com/danieljhkim/assetgate/internal/sync"
)

// ToggleResult represents the result of a toggle.
type ToggleResult struct {
	domain.ToggleResult

	// Plan is the sync plan derived from the new state (nil when mirroring
	// is disabled)
	Plan *planner.SyncPlan `json:"plan,omitempty"`

	// Applied is the list of operations that were executed (empty if DryRun)
	Applied []planner.Operation `json:"applied"`

	// BackedUp lists backups of modified files that were overwritten
	BackedUp []string `json:"backed_up,omitempty"`

	DryRun bool `json:"dry_run"`
}

// ApplyResult represents the result of reconciling mirrored files.
type ApplyResult struct {
	Plan     *planner.SyncPlan   `json:"plan"`
	Applied  []planner.Operation `json:"applied"`
	BackedUp []string            `json:"backed_up,omitempty"`
	DryRun   bool                `json:"dry_run"`
}

// CleanupResult represents the result of removing orphaned overrides.
type CleanupResult struct {
	// Orphans are the entries that were removed
	Orphans []domain.OrphanEntry `json:"orphans"`
	Removed int                  `json:"removed"`
}

// ResetResult represents the result of a reset.
type ResetResult struct {
	// Cleared is the number of overrides dropped
	Cleared int `json:"cleared"`

	// RemovedFiles lists local files that were deleted
	RemovedFiles []string `json:"removed_files"`

	// BackedUp lists backups of modified files that were deleted
	BackedUp []string `json:"backed_up,omitempty"`
}

// AssetStatus pairs a resolved view with the state of its local copy.
type AssetStatus struct {
	View  domain.AssetView `json:"view"`
	Local sync.LocalStatus `json:"local"`

	// Error is set when the local status could not be determined
	Error string `json:"error,omitempty"`
}

// InSync reports whether the local copy agrees with effective state.
func (s AssetStatus) InSync() bool {
	if s.Error != "" {
		return false
	}
	switch s.Local {
	case sync.StatusNotApplicable:
		return true
	case sync.StatusSame:
		return s.View.Effective
	case sync.StatusMissing:
		return !s.View.Effective
	}
	return false
}
