package engine

import "github.com/danieljhkim/assetgate/internal/catalog"

// OpenRequest represents a request to load a workspace.
type OpenRequest struct {
	// Refresh forces a new upstream snapshot even if the cached one is fresh
	Refresh bool
}

// ToggleRequest represents a request to toggle one asset.
type ToggleRequest struct {
	Kind catalog.AssetKind

	// Path is the catalog path of the asset
	Path string

	// Force allows overwriting or deleting locally modified files
	Force bool

	// DryRun computes the new state and sync plan without changing anything
	DryRun bool
}

// ApplyRequest represents a request to bring mirrored files in line with
// effective state.
type ApplyRequest struct {
	// Kind and Path select one asset. An empty Path reconciles every asset.
	// A collection path reconciles its members.
	Kind catalog.AssetKind
	Path string

	// Force allows overwriting or deleting locally modified files
	Force bool

	// DryRun performs planning only without making changes
	DryRun bool
}

// ResetRequest represents a request to clear every override.
type ResetRequest struct {
	// RemoveLocal also deletes mirrored files of every catalog asset
	RemoveLocal bool
}
