package engine

import "errors"

var (
	// ErrConflict indicates local edits would be lost by a sync plan.
	ErrConflict = errors.New("conflict detected")

	// ErrPartialSync indicates a sync plan stopped after some operations
	// ran. The new state is kept; apply finishes the mirror.
	ErrPartialSync = errors.New("sync stopped partway")

	// ErrAmbiguous indicates an asset argument matched more than one asset.
	ErrAmbiguous = errors.New("ambiguous asset")

	// ErrNoContent indicates neither a content directory nor a snapshot
	// provider is configured.
	ErrNoContent = errors.New("no catalog source configured")
)
