package planner

import (
	"fmt"

	"github.com/danieljhkim/assetgate/internal/sync"
)

// ConflictChecker decides whether an operation may touch a local file.
type ConflictChecker struct {
	force bool
}

// NewConflictChecker creates a new ConflictChecker.
func NewConflictChecker(force bool) *ConflictChecker {
	return &ConflictChecker{force: force}
}

// Check returns a Conflict if running opType against a local copy in the
// given status would lose local edits, or nil if the operation is safe.
func (c *ConflictChecker) Check(target Target, opType string, status sync.LocalStatus, statusErr error) *Conflict {
	if statusErr != nil {
		return &Conflict{
			Kind:     target.Kind,
			Path:     target.Path,
			Reason:   fmt.Sprintf("Failed to check local file: %v", statusErr),
			Existing: "unknown",
			Incoming: opType,
		}
	}

	if status != sync.StatusDiff || c.force {
		return nil
	}

	reason := "Local file differs from upstream and would be overwritten"
	if opType == OpRemove {
		reason = "Local file differs from upstream and would be deleted"
	}
	return &Conflict{
		Kind:     target.Kind,
		Path:     target.Path,
		Reason:   reason,
		Existing: "modified",
		Incoming: opType,
	}
}
