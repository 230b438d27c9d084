package planner

import "github.com/danieljhkim/assetgate/internal/catalog"

// SyncPlan represents a plan to bring .github/ in line with effective state.
type SyncPlan struct {
	// Operations is the ordered list of operations to execute
	Operations []Operation

	// Conflicts is a list of detected conflicts (empty if no conflicts)
	Conflicts []Conflict

	// Skipped counts targets whose local copy already matches
	Skipped int
}

// Operation represents a single mirror operation to execute.
type Operation struct {
	// Type is the operation type: "copy" or "remove"
	Type string `json:"type"`

	Kind catalog.AssetKind `json:"kind"`

	// Path is the catalog path of the asset
	Path string `json:"path"`
}

// Conflict represents a conflict detected during planning.
type Conflict struct {
	Kind catalog.AssetKind `json:"kind"`
	Path string            `json:"path"`

	// Reason is a human-readable explanation of the conflict
	Reason string `json:"reason"`

	// Existing describes the local copy
	Existing string `json:"existing"`

	// Incoming is the operation the plan wanted to run
	Incoming string `json:"incoming"`
}

// Operation type constants
const (
	OpCopy   = "copy"
	OpRemove = "remove"
)

// NewSyncPlan creates a new empty SyncPlan.
func NewSyncPlan() *SyncPlan {
	return &SyncPlan{
		Operations: []Operation{},
		Conflicts:  []Conflict{},
	}
}

// HasConflicts returns true if the plan has any conflicts.
func (p *SyncPlan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// IsEmpty reports whether executing the plan would change nothing.
func (p *SyncPlan) IsEmpty() bool {
	return len(p.Operations) == 0
}

// AddOperation adds an operation to the plan.
func (p *SyncPlan) AddOperation(op Operation) {
	p.Operations = append(p.Operations, op)
}

// AddConflict adds a conflict to the plan.
func (p *SyncPlan) AddConflict(conflict Conflict) {
	p.Conflicts = append(p.Conflicts, conflict)
}

// Count returns how many operations of opType the plan holds.
func (p *SyncPlan) Count(opType string) int {
	n := 0
	for _, op := range p.Operations {
		if op.Type == opType {
			n++
		}
	}
	return n
}
