// Package planner works out which mirrored files must change after the
// effective state of assets changes.
//
// The planner is read-only. It compares each target's effective state with
// the status of its local copy under .github/ and produces an ordered list
// of copy and remove operations. Local files that no longer match upstream
// are reported as conflicts instead of being overwritten or deleted, unless
// the plan is forced.
package planner
