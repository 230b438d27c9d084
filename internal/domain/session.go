package domain

import (
	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/state"
)

// Baseline selects the value a toggle compares against when an asset has no
// inherited state.
type Baseline string

const (
	// BaselineObserved treats uninherited prompts, instructions and chat modes
	// as enabled when deciding whether to write or clear an override. Toggling
	// such an asset while it is disabled and unoverridden is a no-op.
	BaselineObserved Baseline = "observed"

	// BaselineResolver uses the resolver default (disabled), so every toggle
	// flips the effective state.
	BaselineResolver Baseline = "resolver"
)

// Options tune Session behavior.
type Options struct {
	Baseline Baseline
}

// Session owns a catalog, its overrides and the current resolution.
// All mutations re-resolve before returning. A Session is not safe for
// concurrent use.
type Session struct {
	catalog    *catalog.Catalog
	index      *catalog.Index
	overrides  *state.OverrideFile
	resolution *Resolution
	opts       Options
}

// NewSession indexes cat and resolves it against overrides. The session takes
// ownership of overrides.
func NewSession(cat *catalog.Catalog, overrides *state.OverrideFile, opts Options) *Session {
	if overrides == nil {
		overrides = state.NewOverrideFile()
	}
	if opts.Baseline == "" {
		opts.Baseline = BaselineObserved
	}
	s := &Session{
		catalog:   cat,
		index:     catalog.NewIndex(cat),
		overrides: overrides,
		opts:      opts,
	}
	s.resolve()
	return s
}

func (s *Session) resolve() {
	s.resolution = Resolve(s.index, s.overrides)
}

// Catalog returns the immutable catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Index returns the catalog index.
func (s *Session) Index() *catalog.Index { return s.index }

// Overrides returns the live override file. Callers must not mutate it
// directly; use the Session operations.
func (s *Session) Overrides() *state.OverrideFile { return s.overrides }

// Resolution returns the current views.
func (s *Session) Resolution() *Resolution { return s.resolution }

// Orphans returns the current orphan list.
func (s *Session) Orphans() []OrphanEntry { return s.resolution.Orphans }

// ReplaceOverrides swaps in a new override file and re-resolves. It is used to
// roll back a mutation whose side effects failed.
func (s *Session) ReplaceOverrides(overrides *state.OverrideFile) {
	s.overrides = overrides
	s.resolve()
}

// CleanupOrphans deletes every orphaned override and returns how many were
// removed. Calling it again without new orphans returns 0.
func (s *Session) CleanupOrphans() int {
	orphans := Resolve(s.index, s.overrides).Orphans
	removed := 0
	for _, o := range orphans {
		if s.overrides.Delete(o.Kind, o.Path) {
			removed++
		}
	}
	s.resolve()
	return removed
}

// ResetAll drops every override and the last-saved timestamp.
func (s *Session) ResetAll() {
	s.overrides.Clear()
	s.resolve()
}
