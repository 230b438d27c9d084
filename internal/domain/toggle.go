package domain

import (
	"fmt"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/state"
)

// ChangeType is what a toggle did to the override file.
type ChangeType string

const (
	ChangeSet     ChangeType = "set"
	ChangeCleared ChangeType = "cleared"
)

// ToggleResult describes a completed toggle.
type ToggleResult struct {
	View      AssetView  `json:"view"`
	Change    ChangeType `json:"change"`
	Before    bool       `json:"before"`
	Requested bool       `json:"requested"`
}

// Flipped reports whether the effective state actually changed.
func (r ToggleResult) Flipped() bool {
	return r.View.Effective != r.Before
}

// Toggle requests the opposite of the asset's effective state while storing
// as few overrides as possible: when the requested value equals the value the
// asset would have without an override, the override is removed instead of
// written.
func (s *Session) Toggle(kind catalog.AssetKind, path string) (ToggleResult, error) {
	current, ok := s.resolution.Find(kind, path)
	if !ok {
		return ToggleResult{}, fmt.Errorf("%w: %s %s", ErrAssetNotFound, kind, path)
	}

	before := current.Effective
	desired := !before
	change := applyToggle(s.overrides, current, desired, s.fallback(kind))
	s.resolve()

	updated, _ := s.resolution.Find(kind, path)
	return ToggleResult{
		View:      *updated,
		Change:    change,
		Before:    before,
		Requested: desired,
	}, nil
}

// applyToggle writes or clears the override for v so that it requests
// desired.
func applyToggle(overrides *state.OverrideFile, v *AssetView, desired, fallback bool) ChangeType {
	baseline := fallback
	if v.Inherited != nil {
		baseline = v.Inherited.Value
	}
	if desired == baseline {
		overrides.Delete(v.Kind, v.Path)
		return ChangeCleared
	}
	overrides.Set(v.Kind, v.Path, desired)
	return ChangeSet
}

// fallback is the baseline for assets without inherited state.
func (s *Session) fallback(kind catalog.AssetKind) bool {
	// Collections deliberately use the resolver default rather than the
	// observed true baseline, so enabling a disabled collection always writes
	// an explicit true override.
	if kind == catalog.KindCollection {
		return false
	}
	return s.opts.Baseline != BaselineResolver
}
