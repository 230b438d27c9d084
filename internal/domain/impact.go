package domain

import (
	"fmt"

	"github.com/danieljhkim/assetgate/internal/catalog"
)

// ImpactKind classifies how a collection toggle affects one member.
type ImpactKind string

const (
	WillEnable  ImpactKind = "will_enable"
	WillDisable ImpactKind = "will_disable"
	Unchanged   ImpactKind = "unchanged"
)

// MemberImpact is the projected effect on one listed item.
type MemberImpact struct {
	Kind   catalog.AssetKind `json:"kind"`
	Path   string            `json:"path"`
	Name   string            `json:"name"`
	Before bool              `json:"before"`
	After  bool              `json:"after"`
	Impact ImpactKind        `json:"impact"`

	// Explicit members keep their own override regardless of the collection.
	Explicit bool `json:"explicit"`
}

// Impact previews what toggling a collection would do to its members.
type Impact struct {
	Collection     CollectionRef            `json:"collection"`
	WillEnable     bool                     `json:"will_enable"`
	Members        []MemberImpact           `json:"members"`
	Missing        []catalog.CollectionItem `json:"missing,omitempty"`
	EnableCount    int                      `json:"enable_count"`
	DisableCount   int                      `json:"disable_count"`
	UnchangedCount int                      `json:"unchanged_count"`
	TotalMembers   int                      `json:"total_members"`
}

// AnalyzeCollectionToggle previews a toggle of the collection at path. A
// member with its own override keeps its effective state; every other member
// is assumed to follow the collection to its new state. The session is not
// modified.
func (s *Session) AnalyzeCollectionToggle(path string) (*Impact, error) {
	coll, ok := s.resolution.Find(catalog.KindCollection, path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, path)
	}

	imp := &Impact{
		Collection:   CollectionRef{ID: coll.CollectionID, Path: coll.Path, Name: coll.Name},
		WillEnable:   !coll.Effective,
		TotalMembers: len(coll.Members),
	}
	for _, item := range coll.Members {
		cur, ok := s.resolution.Find(item.Kind, item.Path)
		if !ok {
			imp.Missing = append(imp.Missing, item)
			continue
		}
		after := imp.WillEnable
		if cur.Explicit != nil {
			after = cur.Effective
		}

		m := MemberImpact{
			Kind:     item.Kind,
			Path:     item.Path,
			Name:     cur.Name,
			Before:   cur.Effective,
			After:    after,
			Explicit: cur.Explicit != nil,
		}
		switch {
		case m.Before == m.After:
			m.Impact = Unchanged
			imp.UnchangedCount++
		case m.After:
			m.Impact = WillEnable
			imp.EnableCount++
		default:
			m.Impact = WillDisable
			imp.DisableCount++
		}
		imp.Members = append(imp.Members, m)
	}
	return imp, nil
}
