// Package domain resolves the effective enable state of every catalog asset
// and implements the mutations on top of it: toggling, collection impact
// preview, orphan cleanup and reset.
//
// Resolution order for a non-collection asset:
//
//  1. its explicit override, if any;
//  2. else the override of a member collection (smallest collection id wins);
//  3. else disabled.
//
// Collections only ever use their explicit override. Nested collections are
// not followed.
package domain

import "github.com/danieljhkim/assetgate/internal/catalog"

// CollectionRef identifies a collection from the point of view of a member.
type CollectionRef struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Name string `json:"name"`
}

// InheritedState is the value an asset would take from a parent collection.
type InheritedState struct {
	Collection CollectionRef `json:"collection"`
	Value      bool          `json:"value"`
}

// Source names which rule produced an asset's effective state.
type Source string

const (
	SourceExplicit  Source = "explicit"
	SourceInherited Source = "inherited"
	SourceDefault   Source = "default"
)

// AssetView is the resolved projection of one catalog entry.
type AssetView struct {
	Kind        catalog.AssetKind `json:"kind"`
	Path        string            `json:"path"`
	Slug        string            `json:"slug"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	ApplyTo     []string          `json:"apply_to,omitempty"`
	Mode        string            `json:"mode,omitempty"`
	Tools       []string          `json:"tools,omitempty"`

	// Collections lists the collections that include this asset, by id.
	Collections []CollectionRef `json:"collections,omitempty"`

	// CollectionID and Members are set for collections only.
	CollectionID string                   `json:"collection_id,omitempty"`
	Members      []catalog.CollectionItem `json:"members,omitempty"`

	Explicit  *bool           `json:"explicit"`
	Inherited *InheritedState `json:"inherited"`
	Effective bool            `json:"effective"`
}

// Source reports which resolution rule decided Effective.
func (v *AssetView) Source() Source {
	switch {
	case v.Explicit != nil:
		return SourceExplicit
	case v.Inherited != nil:
		return SourceInherited
	default:
		return SourceDefault
	}
}

// OrphanEntry is an override whose path is no longer in the catalog.
type OrphanEntry struct {
	Kind  catalog.AssetKind `json:"kind"`
	Path  string            `json:"path"`
	Value bool              `json:"value"`
}

// Resolution is the full set of views for one (catalog, overrides) pair.
type Resolution struct {
	Prompts      []AssetView   `json:"prompts"`
	Instructions []AssetView   `json:"instructions"`
	ChatModes    []AssetView   `json:"chat_modes"`
	Collections  []AssetView   `json:"collections"`
	Orphans      []OrphanEntry `json:"orphans"`
}

// Views returns the sorted views for kind.
func (r *Resolution) Views(kind catalog.AssetKind) []AssetView {
	switch kind {
	case catalog.KindPrompt:
		return r.Prompts
	case catalog.KindInstruction:
		return r.Instructions
	case catalog.KindChatMode:
		return r.ChatModes
	case catalog.KindCollection:
		return r.Collections
	}
	return nil
}

// Find returns the view for path under kind.
func (r *Resolution) Find(kind catalog.AssetKind, path string) (*AssetView, bool) {
	views := r.Views(kind)
	for i := range views {
		if views[i].Path == path {
			return &views[i], true
		}
	}
	return nil, false
}

// EnabledCount counts effective views of kind.
func (r *Resolution) EnabledCount(kind catalog.AssetKind) int {
	n := 0
	for _, v := range r.Views(kind) {
		if v.Effective {
			n++
		}
	}
	return n
}
