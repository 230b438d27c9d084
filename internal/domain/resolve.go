package domain

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/state"
)

// Resolve computes every asset view and the orphan list. It is a pure
// function of its inputs.
func Resolve(idx *catalog.Index, overrides *state.OverrideFile) *Resolution {
	cat := idx.Catalog()
	r := &Resolution{
		Prompts:      make([]AssetView, 0, len(cat.Prompts)),
		Instructions: make([]AssetView, 0, len(cat.Instructions)),
		ChatModes:    make([]AssetView, 0, len(cat.ChatModes)),
		Collections:  make([]AssetView, 0, len(cat.Collections)),
	}

	for _, p := range cat.Prompts {
		v := AssetView{
			Kind: catalog.KindPrompt, Path: p.Path, Slug: p.Slug, Name: p.Name,
			Description: p.Description, Tags: p.Tags, Mode: p.Mode,
		}
		resolveMember(&v, idx, overrides)
		r.Prompts = append(r.Prompts, v)
	}
	for _, in := range cat.Instructions {
		v := AssetView{
			Kind: catalog.KindInstruction, Path: in.Path, Slug: in.Slug, Name: in.Name,
			Description: in.Description, Tags: in.Tags, ApplyTo: in.ApplyTo,
		}
		resolveMember(&v, idx, overrides)
		r.Instructions = append(r.Instructions, v)
	}
	for _, cm := range cat.ChatModes {
		v := AssetView{
			Kind: catalog.KindChatMode, Path: cm.Path, Slug: cm.Slug, Name: cm.Name,
			Description: cm.Description, Tags: cm.Tags, Tools: cm.Tools,
		}
		resolveMember(&v, idx, overrides)
		r.ChatModes = append(r.ChatModes, v)
	}
	for _, c := range cat.Collections {
		v := AssetView{
			Kind: catalog.KindCollection, Path: c.Path, Slug: c.Slug, Name: c.Name,
			Description: c.Description, Tags: c.Tags,
			CollectionID: c.ID, Members: c.Items,
		}
		if val, ok := overrides.Get(catalog.KindCollection, c.Path); ok {
			v.Explicit = boolPtr(val)
			v.Effective = val
		}
		r.Collections = append(r.Collections, v)
	}

	sortByName(r.Prompts)
	sortByName(r.Instructions)
	sortByName(r.ChatModes)
	sortByName(r.Collections)

	r.Orphans = findOrphans(idx, overrides)
	return r
}

// resolveMember fills membership, explicit, inherited and effective state for
// a non-collection asset.
func resolveMember(v *AssetView, idx *catalog.Index, overrides *state.OverrideFile) {
	ids := idx.Memberships(v.Path)
	if len(ids) > 0 {
		v.Collections = make([]CollectionRef, 0, len(ids))
	}
	for _, id := range ids {
		coll, ok := idx.CollectionByID(id)
		if !ok {
			continue
		}
		ref := CollectionRef{ID: coll.ID, Path: coll.Path, Name: coll.Name}
		v.Collections = append(v.Collections, ref)

		// ids are sorted, so the first overridden collection is the smallest.
		if v.Inherited == nil {
			if val, ok := overrides.Get(catalog.KindCollection, coll.Path); ok {
				v.Inherited = &InheritedState{Collection: ref, Value: val}
			}
		}
	}

	if val, ok := overrides.Get(v.Kind, v.Path); ok {
		v.Explicit = boolPtr(val)
	}

	switch {
	case v.Explicit != nil:
		v.Effective = *v.Explicit
	case v.Inherited != nil:
		v.Effective = v.Inherited.Value
	default:
		v.Effective = false
	}
}

// sortByName orders views case-insensitively by name, keeping catalog order
// for equal names.
func sortByName(views []AssetView) {
	lower := cases.Lower(language.Und)
	keys := make(map[string]string, len(views))
	for _, v := range views {
		if _, ok := keys[v.Name]; !ok {
			keys[v.Name] = lower.String(v.Name)
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		return keys[views[i].Name] < keys[views[j].Name]
	})
}

func findOrphans(idx *catalog.Index, overrides *state.OverrideFile) []OrphanEntry {
	var out []OrphanEntry
	for _, kind := range catalog.Kinds() {
		for _, e := range overrides.Entries(kind) {
			if !idx.Contains(kind, e.Path) {
				out = append(out, OrphanEntry{Kind: kind, Path: e.Path, Value: e.Value})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func boolPtr(b bool) *bool {
	return &b
}
