package catalog

import "sort"

// Index provides constant-time lookups over a Catalog.
// It is rebuilt whenever the catalog is reloaded and is read-only afterwards.
type Index struct {
	catalog *Catalog

	paths       map[AssetKind]map[string]struct{}
	collByID    map[string]*Collection
	collByPath  map[string]*Collection
	memberships map[string][]string
}

// NewIndex builds the lookup structures for c.
//
// memberships maps an item path to the ids of every collection listing it,
// sorted ascending with duplicates removed.
func NewIndex(c *Catalog) *Index {
	if c == nil {
		c = &Catalog{}
	}
	idx := &Index{
		catalog:     c,
		paths:       make(map[AssetKind]map[string]struct{}, 4),
		collByID:    make(map[string]*Collection, len(c.Collections)),
		collByPath:  make(map[string]*Collection, len(c.Collections)),
		memberships: make(map[string][]string),
	}
	for _, k := range Kinds() {
		idx.paths[k] = make(map[string]struct{}, c.Len(k))
	}
	for i := range c.Prompts {
		idx.paths[KindPrompt][c.Prompts[i].Path] = struct{}{}
	}
	for i := range c.Instructions {
		idx.paths[KindInstruction][c.Instructions[i].Path] = struct{}{}
	}
	for i := range c.ChatModes {
		idx.paths[KindChatMode][c.ChatModes[i].Path] = struct{}{}
	}

	seen := make(map[string]map[string]struct{})
	for i := range c.Collections {
		coll := &c.Collections[i]
		idx.paths[KindCollection][coll.Path] = struct{}{}
		idx.collByPath[coll.Path] = coll
		// First definition wins when two files share an id.
		if _, dup := idx.collByID[coll.ID]; !dup {
			idx.collByID[coll.ID] = coll
		}
		for _, item := range coll.Items {
			ids, ok := seen[item.Path]
			if !ok {
				ids = make(map[string]struct{})
				seen[item.Path] = ids
			}
			if _, dup := ids[coll.ID]; dup {
				continue
			}
			ids[coll.ID] = struct{}{}
			idx.memberships[item.Path] = append(idx.memberships[item.Path], coll.ID)
		}
	}
	for _, ids := range idx.memberships {
		sort.Strings(ids)
	}
	return idx
}

// Catalog returns the indexed catalog.
func (idx *Index) Catalog() *Catalog {
	return idx.catalog
}

// Contains reports whether path exists in the catalog under kind.
func (idx *Index) Contains(kind AssetKind, path string) bool {
	set, ok := idx.paths[kind]
	if !ok {
		return false
	}
	_, ok = set[path]
	return ok
}

// CollectionByID looks up a collection by its id.
func (idx *Index) CollectionByID(id string) (*Collection, bool) {
	c, ok := idx.collByID[id]
	return c, ok
}

// CollectionByPath looks up a collection by its catalog path.
func (idx *Index) CollectionByPath(path string) (*Collection, bool) {
	c, ok := idx.collByPath[path]
	return c, ok
}

// Memberships returns the sorted ids of collections that list path.
// The returned slice must not be modified.
func (idx *Index) Memberships(path string) []string {
	return idx.memberships[path]
}
