package state

import (
	"sort"
	"time"

	"github.com/danieljhkim/assetgate/internal/catalog"
)

// CurrentVersion is the override file format written by this build.
const CurrentVersion = 1

// OverrideFile is the persisted set of explicit enable/disable overrides.
// Absence of an entry means "no opinion"; the resolver falls back to
// collection inheritance and then to disabled.
type OverrideFile struct {
	Version      int             `json:"version" validate:"gte=0"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
	Prompts      map[string]bool `json:"prompts" validate:"dive,keys,required,endkeys"`
	Instructions map[string]bool `json:"instructions" validate:"dive,keys,required,endkeys"`
	ChatModes    map[string]bool `json:"chat_modes" validate:"dive,keys,required,endkeys"`
	Collections  map[string]bool `json:"collections" validate:"dive,keys,required,endkeys"`
}

// Entry is one explicit override.
type Entry struct {
	Kind  catalog.AssetKind
	Path  string
	Value bool
}

// NewOverrideFile returns the default file: version 1, no overrides.
func NewOverrideFile() *OverrideFile {
	return &OverrideFile{
		Version:      CurrentVersion,
		Prompts:      make(map[string]bool),
		Instructions: make(map[string]bool),
		ChatModes:    make(map[string]bool),
		Collections:  make(map[string]bool),
	}
}

// normalize fills nil maps and upgrades a zero version.
func (f *OverrideFile) normalize() {
	if f.Version == 0 {
		f.Version = CurrentVersion
	}
	if f.Prompts == nil {
		f.Prompts = make(map[string]bool)
	}
	if f.Instructions == nil {
		f.Instructions = make(map[string]bool)
	}
	if f.ChatModes == nil {
		f.ChatModes = make(map[string]bool)
	}
	if f.Collections == nil {
		f.Collections = make(map[string]bool)
	}
}

func (f *OverrideFile) mapFor(kind catalog.AssetKind) map[string]bool {
	switch kind {
	case catalog.KindPrompt:
		return f.Prompts
	case catalog.KindInstruction:
		return f.Instructions
	case catalog.KindChatMode:
		return f.ChatModes
	case catalog.KindCollection:
		return f.Collections
	}
	return nil
}

// Get returns the explicit override for path, if any.
func (f *OverrideFile) Get(kind catalog.AssetKind, path string) (bool, bool) {
	v, ok := f.mapFor(kind)[path]
	return v, ok
}

// Set records an explicit override.
func (f *OverrideFile) Set(kind catalog.AssetKind, path string, value bool) {
	f.normalize()
	f.mapFor(kind)[path] = value
}

// Delete removes an explicit override. It reports whether one existed.
func (f *OverrideFile) Delete(kind catalog.AssetKind, path string) bool {
	m := f.mapFor(kind)
	if _, ok := m[path]; !ok {
		return false
	}
	delete(m, path)
	return true
}

// Entries lists every override of kind sorted by path.
func (f *OverrideFile) Entries(kind catalog.AssetKind) []Entry {
	m := f.mapFor(kind)
	out := make([]Entry, 0, len(m))
	for p, v := range m {
		out = append(out, Entry{Kind: kind, Path: p, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Len counts overrides across all kinds.
func (f *OverrideFile) Len() int {
	return len(f.Prompts) + len(f.Instructions) + len(f.ChatModes) + len(f.Collections)
}

// Clear drops every override and the timestamp.
func (f *OverrideFile) Clear() {
	f.Prompts = make(map[string]bool)
	f.Instructions = make(map[string]bool)
	f.ChatModes = make(map[string]bool)
	f.Collections = make(map[string]bool)
	f.UpdatedAt = nil
}

// Clone returns a deep copy.
func (f *OverrideFile) Clone() *OverrideFile {
	c := &OverrideFile{
		Version:      f.Version,
		Prompts:      cloneMap(f.Prompts),
		Instructions: cloneMap(f.Instructions),
		ChatModes:    cloneMap(f.ChatModes),
		Collections:  cloneMap(f.Collections),
	}
	if f.UpdatedAt != nil {
		t := *f.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}

func cloneMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
