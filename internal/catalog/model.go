// Package catalog holds the immutable asset catalog and its lookup index.
//
// A catalog is built once from an upstream content snapshot (or a local content
// directory) and never mutated afterwards. Prompts, instructions and chat modes
// are standalone assets; collections group them by path and carry their own
// enable state.
package catalog

import (
	"fmt"
	"strings"
)

// AssetKind identifies one of the four asset namespaces.
type AssetKind int

const (
	KindPrompt AssetKind = iota
	KindInstruction
	KindChatMode
	KindCollection
)

// Kinds returns every kind in display order.
func Kinds() []AssetKind {
	return []AssetKind{KindPrompt, KindInstruction, KindChatMode, KindCollection}
}

// String returns the canonical lowercase name of the kind.
func (k AssetKind) String() string {
	switch k {
	case KindPrompt:
		return "prompt"
	case KindInstruction:
		return "instruction"
	case KindChatMode:
		return "chatmode"
	case KindCollection:
		return "collection"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Label returns a human readable plural label.
func (k AssetKind) Label() string {
	switch k {
	case KindPrompt:
		return "Prompts"
	case KindInstruction:
		return "Instructions"
	case KindChatMode:
		return "Chat Modes"
	case KindCollection:
		return "Collections"
	default:
		return k.String()
	}
}

// Dir returns the top-level directory that holds assets of this kind, both in
// the upstream snapshot and under .github/.
func (k AssetKind) Dir() string {
	switch k {
	case KindPrompt:
		return "prompts"
	case KindInstruction:
		return "instructions"
	case KindChatMode:
		return "chatmodes"
	case KindCollection:
		return "collections"
	default:
		return ""
	}
}

// ParseKind accepts singular, plural and underscore spellings.
func ParseKind(s string) (AssetKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prompt", "prompts":
		return KindPrompt, nil
	case "instruction", "instructions":
		return KindInstruction, nil
	case "chatmode", "chatmodes", "chat_mode", "chat_modes", "chat-mode", "chat-modes":
		return KindChatMode, nil
	case "collection", "collections":
		return KindCollection, nil
	default:
		return 0, fmt.Errorf("unknown asset kind %q", s)
	}
}

// MarshalText encodes the kind by name.
func (k AssetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *AssetKind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Prompt is a reusable prompt file (*.prompt.md).
type Prompt struct {
	Path        string
	Slug        string
	Name        string
	Description string
	Mode        string
	Tags        []string
	SHA256      string
}

// Instruction is a custom instruction file (*.instructions.md).
type Instruction struct {
	Path        string
	Slug        string
	Name        string
	Description string
	ApplyTo     []string
	Tags        []string
	SHA256      string
}

// ChatMode is a chat mode definition (*.chatmode.md).
type ChatMode struct {
	Path        string
	Slug        string
	Name        string
	Description string
	Tools       []string
	Tags        []string
	SHA256      string
}

// CollectionItem references another asset by kind and path.
type CollectionItem struct {
	Path string    `json:"path"`
	Kind AssetKind `json:"kind"`
}

// Collection is a named group of assets (*.collection.yml).
// ID is stable across renames of the file and is used for tie-breaks.
type Collection struct {
	Path        string
	ID          string
	Slug        string
	Name        string
	Description string
	Tags        []string
	Items       []CollectionItem
	SHA256      string
}

// Catalog is the flat list of everything available upstream.
type Catalog struct {
	Prompts      []Prompt
	Instructions []Instruction
	ChatModes    []ChatMode
	Collections  []Collection
}

// Len returns the number of assets of the given kind.
func (c *Catalog) Len(kind AssetKind) int {
	switch kind {
	case KindPrompt:
		return len(c.Prompts)
	case KindInstruction:
		return len(c.Instructions)
	case KindChatMode:
		return len(c.ChatModes)
	case KindCollection:
		return len(c.Collections)
	}
	return 0
}
