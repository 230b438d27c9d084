package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/danieljhkim/assetgate/internal/catalog"
)

func TestNewOverrideFile(t *testing.T) {
	f := NewOverrideFile()

	assert.Equal(t, 1, f.Version)
	assert.Nil(t, f.UpdatedAt)
	assert.Equal(t, 0, f.Len())
	assert.NotNil(t, f.Prompts)
	assert.NotNil(t, f.Collections)
}

func TestOverrideFile_SetGetDelete(t *testing.T) {
	f := NewOverrideFile()

	f.Set(catalog.KindPrompt, "prompts/a.prompt.md", true)
	f.Set(catalog.KindCollection, "collections/c.collection.yml", false)

	v, ok := f.Get(catalog.KindPrompt, "prompts/a.prompt.md")
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = f.Get(catalog.KindInstruction, "prompts/a.prompt.md")
	assert.False(t, ok, "kinds are separate namespaces")

	v, ok = f.Get(catalog.KindCollection, "collections/c.collection.yml")
	assert.True(t, ok)
	assert.False(t, v)

	assert.True(t, f.Delete(catalog.KindPrompt, "prompts/a.prompt.md"))
	assert.False(t, f.Delete(catalog.KindPrompt, "prompts/a.prompt.md"))
	assert.Equal(t, 1, f.Len())
}

func TestOverrideFile_SetOnZeroValue(t *testing.T) {
	var f OverrideFile
	f.Set(catalog.KindChatMode, "chatmodes/x.chatmode.md", true)

	assert.Equal(t, CurrentVersion, f.Version)
	assert.Equal(t, map[string]bool{"chatmodes/x.chatmode.md": true}, f.ChatModes)
}

func TestOverrideFile_Entries(t *testing.T) {
	f := NewOverrideFile()
	f.Set(catalog.KindInstruction, "instructions/z.instructions.md", true)
	f.Set(catalog.KindInstruction, "instructions/a.instructions.md", false)

	assert.Equal(t, []Entry{
		{Kind: catalog.KindInstruction, Path: "instructions/a.instructions.md", Value: false},
		{Kind: catalog.KindInstruction, Path: "instructions/z.instructions.md", Value: true},
	}, f.Entries(catalog.KindInstruction))
}

func TestOverrideFile_CloneAndClear(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewOverrideFile()
	f.UpdatedAt = &ts
	f.Set(catalog.KindPrompt, "prompts/a.prompt.md", true)

	c := f.Clone()
	c.Set(catalog.KindPrompt, "prompts/b.prompt.md", true)
	c.UpdatedAt = nil

	assert.Equal(t, 1, f.Len(), "clone does not share maps")
	assert.NotNil(t, f.UpdatedAt)

	f.Clear()
	assert.Equal(t, 0, f.Len())
	assert.Nil(t, f.UpdatedAt)
	assert.Equal(t, 1, f.Version)
}
