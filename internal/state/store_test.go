package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/clock"
	"github.com/danieljhkim/assetgate/internal/fsops"
)

func newTestStore(t *testing.T) (*FileStore, string, *clock.FakeClock) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".assetgate")
	clk := clock.NewFakeClock(time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC))
	path := filepath.Join(dir, "enablement.json")
	return NewFileStore(fsops.NewRealFS(), clk, path, filepath.Join(dir, "enablement.lock")), path, clk
}

func writeRaw(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestFileStore_LoadMissing(t *testing.T) {
	store, _, _ := newTestStore(t)

	res, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, NewOverrideFile(), res.File)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarnMissingFile, res.Warnings[0].Kind)
	assert.Contains(t, res.Warnings[0].String(), "disabled baseline")
}

func TestFileStore_LoadMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		want WarningKind
	}{
		{name: "syntax error", body: `{"version": 1,`, want: WarnParseError},
		{name: "trailing data", body: `{"version": 1} {}`, want: WarnParseError},
		{name: "wrong value type", body: `{"prompts": {"prompts/a.prompt.md": "yes"}}`, want: WarnSchemaValidation},
		{name: "unknown field", body: `{"version": 1, "agents": {}}`, want: WarnSchemaValidation},
		{name: "empty key", body: `{"prompts": {"": true}}`, want: WarnSchemaValidation},
		{name: "negative version", body: `{"version": -1}`, want: WarnSchemaValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path, _ := newTestStore(t)
			writeRaw(t, path, tt.body)

			res, err := store.Load()
			require.NoError(t, err, "malformed files never fail the load")
			assert.Equal(t, NewOverrideFile(), res.File)
			require.Len(t, res.Warnings, 1)
			assert.Equal(t, tt.want, res.Warnings[0].Kind)
		})
	}
}

func TestFileStore_LoadValid(t *testing.T) {
	store, path, _ := newTestStore(t)
	writeRaw(t, path, `{
  "version": 0,
  "prompts": {"prompts/a.prompt.md": true},
  "collections": {"collections/c.collection.yml": false}
}`)

	res, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 1, res.File.Version, "version 0 is upgraded")
	assert.NotNil(t, res.File.Instructions, "missing maps are initialized")

	v, ok := res.File.Get(catalog.KindCollection, "collections/c.collection.yml")
	assert.True(t, ok)
	assert.False(t, v)
}

func TestFileStore_SaveRoundTrip(t *testing.T) {
	store, path, clk := newTestStore(t)

	f := NewOverrideFile()
	f.Set(catalog.KindInstruction, "instructions/go.instructions.md", true)
	require.NoError(t, store.Save(f))

	require.NotNil(t, f.UpdatedAt)
	assert.True(t, f.UpdatedAt.Equal(clk.Now()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Contains(t, generic, "chat_modes")
	assert.Contains(t, generic, "updated_at")

	res, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, f.Instructions, res.File.Instructions)
}

func TestFileStore_SaveRejectsInvalid(t *testing.T) {
	store, path, _ := newTestStore(t)

	f := NewOverrideFile()
	f.Prompts[""] = true
	err := store.Save(f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOverrides))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing written")
}

func TestFileStore_Locked(t *testing.T) {
	store, _, _ := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.lockPath), 0755))

	other := flock.New(store.lockPath)
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = other.Unlock() }()

	err = store.Save(NewOverrideFile())
	assert.True(t, errors.Is(err, ErrLocked))
}
