package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/config"
	"github.com/danieljhkim/assetgate/internal/domain"
	"github.com/danieljhkim/assetgate/internal/planner"
)

func TestApply_Everything(t *testing.T) {
	env := newTestEnv(t, func(s *config.Settings) { s.Sync.Mirror = false })
	ws := env.open(t)
	_, err := env.engine.Toggle(ws, &ToggleRequest{Kind: catalog.KindCollection, Path: backendPath})
	require.NoError(t, err)

	// A stray copy of a disabled prompt is removed.
	writeFiles(t, env.paths.GitHub, map[string]string{reviewPath: "# Review\n"})

	res, err := env.engine.Apply(ws, &ApplyRequest{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Plan.Count(planner.OpCopy))
	assert.Equal(t, 1, res.Plan.Count(planner.OpRemove))
	assert.Len(t, res.Applied, 3)
	assert.True(t, exists(t, env.local(goPath)))
	assert.True(t, exists(t, env.local(testsPath)))
	assert.False(t, exists(t, env.local(reviewPath)))

	again, err := env.engine.Apply(ws, &ApplyRequest{})
	require.NoError(t, err)
	assert.True(t, again.Plan.IsEmpty(), "second apply has nothing to do")
}

func TestApply_SingleAsset(t *testing.T) {
	env := newTestEnv(t)
	ws := env.open(t)

	res, err := env.engine.Apply(ws, &ApplyRequest{Kind: catalog.KindPrompt, Path: reviewPath})
	require.NoError(t, err)
	assert.Len(t, res.Applied, 1)

	data, err := os.ReadFile(env.local(reviewPath))
	require.NoError(t, err)
	assert.Equal(t, "# Review\n", string(data))
	assert.Equal(t, 0, ws.Session.Overrides().Len(), "apply never touches overrides")
}

func TestApply_ModifiedConflicts(t *testing.T) {
	env := newTestEnv(t)
	ws := env.open(t)
	writeFiles(t, env.paths.GitHub, map[string]string{reviewPath: "# Review\n\nlocal\n"})

	_, err := env.engine.Apply(ws, &ApplyRequest{Kind: catalog.KindPrompt, Path: reviewPath})
	require.ErrorIs(t, err, ErrConflict)

	res, err := env.engine.Apply(ws, &ApplyRequest{Kind: catalog.KindPrompt, Path: reviewPath, Force: true})
	require.NoError(t, err)
	assert.Len(t, res.Applied, 1)

	data, err := os.ReadFile(env.local(reviewPath))
	require.NoError(t, err)
	assert.Equal(t, "# Review\n", string(data))

	want := filepath.Join(env.paths.Backups, "20250601T120000Z", ".github", "prompts", "review.prompt.md")
	assert.Equal(t, []string{want}, res.BackedUp)
	data, err = os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "# Review\n\nlocal\n", string(data))

	sets, err := env.engine.Backups().List()
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, []string{".github/prompts/review.prompt.md"}, sets[0].Files)
}

func TestApply_CollectionMembers(t *testing.T) {
	env := newTestEnv(t, func(s *config.Settings) { s.Sync.Mirror = false })
	ws := env.open(t)
	_, err := env.engine.Toggle(ws, &ToggleRequest{Kind: catalog.KindCollection, Path: backendPath})
	require.NoError(t, err)

	res, err := env.engine.Apply(ws, &ApplyRequest{Kind: catalog.KindCollection, Path: backendPath, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Plan.Count(planner.OpCopy))
	assert.Empty(t, res.Applied)
	assert.False(t, exists(t, env.local(goPath)))
}

func TestApply_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ws := env.open(t)

	_, err := env.engine.Apply(ws, &ApplyRequest{Kind: catalog.KindPrompt, Path: "prompts/nope.prompt.md"})
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)

	_, err = env.engine.Apply(ws, &ApplyRequest{Kind: catalog.KindCollection, Path: "collections/nope.collection.yml"})
	assert.ErrorIs(t, err, domain.ErrCollectionNotFound)
}
