package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/config"
	"github.com/danieljhkim/assetgate/internal/fsops"
	"github.com/danieljhkim/assetgate/internal/hash"
)

const promptPath = "prompts/review/code-review.prompt.md"

func setupSyncer(t *testing.T) (*Syncer, *config.Paths, string) {
	t.Helper()
	upstream := t.TempDir()
	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	writeFile(t, filepath.Join(upstream, filepath.FromSlash(promptPath)), "# Code review\n")
	writeFile(t, filepath.Join(upstream, "instructions", "go.instructions.md"), "# Go\n")

	return New(fsops.NewRealFS(), hash.NewSHA256Hasher(), paths, upstream), paths, upstream
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestLocalPath(t *testing.T) {
	paths := config.NewPaths("/repo")
	s := New(fsops.NewRealFS(), hash.NewFakeHasher(), paths, "/upstream")

	tests := []struct {
		kind    catalog.AssetKind
		path    string
		want    string
		wantErr bool
	}{
		{kind: catalog.KindPrompt, path: promptPath, want: filepath.Join(paths.Prompts, "review", "code-review.prompt.md")},
		{kind: catalog.KindInstruction, path: "instructions/go.instructions.md", want: filepath.Join(paths.Instructions, "go.instructions.md")},
		{kind: catalog.KindChatMode, path: "plan.chatmode.md", want: filepath.Join(paths.ChatModes, "plan.chatmode.md")},
		{kind: catalog.KindPrompt, path: "../escape.prompt.md", wantErr: true},
		{kind: catalog.KindPrompt, path: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := s.LocalPath(tt.kind, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus(t *testing.T) {
	s, paths, _ := setupSyncer(t)

	status, err := s.Status(catalog.KindPrompt, promptPath)
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, status)

	local, err := s.ApplyFromUpstream(catalog.KindPrompt, promptPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.Prompts, "review", "code-review.prompt.md"), local)

	status, err = s.Status(catalog.KindPrompt, promptPath)
	require.NoError(t, err)
	assert.Equal(t, StatusSame, status)
	assert.True(t, status.Present())

	writeFile(t, local, "# Code review\n\nlocal edits\n")
	status, err = s.Status(catalog.KindPrompt, promptPath)
	require.NoError(t, err)
	assert.Equal(t, StatusDiff, status)

	status, err = s.Status(catalog.KindCollection, "collections/x.collection.yml")
	require.NoError(t, err)
	assert.Equal(t, StatusNotApplicable, status)
	assert.False(t, status.Present())
}

func TestStatus_UpstreamMissing(t *testing.T) {
	s, paths, _ := setupSyncer(t)
	writeFile(t, filepath.Join(paths.Prompts, "gone.prompt.md"), "local only\n")

	_, err := s.Status(catalog.KindPrompt, "prompts/gone.prompt.md")
	assert.Error(t, err)
}

func TestApplyFromUpstream_Overwrites(t *testing.T) {
	s, paths, _ := setupSyncer(t)
	local := filepath.Join(paths.Instructions, "go.instructions.md")
	writeFile(t, local, "stale\n")

	_, err := s.ApplyFromUpstream(catalog.KindInstruction, "instructions/go.instructions.md")
	require.NoError(t, err)

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "# Go\n", string(data))
}

func TestApplyFromUpstream_Collection(t *testing.T) {
	s, paths, _ := setupSyncer(t)

	local, err := s.ApplyFromUpstream(catalog.KindCollection, "collections/x.collection.yml")
	require.NoError(t, err)
	assert.Empty(t, local)

	_, err = os.Stat(paths.Collections)
	assert.True(t, os.IsNotExist(err))
}

func TestApplyFromUpstream_MissingSource(t *testing.T) {
	s, _, _ := setupSyncer(t)

	_, err := s.ApplyFromUpstream(catalog.KindPrompt, "prompts/absent.prompt.md")
	assert.Error(t, err)
}

func TestRemoveLocal(t *testing.T) {
	s, paths, _ := setupSyncer(t)

	removed, err := s.RemoveLocal(catalog.KindPrompt, promptPath)
	require.NoError(t, err)
	assert.False(t, removed, "nothing to remove yet")

	_, err = s.ApplyFromUpstream(catalog.KindPrompt, promptPath)
	require.NoError(t, err)

	removed, err = s.RemoveLocal(catalog.KindPrompt, promptPath)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = os.Stat(filepath.Join(paths.Prompts, "review"))
	assert.True(t, os.IsNotExist(err), "emptied subdirectory should be removed")
	_, err = os.Stat(paths.Prompts)
	assert.NoError(t, err, "kind directory should be kept")
}

func TestRemoveLocal_KeepsNonEmptyParent(t *testing.T) {
	s, paths, _ := setupSyncer(t)
	sibling := filepath.Join(paths.Prompts, "review", "notes.md")
	writeFile(t, sibling, "mine\n")

	_, err := s.ApplyFromUpstream(catalog.KindPrompt, promptPath)
	require.NoError(t, err)
	removed, err := s.RemoveLocal(catalog.KindPrompt, promptPath)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = os.Stat(sibling)
	assert.NoError(t, err)
}

func TestLocalStatus_String(t *testing.T) {
	assert.Equal(t, "missing", StatusMissing.String())
	assert.Equal(t, "same", StatusSame.String())
	assert.Equal(t, "diff", StatusDiff.String())
	assert.Equal(t, "n/a", StatusNotApplicable.String())
	assert.Equal(t, "LocalStatus(9)", LocalStatus(9).String())
}
