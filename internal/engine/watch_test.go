package engine

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		path string
		want bool
	}{
		{path: env.paths.Enablement, want: true},
		{path: env.paths.Lock, want: false},
		{path: env.paths.Settings, want: false},
		{path: filepath.Join(env.paths.Workspace, ".assetgate-tmp-123"), want: false},
		{path: filepath.Join(env.content, reviewPath), want: true},
		{path: filepath.Join(env.content, "prompts", ".assetgate-tmp-9"), want: false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, env.engine.relevant(tt.path))
		})
	}
}

func TestAddRecursive(t *testing.T) {
	env := newTestEnv(t)
	writeFiles(t, env.content, map[string]string{"prompts/deep/er/x.prompt.md": "# X\n"})

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() {
		_ = watcher.Close()
	}()

	require.NoError(t, addRecursive(watcher, filepath.Join(env.content, "prompts")))
	assert.ElementsMatch(t, []string{
		filepath.Join(env.content, "prompts"),
		filepath.Join(env.content, "prompts", "deep"),
		filepath.Join(env.content, "prompts", "deep", "er"),
	}, watcher.WatchList())

	assert.NoError(t, addRecursive(watcher, filepath.Join(env.content, "chatmodes")), "missing directories are skipped")
}
