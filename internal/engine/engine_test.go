package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/assetgate/internal/clock"
	"github.com/danieljhkim/assetgate/internal/config"
	"github.com/danieljhkim/assetgate/internal/fsops"
	"github.com/danieljhkim/assetgate/internal/hash"
	"github.com/danieljhkim/assetgate/internal/state"
	"github.com/danieljhkim/assetgate/internal/upstream"
)

const (
	reviewPath  = "prompts/review.prompt.md"
	testsPath   = "prompts/tests.prompt.md"
	goPath      = "instructions/go.instructions.md"
	backendPath = "collections/backend.collection.yml"
)

var fixture = map[string]string{
	reviewPath: "# Review\n",
	testsPath:  "# Tests\n",
	goPath:     "---\napplyTo: '**/*.go'\n---\n# Go\n",
	backendPath: `id: backend
name: Backend
items:
  - path: instructions/go.instructions.md
    kind: instruction
  - path: prompts/tests.prompt.md
    kind: prompt
  - path: prompts/missing.prompt.md
    kind: prompt
`,
}

// testEnv is an engine over a temp repository and a temp content tree.
type testEnv struct {
	engine   *Engine
	paths    *config.Paths
	settings *config.Settings
	content  string
}

func newTestEnv(t *testing.T, mutate ...func(*config.Settings)) *testEnv {
	t.Helper()
	content := t.TempDir()
	writeFiles(t, content, fixture)

	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	settings := config.DefaultSettings()
	settings.ContentDir = content
	for _, m := range mutate {
		m(settings)
	}

	fs := fsops.NewRealFS()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := state.NewFileStore(fs, clk, paths.Enablement, paths.Lock)

	return &testEnv{
		engine:   New(paths, settings, store, nil, fs, hash.NewSHA256Hasher(), clk, nil),
		paths:    paths,
		settings: settings,
		content:  content,
	}
}

func (env *testEnv) open(t *testing.T) *Workspace {
	t.Helper()
	ws, err := env.engine.Open(context.Background(), &OpenRequest{})
	require.NoError(t, err)
	return ws
}

// local returns the mirrored location of a catalog path. Fixture paths start
// with their kind directory, so the mirror is the same path under .github.
func (env *testEnv) local(catalogPath string) string {
	return filepath.Join(env.paths.GitHub, filepath.FromSlash(catalogPath))
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	}
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	require.NoError(t, err)
	return true
}

// fakeSnapshots is a SnapshotProvider returning a canned snapshot.
type fakeSnapshots struct {
	snap   *upstream.Snapshot
	err    error
	forced []bool
}

func (f *fakeSnapshots) Ensure(ctx context.Context, force bool) (*upstream.Snapshot, error) {
	f.forced = append(f.forced, force)
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}
