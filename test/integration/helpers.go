package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/assetgate/internal/clock"
	"github.com/danieljhkim/assetgate/internal/config"
	"github.com/danieljhkim/assetgate/internal/engine"
	"github.com/danieljhkim/assetgate/internal/fsops"
	"github.com/danieljhkim/assetgate/internal/hash"
	"github.com/danieljhkim/assetgate/internal/state"
	"github.com/danieljhkim/assetgate/internal/upstream"
)

// testStateStore is an in-memory state store for testing
type testStateStore struct {
	file  *state.OverrideFile
	saves int
}

func newTestStateStore() *testStateStore {
	return &testStateStore{}
}

func (s *testStateStore) Load() (*state.LoadResult, error) {
	if s.file == nil {
		return &state.LoadResult{
			File:     state.NewOverrideFile(),
			Warnings: []state.Warning{{Kind: state.WarnMissingFile}},
		}, nil
	}
	// Return a copy
	return &state.LoadResult{File: s.file.Clone()}, nil
}

func (s *testStateStore) Save(file *state.OverrideFile) error {
	// Save a copy
	s.file = file.Clone()
	s.saves++
	return nil
}

// catalogV1 is the first upstream commit.
var catalogV1 = map[string]string{
	"prompts/review.prompt.md":        "# Review\n",
	"prompts/tests.prompt.md":         "# Tests\n",
	"instructions/go.instructions.md": "---\napplyTo: '**/*.go'\n---\n# Go\n",
	"chatmodes/planner.chatmode.md":   "---\ntools: [search]\n---\n# Planner\n",
	"collections/backend.collection.yml": `id: backend
name: Backend
items:
  - path: instructions/go.instructions.md
    kind: instruction
  - path: prompts/tests.prompt.md
    kind: prompt
`,
}

// catalogV2 renames the review prompt and edits the Go instructions.
var catalogV2 = map[string]string{
	"prompts/code-review.prompt.md":   "# Code Review\n",
	"prompts/tests.prompt.md":         "# Tests\n",
	"instructions/go.instructions.md": "---\napplyTo: '**/*.go'\n---\n# Go\n\nPrefer table tests.\n",
	"chatmodes/planner.chatmode.md":   "---\ntools: [search]\n---\n# Planner\n",
	"collections/backend.collection.yml": `id: backend
name: Backend
items:
  - path: instructions/go.instructions.md
    kind: instruction
  - path: prompts/tests.prompt.md
    kind: prompt
`,
}

type testEnv struct {
	engine  *engine.Engine
	paths   *config.Paths
	fetcher *upstream.FakeFetcher
	states  *testStateStore
	clock   *clock.FakeClock
}

func setupTestEngine(t *testing.T) *testEnv {
	t.Helper()

	paths := config.NewPaths(t.TempDir())
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}

	fs := fsops.NewRealFS()
	clk := clock.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	fetcher := upstream.NewFakeFetcher("1111111", catalogV1)
	settings := config.DefaultSettings()

	snapshots := upstream.NewManager(fs, clk, fetcher, paths.Cache, upstream.Options{
		URL:       settings.Upstream.URL,
		Ref:       settings.Upstream.Ref,
		Freshness: settings.Upstream.Freshness,
		Keep:      2,
	}, nil)

	states := newTestStateStore()
	eng := engine.New(paths, settings, states, snapshots, fs, hash.NewSHA256Hasher(), clk, nil)
	return &testEnv{
		engine:  eng,
		paths:   paths,
		fetcher: fetcher,
		states:  states,
		clock:   clk,
	}
}

// publish simulates a new upstream commit.
func (env *testEnv) publish(commit string, files map[string]string) {
	env.fetcher.Commit = commit
	env.fetcher.Files = files
}

func (env *testEnv) mirrored(catalogPath string) string {
	return filepath.Join(env.paths.GitHub, filepath.FromSlash(catalogPath))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
