package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/domain"
	"github.com/danieljhkim/assetgate/internal/engine"
	"github.com/danieljhkim/assetgate/internal/planner"
	"github.com/danieljhkim/assetgate/internal/state"
	"github.com/danieljhkim/assetgate/internal/sync"
)

const (
	reviewPath  = "prompts/review.prompt.md"
	testsPath   = "prompts/tests.prompt.md"
	goPath      = "instructions/go.instructions.md"
	backendPath = "collections/backend.collection.yml"
)

func TestLifecycle_UpstreamChange(t *testing.T) {
	env := setupTestEngine(t)
	ctx := context.Background()

	// Setup: an explicit override from an earlier session
	seed := state.NewOverrideFile()
	seed.Set(catalog.KindPrompt, reviewPath, true)
	env.states.file = seed

	ws, err := env.engine.Open(ctx, &engine.OpenRequest{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if ws.Commit != "1111111" {
		t.Errorf("expected commit 1111111, got %q", ws.Commit)
	}

	// The override is effective but nothing is mirrored yet
	applied, err := env.engine.Apply(ws, &engine.ApplyRequest{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(applied.Applied) != 1 || !fileExists(env.mirrored(reviewPath)) {
		t.Fatalf("expected review prompt to be copied, applied %+v", applied.Applied)
	}

	// Enable the collection; members follow
	toggled, err := env.engine.Toggle(ws, &engine.ToggleRequest{Kind: catalog.KindCollection, Path: backendPath})
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !toggled.View.Effective || len(toggled.Applied) != 2 {
		t.Fatalf("unexpected toggle result: effective=%v applied=%+v", toggled.View.Effective, toggled.Applied)
	}
	if err := env.engine.Save(ws); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if env.states.saves != 1 {
		t.Errorf("expected 1 save, got %d", env.states.saves)
	}

	// Upstream renames the review prompt and edits the Go instructions
	env.publish("2222222", catalogV2)
	ws, err = env.engine.Open(ctx, &engine.OpenRequest{})
	if err != nil {
		t.Fatalf("Open() after publish error = %v", err)
	}
	if ws.Commit != "2222222" || env.fetcher.Fetches != 2 {
		t.Fatalf("expected new snapshot, commit=%s fetches=%d", ws.Commit, env.fetcher.Fetches)
	}

	orphans := ws.Session.Orphans()
	if len(orphans) != 1 || orphans[0].Path != reviewPath {
		t.Fatalf("expected the renamed prompt's override to be orphaned, got %+v", orphans)
	}

	res := ws.Session.Resolution()
	goView, _ := res.Find(catalog.KindInstruction, goPath)
	testsView, _ := res.Find(catalog.KindPrompt, testsPath)
	statuses := env.engine.Statuses(ws, []domain.AssetView{*goView, *testsView})
	if statuses[0].Local != sync.StatusDiff || statuses[1].Local != sync.StatusSame {
		t.Fatalf("expected go=diff tests=same, got %s %s", statuses[0].Local, statuses[1].Local)
	}

	// A changed local copy is never overwritten without --force
	_, err = env.engine.Apply(ws, &engine.ApplyRequest{})
	if !errors.Is(err, engine.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := env.engine.Apply(ws, &engine.ApplyRequest{Force: true}); err != nil {
		t.Fatalf("Apply(force) error = %v", err)
	}
	if got := readFile(t, env.mirrored(goPath)); got != catalogV2[goPath] {
		t.Errorf("expected refreshed Go instructions, got %q", got)
	}

	cleanup := env.engine.CleanupOrphans(ws)
	if cleanup.Removed != 1 {
		t.Errorf("expected 1 orphan removed, got %d", cleanup.Removed)
	}
	if err := env.engine.Save(ws); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, ok := env.states.file.Get(catalog.KindPrompt, reviewPath); ok {
		t.Error("orphaned override should not be persisted")
	}
	if v, ok := env.states.file.Get(catalog.KindCollection, backendPath); !ok || !v {
		t.Error("collection override should survive cleanup")
	}

	// Reset clears every override and the mirrored catalog files
	reset, err := env.engine.Reset(ws, &engine.ResetRequest{RemoveLocal: true})
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if reset.Cleared != 1 {
		t.Errorf("expected 1 override cleared, got %d", reset.Cleared)
	}
	for _, p := range []string{goPath, testsPath} {
		if fileExists(env.mirrored(p)) {
			t.Errorf("expected %s to be removed by reset", p)
		}
	}
	// The renamed prompt is no longer in the catalog, so its copy is left alone
	if !fileExists(env.mirrored(reviewPath)) {
		t.Error("files outside the catalog should not be touched")
	}
}

func TestLifecycle_DryRunLeavesNoTrace(t *testing.T) {
	env := setupTestEngine(t)

	ws, err := env.engine.Open(context.Background(), &engine.OpenRequest{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	before := ws.Session.Overrides().Len()
	result, err := env.engine.Toggle(ws, &engine.ToggleRequest{
		Kind:   catalog.KindCollection,
		Path:   backendPath,
		DryRun: true,
	})
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if result.Plan == nil || result.Plan.Count(planner.OpCopy) != 2 {
		t.Fatalf("expected 2 planned copies, got %+v", result.Plan)
	}
	if ws.Session.Overrides().Len() != before || ws.Dirty {
		t.Error("dry run should not change overrides")
	}
	for _, p := range []string{goPath, testsPath} {
		if fileExists(env.mirrored(p)) {
			t.Errorf("dry run should not copy %s", p)
		}
	}
}
