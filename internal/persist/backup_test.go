package persist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/assetgate/internal/clock"
	"github.com/danieljhkim/assetgate/internal/fsops"
)

// setupTestEnv creates a repository with one edited file and a manager.
func setupTestEnv(t *testing.T) (repo string, clk *clock.FakeClock, mgr *BackupManager) {
	t.Helper()

	repo = t.TempDir()
	local := filepath.Join(repo, ".github", "prompts", "review.prompt.md")
	if err := os.MkdirAll(filepath.Dir(local), 0755); err != nil {
		t.Fatalf("failed to create prompts dir: %v", err)
	}
	if err := os.WriteFile(local, []byte("# My review\n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	clk = clock.NewFakeClock(time.Date(2025, 5, 4, 10, 30, 0, 0, time.UTC))
	mgr = NewBackupManager(fsops.NewRealFS(), clk, filepath.Join(repo, ".assetgate", "backups"))
	return repo, clk, mgr
}

func TestBackup(t *testing.T) {
	repo, _, mgr := setupTestEnv(t)
	local := filepath.Join(repo, ".github", "prompts", "review.prompt.md")

	dst, err := mgr.Backup(local, ".github/prompts/review.prompt.md")
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}

	want := filepath.Join(mgr.Root(), "20250504T103000Z", ".github", "prompts", "review.prompt.md")
	if dst != want {
		t.Errorf("Backup = %s, want %s", dst, want)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if string(data) != "# My review\n" {
		t.Errorf("backup content = %q", data)
	}
}

func TestBackup_Errors(t *testing.T) {
	repo, _, mgr := setupTestEnv(t)

	tests := []struct {
		name string
		path string
		rel  string
	}{
		{"missing source", filepath.Join(repo, "nope.md"), "nope.md"},
		{"traversal", filepath.Join(repo, ".github", "prompts", "review.prompt.md"), "../outside.md"},
		{"absolute", filepath.Join(repo, ".github", "prompts", "review.prompt.md"), "/etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.Backup(tt.path, tt.rel); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := mgr.Backup(filepath.Join(repo, "nope.md"), "nope.md")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist for missing source, got %v", err)
	}
}

func TestListAndPrune(t *testing.T) {
	repo, clk, mgr := setupTestEnv(t)
	local := filepath.Join(repo, ".github", "prompts", "review.prompt.md")

	sets, err := mgr.List()
	if err != nil || len(sets) != 0 {
		t.Fatalf("List on empty root = %v, %v", sets, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.Backup(local, "prompts/review.prompt.md"); err != nil {
			t.Fatalf("Backup failed: %v", err)
		}
		clk.Advance(time.Minute)
	}

	sets, err = mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sets) != 3 {
		t.Fatalf("expected 3 sets, got %d", len(sets))
	}
	if sets[0].ID != "20250504T103200Z" || sets[2].ID != "20250504T103000Z" {
		t.Errorf("sets not newest first: %s .. %s", sets[0].ID, sets[2].ID)
	}
	if len(sets[0].Files) != 1 || sets[0].Files[0] != "prompts/review.prompt.md" {
		t.Errorf("unexpected files: %v", sets[0].Files)
	}

	removed, err := mgr.Prune(1)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("expected 2 sets removed, got %v", removed)
	}
	sets, _ = mgr.List()
	if len(sets) != 1 || sets[0].ID != "20250504T103200Z" {
		t.Errorf("expected only the newest set to remain, got %+v", sets)
	}
}
