package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/domain"
	"github.com/danieljhkim/assetgate/internal/sync"
)

// Workspace is a loaded catalog and override file for one repository.
type Workspace struct {
	// Session holds the catalog, overrides and current resolution
	Session *domain.Session

	// Warnings collects recoverable problems from loading
	Warnings []string

	// ContentDir is the catalog root files are mirrored from
	ContentDir string

	// Commit and FetchedAt describe the upstream snapshot (empty for a
	// local content directory)
	Commit    string
	FetchedAt time.Time

	// Dirty is set when overrides changed since the last load or save
	Dirty bool

	syncer *sync.Syncer
}

// Syncer returns the mirror for this workspace's content directory.
func (ws *Workspace) Syncer() *sync.Syncer {
	return ws.syncer
}

// Open loads the workspace.
//
// Algorithm steps:
// 1. Pick the content root: settings content_dir, else an upstream snapshot
// 2. Load the catalog from the content root
// 3. Load the override file (malformed files become warnings)
// 4. Resolve into a domain.Session using the configured toggle baseline
func (e *Engine) Open(ctx context.Context, req *OpenRequest) (*Workspace, error) {
	ws := &Workspace{}

	// Step 1: Content root
	switch {
	case e.settings.ContentDir != "":
		dir := e.settings.ContentDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(e.paths.Root, dir)
		}
		ws.ContentDir = dir
		e.logger.Debug("using local content directory", "dir", dir)
	case e.snapshots != nil:
		snap, err := e.snapshots.Ensure(ctx, req.Refresh)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain upstream snapshot: %w", err)
		}
		ws.ContentDir = snap.ContentDir
		ws.Commit = snap.Commit
		ws.FetchedAt = snap.FetchedAt
		ws.Warnings = append(ws.Warnings, snap.Warnings...)
		e.logger.Debug("using upstream snapshot", "commit", snap.Commit, "fetched_at", snap.FetchedAt)
	default:
		return nil, ErrNoContent
	}

	if err := e.load(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// Reload re-reads the catalog and overrides from ws's content root without
// consulting the snapshot provider.
func (e *Engine) Reload(ws *Workspace) (*Workspace, error) {
	fresh := &Workspace{
		ContentDir: ws.ContentDir,
		Commit:     ws.Commit,
		FetchedAt:  ws.FetchedAt,
	}
	if err := e.load(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// load performs steps 2-4 of Open.
func (e *Engine) load(ws *Workspace) error {
	// Step 2: Catalog
	loaded, err := catalog.Load(ws.ContentDir, e.hasher)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	ws.Warnings = append(ws.Warnings, loaded.Warnings...)

	// Step 3: Overrides
	overrides, err := e.stateStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load enablement file: %w", err)
	}
	for _, w := range overrides.Warnings {
		ws.Warnings = append(ws.Warnings, w.String())
	}

	// Step 4: Resolve
	ws.Session = domain.NewSession(loaded.Catalog, overrides.File, domain.Options{
		Baseline: domain.Baseline(e.settings.Toggle.Baseline),
	})
	ws.syncer = sync.New(e.fs, e.hasher, e.paths, ws.ContentDir)

	for _, w := range ws.Warnings {
		e.logger.Debug("load warning", "detail", w)
	}
	return nil
}
