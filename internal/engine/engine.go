// Package engine provides the orchestration behind every assetgate command.
//
// The engine sits between the CLI and the lower-level packages. It loads the
// catalog (from a local content directory or an upstream snapshot), reads the
// override file, builds a domain.Session, and keeps the mirrored files under
// .github/ consistent with effective state after each mutation.
//
// Key components:
//   - Open: loads settings, catalog and overrides into a Workspace
//   - Toggle/Apply: change state and mirror files through a sync plan
//   - Impact: previews a collection toggle
//   - CleanupOrphans/Reset/Save: manage the override file
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/clock"
	"github.com/danieljhkim/assetgate/internal/config"
	"github.com/danieljhkim/assetgate/internal/fsops"
	"github.com/danieljhkim/assetgate/internal/hash"
	"github.com/danieljhkim/assetgate/internal/persist"
	"github.com/danieljhkim/assetgate/internal/planner"
	"github.com/danieljhkim/assetgate/internal/state"
	"github.com/danieljhkim/assetgate/internal/sync"
	"github.com/danieljhkim/assetgate/internal/upstream"
)

// SnapshotProvider yields the upstream content tree. *upstream.Manager
// implements it.
type SnapshotProvider interface {
	Ensure(ctx context.Context, force bool) (*upstream.Snapshot, error)
}

// Engine orchestrates all assetgate operations.
// It is the main API surface called by the CLI.
type Engine struct {
	paths      *config.Paths
	settings   *config.Settings
	stateStore state.Store
	snapshots  SnapshotProvider
	fs         fsops.FS
	hasher     hash.Hasher
	clock      clock.Clock
	backups    *persist.BackupManager
	logger     *slog.Logger
}

// New creates a new Engine with the given dependencies. snapshots may be nil
// when settings name a local content directory.
func New(
	paths *config.Paths,
	settings *config.Settings,
	stateStore state.Store,
	snapshots SnapshotProvider,
	fs fsops.FS,
	hasher hash.Hasher,
	clk clock.Clock,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		paths:      paths,
		settings:   settings,
		stateStore: stateStore,
		snapshots:  snapshots,
		fs:         fs,
		hasher:     hasher,
		clock:      clk,
		backups:    persist.NewBackupManager(fs, clk, paths.Backups),
		logger:     logger,
	}
}

// Paths returns the repository layout the engine operates on.
func (e *Engine) Paths() *config.Paths {
	return e.paths
}

// Backups returns the manager holding copies of overwritten local files.
func (e *Engine) Backups() *persist.BackupManager {
	return e.backups
}

// Settings returns the effective settings.
func (e *Engine) Settings() *config.Settings {
	return e.settings
}

// executePlan runs every operation of plan against the workspace mirror. It
// returns the operations that completed and the backups taken on the way.
func (e *Engine) executePlan(ws *Workspace, plan *planner.SyncPlan) ([]planner.Operation, []string, error) {
	applied := []planner.Operation{}
	backedUp := []string{}
	for _, op := range plan.Operations {
		backup, err := e.executeOperation(ws, op)
		if backup != "" {
			backedUp = append(backedUp, backup)
		}
		if err != nil {
			return applied, backedUp, fmt.Errorf("failed to execute operation: %w", err)
		}
		applied = append(applied, op)
	}
	return applied, backedUp, nil
}

// executeOperation executes a single operation, backing up a locally
// modified file before it is replaced or deleted.
func (e *Engine) executeOperation(ws *Workspace, op planner.Operation) (string, error) {
	backup, err := e.backupIfModified(ws, op.Kind, op.Path)
	if err != nil {
		return "", err
	}

	switch op.Type {
	case planner.OpCopy:
		local, err := ws.syncer.ApplyFromUpstream(op.Kind, op.Path)
		if err != nil {
			return backup, err
		}
		e.logger.Debug("copied asset", "kind", op.Kind, "path", op.Path, "local", local)
		return backup, nil
	case planner.OpRemove:
		removed, err := ws.syncer.RemoveLocal(op.Kind, op.Path)
		if err != nil {
			return backup, err
		}
		e.logger.Debug("removed asset", "kind", op.Kind, "path", op.Path, "removed", removed)
		return backup, nil
	default:
		return backup, fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

// backupIfModified copies the local file of an asset into the backup
// directory when it differs from upstream (or cannot be compared). It returns
// the backup path, or "" when nothing needed saving.
func (e *Engine) backupIfModified(ws *Workspace, kind catalog.AssetKind, path string) (string, error) {
	status, statusErr := ws.syncer.Status(kind, path)
	if statusErr == nil && status != sync.StatusDiff {
		return "", nil
	}

	local, err := ws.syncer.LocalPath(kind, path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(e.paths.Root, local)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s: %w", local, err)
	}
	backup, err := e.backups.Backup(local, filepath.ToSlash(rel))
	if err != nil {
		if statusErr != nil && errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to back up %s: %w", local, err)
	}
	e.logger.Info("backed up modified file", "local", local, "backup", backup)
	return backup, nil
}
