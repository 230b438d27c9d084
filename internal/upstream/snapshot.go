// Package upstream keeps a local cache of catalog snapshots fetched from the
// upstream content repository.
//
// Each snapshot lives in <cache>/<commit>/ with the fetched tree under
// content/ and a snapshot.json describing when it was fetched. A snapshot
// younger than the freshness window is reused without contacting the
// remote beyond resolving the ref. Network failures fall back to whatever
// is cached, reported as warnings.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danieljhkim/assetgate/internal/clock"
	"github.com/danieljhkim/assetgate/internal/fsops"
)

const (
	metadataFile = "snapshot.json"
	contentDir   = "content"
)

// Snapshot is a cached copy of the upstream catalog.
type Snapshot struct {
	Commit     string    `json:"commit"`
	FetchedAt  time.Time `json:"fetched_at"`
	ContentDir string    `json:"content_dir"`

	// Warnings describes fallbacks taken to produce this snapshot.
	Warnings []string `json:"warnings,omitempty"`
}

// metadata is the on-disk snapshot.json.
type metadata struct {
	Commit    string    `json:"commit"`
	FetchedAt time.Time `json:"fetched_at"`
	URL       string    `json:"url,omitempty"`
	Ref       string    `json:"ref,omitempty"`
}

// Options configures a Manager.
type Options struct {
	URL       string
	Ref       string
	Freshness time.Duration
	Keep      int
}

// Manager resolves, fetches and prunes snapshots.
type Manager struct {
	fs       fsops.FS
	clock    clock.Clock
	fetcher  Fetcher
	cacheDir string
	opts     Options
	logger   *slog.Logger
}

// NewManager creates a Manager caching under cacheDir. A nil logger
// discards output.
func NewManager(fs fsops.FS, clk clock.Clock, fetcher Fetcher, cacheDir string, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Keep < 1 {
		opts.Keep = 1
	}
	return &Manager{
		fs:       fs,
		clock:    clk,
		fetcher:  fetcher,
		cacheDir: cacheDir,
		opts:     opts,
		logger:   logger,
	}
}

// Ensure returns a usable snapshot, fetching a new one when the cached copy
// of the current commit is missing or stale, or when force is set.
func (m *Manager) Ensure(ctx context.Context, force bool) (*Snapshot, error) {
	if err := m.fs.MkdirAll(m.cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	var warnings []string

	commit, err := m.fetcher.LatestCommit(ctx, m.opts.URL, m.opts.Ref)
	if err == nil {
		err = fsops.ValidateIdentifier(commit)
	}
	if err != nil {
		m.logger.Warn("failed to resolve upstream ref", "url", m.opts.URL, "ref", m.opts.Ref, "error", err)
		warnings = append(warnings, fmt.Sprintf(
			"Failed to query latest commit of %s: %v; attempting to use cached snapshot", m.opts.URL, err))
		snap, lerr := m.latest()
		if lerr != nil {
			return nil, fmt.Errorf("unable to determine latest commit: %w", lerr)
		}
		snap.Warnings = append(snap.Warnings, warnings...)
		return snap, nil
	}

	if !force {
		if snap, ok := m.load(commit, false); ok {
			m.logger.Debug("using cached snapshot", "commit", commit, "fetched_at", snap.FetchedAt)
			return snap, nil
		}
	}

	snap, ferr := m.fetch(ctx, commit)
	if ferr == nil {
		if err := m.prune(); err != nil {
			m.logger.Warn("failed to prune snapshot cache", "error", err)
		}
		return snap, nil
	}

	m.logger.Warn("failed to fetch upstream snapshot", "commit", commit, "error", ferr)
	warnings = append(warnings, fmt.Sprintf(
		"Failed to refresh upstream snapshot (%v); falling back to cached snapshot if available", ferr))

	if stale, ok := m.load(commit, true); ok {
		stale.Warnings = append(stale.Warnings, warnings...)
		return stale, nil
	}

	latest, lerr := m.latest()
	if lerr != nil {
		return nil, fmt.Errorf("unable to fetch upstream snapshot: %w", errors.Join(ferr, lerr))
	}
	latest.Warnings = append(latest.Warnings, warnings...)
	latest.Warnings = append(latest.Warnings, "Using cached snapshot due to fetch failure")
	return latest, nil
}

// Cached lists the cached snapshots, newest first.
func (m *Manager) Cached() ([]*Snapshot, error) {
	entries, err := m.fs.ReadDir(m.cacheDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var snaps []*Snapshot
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if snap, ok := m.load(entry.Name(), true); ok {
			snaps = append(snaps, snap)
		}
	}
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].FetchedAt.After(snaps[j].FetchedAt)
	})
	return snaps, nil
}

func (m *Manager) latest() (*Snapshot, error) {
	snaps, err := m.Cached()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, ErrNoSnapshot
	}
	return snaps[0], nil
}

// load reads the snapshot for commit. Stale snapshots are only returned when
// allowStale is set.
func (m *Manager) load(commit string, allowStale bool) (*Snapshot, bool) {
	dir := filepath.Join(m.cacheDir, commit)
	data, err := m.fs.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, false
	}
	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil || meta.Commit == "" {
		return nil, false
	}
	content := filepath.Join(dir, contentDir)
	if info, err := m.fs.Stat(content); err != nil || !info.IsDir() {
		return nil, false
	}
	if !allowStale && clock.Age(m.clock, meta.FetchedAt) > m.opts.Freshness {
		return nil, false
	}
	return &Snapshot{
		Commit:     meta.Commit,
		FetchedAt:  meta.FetchedAt,
		ContentDir: content,
	}, true
}

// fetch downloads commit into a scratch directory and moves it into place so
// a failed fetch never clobbers an existing snapshot.
func (m *Manager) fetch(ctx context.Context, commit string) (*Snapshot, error) {
	scratch := filepath.Join(m.cacheDir, ".fetch-"+uuid.NewString())
	defer func() {
		_ = m.fs.RemoveAll(scratch)
	}()

	m.logger.Debug("fetching upstream snapshot", "url", m.opts.URL, "ref", m.opts.Ref, "commit", commit)
	if err := m.fetcher.Fetch(ctx, m.opts.URL, m.opts.Ref, filepath.Join(scratch, contentDir)); err != nil {
		return nil, err
	}

	meta := metadata{
		Commit:    commit,
		FetchedAt: m.clock.Now().UTC(),
		URL:       m.opts.URL,
		Ref:       m.opts.Ref,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot metadata: %w", err)
	}
	if err := m.fs.AtomicWrite(filepath.Join(scratch, metadataFile), append(data, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("failed to write snapshot metadata: %w", err)
	}

	final := filepath.Join(m.cacheDir, commit)
	if err := m.fs.RemoveAll(final); err != nil {
		return nil, fmt.Errorf("failed to remove old snapshot: %w", err)
	}
	if err := m.fs.Rename(scratch, final); err != nil {
		return nil, fmt.Errorf("failed to move snapshot into place: %w", err)
	}

	return &Snapshot{
		Commit:     commit,
		FetchedAt:  meta.FetchedAt,
		ContentDir: filepath.Join(final, contentDir),
	}, nil
}

// prune removes all but the newest Keep snapshots along with any directory
// that does not hold a readable snapshot.
func (m *Manager) prune() error {
	snaps, err := m.Cached()
	if err != nil {
		return err
	}
	keep := make(map[string]bool)
	for i, snap := range snaps {
		if i >= m.opts.Keep {
			break
		}
		keep[filepath.Base(filepath.Dir(snap.ContentDir))] = true
	}

	entries, err := m.fs.ReadDir(m.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || keep[entry.Name()] {
			continue
		}
		m.logger.Debug("pruning snapshot", "commit", entry.Name())
		if err := m.fs.RemoveAll(filepath.Join(m.cacheDir, entry.Name())); err != nil {
			return fmt.Errorf("failed to prune %s: %w", entry.Name(), err)
		}
	}
	return nil
}
