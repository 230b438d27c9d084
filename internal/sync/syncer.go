// Package sync mirrors catalog assets between the upstream snapshot and the
// repository's .github/ tree.
//
// Upstream paths keep their leading kind directory (prompts/foo.prompt.md);
// the local copy drops it and lives under .github/<kind dir>/. Collections
// are never mirrored.
package sync

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/config"
	"github.com/danieljhkim/assetgate/internal/fsops"
	"github.com/danieljhkim/assetgate/internal/hash"
)

// LocalStatus compares the mirrored copy of an asset with upstream.
type LocalStatus int

const (
	StatusMissing LocalStatus = iota
	StatusSame
	StatusDiff
	StatusNotApplicable
)

var statusNames = map[LocalStatus]string{
	StatusMissing:       "missing",
	StatusSame:          "same",
	StatusDiff:          "diff",
	StatusNotApplicable: "n/a",
}

func (s LocalStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("LocalStatus(%d)", int(s))
}

// MarshalText renders the status name in JSON output.
func (s LocalStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Present reports whether a local file exists.
func (s LocalStatus) Present() bool {
	return s == StatusSame || s == StatusDiff
}

// Syncer copies and removes mirrored asset files.
type Syncer struct {
	fs          fsops.FS
	hasher      hash.Hasher
	paths       *config.Paths
	upstreamDir string
}

// New creates a Syncer that mirrors from upstreamDir into paths.
func New(fs fsops.FS, hasher hash.Hasher, paths *config.Paths, upstreamDir string) *Syncer {
	return &Syncer{
		fs:          fs,
		hasher:      hasher,
		paths:       paths,
		upstreamDir: upstreamDir,
	}
}

// UpstreamDir returns the content root files are copied from.
func (s *Syncer) UpstreamDir() string {
	return s.upstreamDir
}

// UpstreamPath returns the absolute upstream location of a catalog path.
func (s *Syncer) UpstreamPath(path string) string {
	return filepath.Join(s.upstreamDir, filepath.FromSlash(path))
}

// LocalPath returns where the asset is mirrored under .github/.
func (s *Syncer) LocalPath(kind catalog.AssetKind, path string) (string, error) {
	if err := fsops.ValidateRelPath(path); err != nil {
		return "", err
	}
	rel := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		rel = path[i+1:]
	}
	return filepath.Join(s.paths.AssetDir(kind), filepath.FromSlash(rel)), nil
}

// Status reports whether the local copy is missing, identical to upstream,
// or locally modified.
func (s *Syncer) Status(kind catalog.AssetKind, path string) (LocalStatus, error) {
	if kind == catalog.KindCollection {
		return StatusNotApplicable, nil
	}

	local, err := s.LocalPath(kind, path)
	if err != nil {
		return StatusMissing, err
	}
	exists, err := s.fs.Exists(local)
	if err != nil {
		return StatusMissing, fmt.Errorf("failed to check %s: %w", local, err)
	}
	if !exists {
		return StatusMissing, nil
	}

	upstreamHash, err := s.hasher.HashFile(s.UpstreamPath(path))
	if err != nil {
		return StatusMissing, fmt.Errorf("failed to hash upstream file %s: %w", path, err)
	}
	localHash, err := s.hasher.HashFile(local)
	if err != nil {
		return StatusMissing, fmt.Errorf("failed to hash local file %s: %w", local, err)
	}
	if upstreamHash == localHash {
		return StatusSame, nil
	}
	return StatusDiff, nil
}

// ApplyFromUpstream copies the upstream file over the local copy and returns
// the local path. Collections are a no-op and return "".
func (s *Syncer) ApplyFromUpstream(kind catalog.AssetKind, path string) (string, error) {
	if kind == catalog.KindCollection {
		return "", nil
	}
	local, err := s.LocalPath(kind, path)
	if err != nil {
		return "", err
	}
	if err := s.fs.CopyFile(s.UpstreamPath(path), local); err != nil {
		return "", fmt.Errorf("failed to copy %s: %w", path, err)
	}
	return local, nil
}

// RemoveLocal deletes the local copy if present and reports whether a file
// was removed. A directory left empty by the removal is cleaned up, but the
// kind directory itself is kept.
func (s *Syncer) RemoveLocal(kind catalog.AssetKind, path string) (bool, error) {
	if kind == catalog.KindCollection {
		return false, nil
	}
	local, err := s.LocalPath(kind, path)
	if err != nil {
		return false, err
	}
	exists, err := s.fs.Exists(local)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", local, err)
	}
	if !exists {
		return false, nil
	}
	if err := s.fs.Remove(local); err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", local, err)
	}

	if parent := filepath.Dir(local); parent != s.paths.AssetDir(kind) {
		_, _ = fsops.RemoveIfEmpty(s.fs, parent)
	}
	return true, nil
}
