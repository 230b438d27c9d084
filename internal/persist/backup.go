// Package persist keeps copies of mirrored files before assetgate overwrites
// or deletes them.
//
// A forced toggle, apply or reset may replace a file under .github/ that the
// user edited. Before that happens the file is copied into
// .assetgate/backups/<set>/<repo-relative path>, where <set> is the UTC time
// of the run. Files backed up within the same second share a set.
package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/danieljhkim/assetgate/internal/clock"
	"github.com/danieljhkim/assetgate/internal/fsops"
)

// setLayout names backup sets; it sorts lexically in time order.
const setLayout = "20060102T150405Z"

// BackupSet is one directory of backed up files.
type BackupSet struct {
	ID string `json:"id"`

	// Files are repository-relative slash paths.
	Files []string `json:"files"`
}

// BackupManager writes and lists backup sets under root.
type BackupManager struct {
	fs    fsops.FS
	clock clock.Clock
	root  string
}

// NewBackupManager creates a BackupManager rooted at root
// (.assetgate/backups).
func NewBackupManager(fs fsops.FS, clk clock.Clock, root string) *BackupManager {
	return &BackupManager{fs: fs, clock: clk, root: root}
}

// Root returns the backup directory.
func (m *BackupManager) Root() string {
	return m.root
}

// Backup copies the file at path into the current set under rel, which must
// be a relative path without traversal. It returns the backup location.
func (m *BackupManager) Backup(path, rel string) (string, error) {
	if err := fsops.ValidateRelPath(filepath.ToSlash(rel)); err != nil {
		return "", fmt.Errorf("invalid backup path: %w", err)
	}

	// Check if source exists
	exists, err := m.fs.Exists(path)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !exists {
		return "", fmt.Errorf("nothing to back up at %s: %w", path, os.ErrNotExist)
	}

	dst := filepath.Join(m.root, m.clock.Now().UTC().Format(setLayout), filepath.FromSlash(rel))
	if err := m.fs.CopyFile(path, dst); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return dst, nil
}

// List returns every backup set, newest first.
func (m *BackupManager) List() ([]BackupSet, error) {
	entries, err := m.fs.ReadDir(m.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var sets []BackupSet
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		set := BackupSet{ID: entry.Name(), Files: []string{}}
		dir := filepath.Join(m.root, entry.Name())
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				rel, err := filepath.Rel(dir, path)
				if err != nil {
					return err
				}
				set.Files = append(set.Files, filepath.ToSlash(rel))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list backup %s: %w", entry.Name(), err)
		}
		sort.Strings(set.Files)
		sets = append(sets, set)
	}

	sort.Slice(sets, func(i, j int) bool {
		return sets[i].ID > sets[j].ID
	})
	return sets, nil
}

// Prune removes all but the newest keep sets and returns the removed ids.
func (m *BackupManager) Prune(keep int) ([]string, error) {
	sets, err := m.List()
	if err != nil {
		return nil, err
	}

	removed := []string{}
	for i, set := range sets {
		if i < keep {
			continue
		}
		if err := m.fs.RemoveAll(filepath.Join(m.root, set.ID)); err != nil {
			return removed, fmt.Errorf("failed to remove backup %s: %w", set.ID, err)
		}
		removed = append(removed, set.ID)
	}
	return removed, nil
}
