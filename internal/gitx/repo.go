// Package gitx finds the git repository that encloses a directory.
package gitx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotRepo is returned when no enclosing git repository exists.
var ErrNotRepo = errors.New("not in a git repository")

// Repo discovers repository roots.
type Repo interface {
	// Discover returns the root of the repository containing cwd.
	Discover(cwd string) (string, error)
}

// RealRepo walks the filesystem looking for .git.
type RealRepo struct{}

// NewRealRepo creates a new RealRepo.
func NewRealRepo() *RealRepo {
	return &RealRepo{}
}

// Discover walks up from cwd until it finds a .git entry. A .git file (as
// used by worktrees and submodules) counts.
func (g *RealRepo) Discover(cwd string) (string, error) {
	current, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		if info, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			if info.IsDir() || info.Mode().IsRegular() {
				return current, nil
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNotRepo
		}
		current = parent
	}
}

// FakeRepo returns a fixed root for tests.
type FakeRepo struct {
	root string
	err  error
}

// NewFakeRepo creates a FakeRepo that reports root.
func NewFakeRepo(root string) *FakeRepo {
	return &FakeRepo{root: root}
}

// SetError makes Discover fail with err.
func (g *FakeRepo) SetError(err error) {
	g.err = err
}

func (g *FakeRepo) Discover(cwd string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.root, nil
}
