package upstream

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Fetcher retrieves catalog content from a remote repository.
type Fetcher interface {
	// LatestCommit returns the commit that ref currently points at.
	LatestCommit(ctx context.Context, url, ref string) (string, error)

	// Fetch materializes the tree of ref into dest, which must not exist.
	Fetch(ctx context.Context, url, ref, dest string) error
}

// GitFetcher is the production Fetcher. It shells out to git.
type GitFetcher struct{}

// NewGitFetcher creates a new GitFetcher.
func NewGitFetcher() *GitFetcher {
	return &GitFetcher{}
}

// runGit executes a git command outside any repository.
func (g *GitFetcher) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git command failed: %w\nstderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}

// LatestCommit asks the remote for ref with git ls-remote.
func (g *GitFetcher) LatestCommit(ctx context.Context, url, ref string) (string, error) {
	out, err := g.runGit(ctx, "ls-remote", url, ref)
	if err != nil {
		return "", fmt.Errorf("failed to query %s: %w", url, err)
	}
	return parseLsRemote(out, ref)
}

// parseLsRemote picks the commit for ref out of ls-remote output, preferring
// an exact branch match over tags.
func parseLsRemote(out, ref string) (string, error) {
	candidates := []string{ref, "refs/heads/" + ref, "refs/tags/" + ref + "^{}", "refs/tags/" + ref}
	found := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		found[fields[1]] = fields[0]
	}
	for _, name := range candidates {
		if sha, ok := found[name]; ok {
			return sha, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrRefNotFound, ref)
}

// Fetch shallow-clones ref into dest and drops the .git directory.
func (g *GitFetcher) Fetch(ctx context.Context, url, ref, dest string) error {
	if _, err := g.runGit(ctx, "clone", "--quiet", "--depth", "1", "--single-branch", "--branch", ref, url, dest); err != nil {
		return fmt.Errorf("failed to clone %s@%s: %w", url, ref, err)
	}
	if err := os.RemoveAll(filepath.Join(dest, ".git")); err != nil {
		return fmt.Errorf("failed to remove clone metadata: %w", err)
	}
	return nil
}

// FakeFetcher serves a fixed tree for tests.
type FakeFetcher struct {
	// Commit is returned by LatestCommit.
	Commit string

	// Files maps slash paths to contents written by Fetch.
	Files map[string]string

	CommitErr error
	FetchErr  error

	// Fetches counts calls to Fetch.
	Fetches int
}

// NewFakeFetcher creates a FakeFetcher that reports commit.
func NewFakeFetcher(commit string, files map[string]string) *FakeFetcher {
	return &FakeFetcher{Commit: commit, Files: files}
}

func (f *FakeFetcher) LatestCommit(ctx context.Context, url, ref string) (string, error) {
	if f.CommitErr != nil {
		return "", f.CommitErr
	}
	return f.Commit, nil
}

func (f *FakeFetcher) Fetch(ctx context.Context, url, ref, dest string) error {
	f.Fetches++
	if f.FetchErr != nil {
		return f.FetchErr
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for rel, body := range f.Files {
		path := filepath.Join(dest, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			return err
		}
	}
	return nil
}
