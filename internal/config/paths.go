// Package config locates assetgate's files inside a repository and loads the
// optional settings file.
//
// Everything assetgate owns lives under <repo>/.assetgate/ (override file,
// settings, snapshot cache, lock). Enabled assets are mirrored into the
// repository's .github/ tree where Copilot picks them up.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/gitx"
)

// EnvRepo overrides repository discovery.
const EnvRepo = "ASSETGATE_REPO"

// WorkspaceDirName is the per-repository state directory.
const WorkspaceDirName = ".assetgate"

// Paths contains all the filesystem paths used by assetgate for one repository.
type Paths struct {
	// Root is the repository root.
	Root string

	// GitHub is <root>/.github, the mirror target.
	GitHub       string
	Prompts      string
	Instructions string
	ChatModes    string
	Collections  string

	// Workspace is <root>/.assetgate.
	Workspace  string
	Cache      string
	Backups    string
	Enablement string
	Settings   string
	Lock       string
}

// NewPaths lays out paths for the repository at root.
func NewPaths(root string) *Paths {
	gh := filepath.Join(root, ".github")
	ws := filepath.Join(root, WorkspaceDirName)
	return &Paths{
		Root:         root,
		GitHub:       gh,
		Prompts:      filepath.Join(gh, catalog.KindPrompt.Dir()),
		Instructions: filepath.Join(gh, catalog.KindInstruction.Dir()),
		ChatModes:    filepath.Join(gh, catalog.KindChatMode.Dir()),
		Collections:  filepath.Join(gh, catalog.KindCollection.Dir()),
		Workspace:    ws,
		Cache:        filepath.Join(ws, "cache"),
		Backups:      filepath.Join(ws, "backups"),
		Enablement:   filepath.Join(ws, "enablement.json"),
		Settings:     filepath.Join(ws, "config.yaml"),
		Lock:         filepath.Join(ws, "enablement.lock"),
	}
}

// AssetDir returns the .github directory for kind.
func (p *Paths) AssetDir(kind catalog.AssetKind) string {
	switch kind {
	case catalog.KindPrompt:
		return p.Prompts
	case catalog.KindInstruction:
		return p.Instructions
	case catalog.KindChatMode:
		return p.ChatModes
	default:
		return p.Collections
	}
}

// EnsureDirectories creates the mirror and workspace directories. Collections
// are a logical grouping only and get no directory under .github.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Prompts,
		p.Instructions,
		p.ChatModes,
		p.Cache,
		p.Backups,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// DiscoverRoot picks the repository root: the explicit flag value, then
// $ASSETGATE_REPO, then the enclosing git repository of cwd, then cwd itself.
func DiscoverRoot(flagValue, cwd string, repo gitx.Repo) (string, error) {
	for _, candidate := range []string{flagValue, os.Getenv(EnvRepo)} {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to resolve repository path: %w", err)
		}
		return abs, nil
	}

	if root, err := repo.Discover(cwd); err == nil {
		return root, nil
	}

	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return abs, nil
}
