package engine

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/assetgate/internal/catalog"
	"github.com/danieljhkim/assetgate/internal/domain"
)

// ResolveAsset turns a user-supplied asset argument into a catalog path.
//
// Accepted forms, tried in order:
//   - the catalog path (prompts/review.prompt.md)
//   - the path without its kind directory (review.prompt.md)
//   - a path to the mirrored copy, absolute or relative to cwd
//     (.github/prompts/review.prompt.md)
//   - the slug, or for collections the collection id
func (e *Engine) ResolveAsset(ws *Workspace, kind catalog.AssetKind, arg, cwd string) (string, error) {
	views := ws.Session.Resolution().Views(kind)
	has := func(p string) bool {
		for i := range views {
			if views[i].Path == p {
				return true
			}
		}
		return false
	}

	candidate := path.Clean(filepath.ToSlash(arg))
	if has(candidate) {
		return candidate, nil
	}
	if prefixed := kind.Dir() + "/" + candidate; has(prefixed) {
		return prefixed, nil
	}
	if rel, ok := localToCatalogPath(arg, cwd, e.paths.AssetDir(kind), kind); ok && has(rel) {
		return rel, nil
	}

	var matches []string
	for i := range views {
		v := &views[i]
		if v.Slug == arg || (kind == catalog.KindCollection && v.CollectionID == arg) {
			matches = append(matches, v.Path)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%w: %s %s", domain.ErrAssetNotFound, kind, arg)
	default:
		return "", fmt.Errorf("%w: %q matches %s", ErrAmbiguous, arg, strings.Join(matches, ", "))
	}
}

// localToCatalogPath maps a path under the mirror directory for kind back to
// the catalog path it was copied from. It reports false for paths outside
// assetDir.
func localToCatalogPath(userPath, cwd, assetDir string, kind catalog.AssetKind) (string, bool) {
	var absPath string
	if filepath.IsAbs(userPath) {
		absPath = userPath
	} else {
		absPath = filepath.Join(cwd, userPath)
	}
	absPath = filepath.Clean(absPath)

	relPath, err := filepath.Rel(filepath.Clean(assetDir), absPath)
	if err != nil {
		return "", false
	}

	// Reject paths outside the mirror and the mirror root itself
	if relPath == "." || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", false
	}

	return kind.Dir() + "/" + filepath.ToSlash(relPath), true
}
