package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/assetgate/internal/hash"
)

// LoadResult is a freshly built catalog plus non-fatal problems found while
// reading the content tree.
type LoadResult struct {
	Catalog  *Catalog
	Warnings []string
}

// source describes where assets of one kind live inside a content root.
type source struct {
	kind   AssetKind
	suffix string
}

var sources = []source{
	{KindPrompt, ".prompt.md"},
	{KindInstruction, ".instructions.md"},
	{KindChatMode, ".chatmode.md"},
	{KindCollection, ".collection.yml"},
}

// frontMatter is the optional YAML header of markdown assets.
type frontMatter struct {
	Description string     `yaml:"description"`
	Tags        stringList `yaml:"tags"`
	Mode        string     `yaml:"mode"`
	Tools       stringList `yaml:"tools"`
	ApplyTo     stringList `yaml:"applyTo"`
	ApplyToAlt  stringList `yaml:"apply_to"`
}

type collectionFile struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Tags        stringList `yaml:"tags"`
	Items       []struct {
		Path string `yaml:"path"`
		Kind string `yaml:"kind"`
	} `yaml:"items"`
}

// stringList accepts either a YAML sequence or a single (optionally
// comma-separated) scalar.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*l = out
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := node.Decode(&out); err != nil {
			return err
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("expected string or list, got yaml kind %d", node.Kind)
	}
}

// Load walks contentDir and builds a catalog. Files that cannot be read or
// parsed are skipped and reported as warnings. A missing kind directory is
// not an error; a missing content root is.
func Load(contentDir string, hasher hash.Hasher) (*LoadResult, error) {
	info, err := os.Stat(contentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %s is not a directory", contentDir)
	}

	res := &LoadResult{Catalog: &Catalog{}}
	for _, src := range sources {
		files, err := findFiles(filepath.Join(contentDir, src.kind.Dir()), src.suffix)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", src.kind.Dir(), err)
		}
		for _, file := range files {
			if err := res.add(contentDir, file, src, hasher); err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("Failed to parse %s %s: %v", src.kind, file, err))
			}
		}
	}
	res.Catalog.sortByPath()
	return res, nil
}

func findFiles(root, suffix string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == root {
				return filepath.SkipDir
			}
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), suffix) {
			files = append(files, p)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return files, err
}

func (r *LoadResult) add(contentDir, file string, src source, hasher hash.Hasher) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(contentDir, file)
	if err != nil {
		return err
	}
	relPath := filepath.ToSlash(rel)
	slug := strings.TrimSuffix(filepath.Base(file), src.suffix)
	sum := hasher.HashBytes(data)

	if src.kind == KindCollection {
		coll, err := parseCollection(data, relPath, slug)
		if err != nil {
			return err
		}
		coll.SHA256 = sum
		r.Catalog.Collections = append(r.Catalog.Collections, coll)
		return nil
	}

	fm := parseFrontMatter(data)
	name := extractTitle(data)
	if name == "" {
		name = SlugTitle(slug)
	}

	switch src.kind {
	case KindPrompt:
		r.Catalog.Prompts = append(r.Catalog.Prompts, Prompt{
			Path: relPath, Slug: slug, Name: name,
			Description: fm.Description, Mode: fm.Mode, Tags: fm.Tags, SHA256: sum,
		})
	case KindInstruction:
		applyTo := []string(fm.ApplyTo)
		if len(applyTo) == 0 {
			applyTo = fm.ApplyToAlt
		}
		if len(applyTo) == 0 {
			applyTo = []string{"**"}
		}
		r.Catalog.Instructions = append(r.Catalog.Instructions, Instruction{
			Path: relPath, Slug: slug, Name: name,
			Description: fm.Description, ApplyTo: applyTo, Tags: fm.Tags, SHA256: sum,
		})
	case KindChatMode:
		r.Catalog.ChatModes = append(r.Catalog.ChatModes, ChatMode{
			Path: relPath, Slug: slug, Name: name,
			Description: fm.Description, Tools: fm.Tools, Tags: fm.Tags, SHA256: sum,
		})
	}
	return nil
}

func parseCollection(data []byte, relPath, slug string) (Collection, error) {
	var doc collectionFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Collection{}, fmt.Errorf("invalid collection yaml: %w", err)
	}
	coll := Collection{
		Path:        relPath,
		ID:          doc.ID,
		Slug:        slug,
		Name:        doc.Name,
		Description: doc.Description,
		Tags:        doc.Tags,
	}
	if coll.ID == "" {
		coll.ID = slug
	}
	if coll.Name == "" {
		coll.Name = SlugTitle(slug)
	}
	for _, it := range doc.Items {
		kind, err := parseItemKind(it.Kind)
		if err != nil {
			continue
		}
		coll.Items = append(coll.Items, CollectionItem{Path: it.Path, Kind: kind})
	}
	return coll, nil
}

// parseItemKind is stricter than ParseKind: collection files use singular
// names only.
func parseItemKind(s string) (AssetKind, error) {
	switch s {
	case "prompt":
		return KindPrompt, nil
	case "instruction":
		return KindInstruction, nil
	case "chatmode", "chat_mode":
		return KindChatMode, nil
	case "collection":
		return KindCollection, nil
	}
	return 0, fmt.Errorf("unsupported item kind %q", s)
}

// parseFrontMatter returns empty metadata when the header is absent or
// malformed.
func parseFrontMatter(data []byte) frontMatter {
	var fm frontMatter
	text := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(text, []byte("---\n")) {
		return fm
	}
	body := text[4:]
	if end := bytes.Index(body, []byte("\n---\n")); end >= 0 {
		body = body[:end]
	} else if bytes.HasSuffix(body, []byte("\n---")) {
		body = body[:len(body)-4]
	}
	if err := yaml.Unmarshal(body, &fm); err != nil {
		return frontMatter{}
	}
	return fm
}

func extractTitle(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// SlugTitle turns "code-review" into "Code Review".
func SlugTitle(slug string) string {
	titleCaser := cases.Title(language.Und, cases.NoLower)
	words := strings.Split(slug, "-")
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}

func (c *Catalog) sortByPath() {
	sort.Slice(c.Prompts, func(i, j int) bool { return c.Prompts[i].Path < c.Prompts[j].Path })
	sort.Slice(c.Instructions, func(i, j int) bool { return c.Instructions[i].Path < c.Instructions[j].Path })
	sort.Slice(c.ChatModes, func(i, j int) bool { return c.ChatModes[i].Path < c.ChatModes[j].Path })
	sort.Slice(c.Collections, func(i, j int) bool { return c.Collections[i].Path < c.Collections[j].Path })
}
