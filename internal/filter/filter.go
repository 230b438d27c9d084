// Package filter narrows lists of resolved asset views, either by a plain
// keyword or by a boolean expr-lang expression such as
//
//	effective && "testing" in tags
//	source == "inherited" || kind == "collection"
package filter

import (
	"errors"
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/danieljhkim/assetgate/internal/domain"
)

// ErrEmptyExpression is returned by Compile for a blank expression.
var ErrEmptyExpression = errors.New("filter expression must not be empty")

// MatchKeyword reports whether query occurs, ignoring case, in any of the
// view's name, path, slug, description, tags, apply_to patterns, or the ids
// and names of its collections. An empty query matches everything.
func MatchKeyword(v *domain.AssetView, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), q)
	}

	for _, s := range []string{v.Name, v.Path, v.Slug, v.Description} {
		if contains(s) {
			return true
		}
	}
	for _, list := range [][]string{v.Tags, v.ApplyTo} {
		for _, s := range list {
			if contains(s) {
				return true
			}
		}
	}
	for _, c := range v.Collections {
		if contains(c.ID) || contains(c.Name) {
			return true
		}
	}
	return false
}

// Predicate is a compiled filter.
type Predicate struct {
	expression string
	program    *exprvm.Program
}

// Compile type-checks expression against the view environment.
func Compile(expression string) (*Predicate, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, ErrEmptyExpression
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(Environment(&domain.AssetView{})),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expression, err)
	}
	return &Predicate{expression: expression, program: program}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expression
}

// Match evaluates the predicate for v.
func (p *Predicate) Match(v *domain.AssetView) (bool, error) {
	out, err := exprlang.Run(p.program, Environment(v))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter %q on %s: %w", p.expression, v.Path, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, want bool", p.expression, out)
	}
	return b, nil
}

// Environment exposes a view to expressions. explicit and inherited are nil
// when unset.
func Environment(v *domain.AssetView) map[string]any {
	var explicit, inherited any
	if v.Explicit != nil {
		explicit = *v.Explicit
	}
	if v.Inherited != nil {
		inherited = v.Inherited.Value
	}

	collections := make([]string, 0, len(v.Collections))
	for _, c := range v.Collections {
		collections = append(collections, c.ID)
	}
	members := make([]string, 0, len(v.Members))
	for _, m := range v.Members {
		members = append(members, m.Path)
	}

	return map[string]any{
		"kind":        v.Kind.String(),
		"path":        v.Path,
		"name":        v.Name,
		"slug":        v.Slug,
		"description": v.Description,
		"tags":        nonNil(v.Tags),
		"apply_to":    nonNil(v.ApplyTo),
		"tools":       nonNil(v.Tools),
		"mode":        v.Mode,
		"collections": collections,
		"effective":   v.Effective,
		"explicit":    explicit,
		"inherited":   inherited,
		"source":      string(v.Source()),
		"members":     members,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Apply keeps the views that match both the keyword and, when non-nil, the
// predicate. Views are returned in their original order.
func Apply(views []domain.AssetView, keyword string, pred *Predicate) ([]domain.AssetView, error) {
	out := make([]domain.AssetView, 0, len(views))
	for i := range views {
		v := &views[i]
		if !MatchKeyword(v, keyword) {
			continue
		}
		if pred != nil {
			ok, err := pred.Match(v)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, *v)
	}
	return out, nil
}
