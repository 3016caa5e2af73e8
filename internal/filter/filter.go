// Package filter selects which models end up in the diagram.
package filter

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/sadopc/schemaviz/internal/model"
)

// ErrNoMatch is wrapped by *UnknownModelError.
var ErrNoMatch = errors.New("no model matches")

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

// UnknownModelError is returned when a literal include name matches nothing.
type UnknownModelError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownModelError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s %q", ErrNoMatch, e.Name)
	}
	return fmt.Sprintf("%s %q (did you mean %s?)", ErrNoMatch, e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *UnknownModelError) Unwrap() error { return ErrNoMatch }

// Apply returns a registry holding the models of reg whose names match at
// least one include pattern (all models when include is empty) and no
// exclude pattern. Patterns use path.Match syntax. Order is preserved.
func Apply(reg *model.Registry, include, exclude []string) (*model.Registry, error) {
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
	}

	names := reg.Names()
	for _, p := range include {
		if isLiteral(p) && !matchesAny(p, names) {
			return nil, &UnknownModelError{Name: p, Suggestions: Suggest(p, names)}
		}
	}

	out := model.NewRegistry()
	for _, m := range reg.Models() {
		if len(include) > 0 && !anyMatch(include, m.Name) {
			continue
		}
		if anyMatch(exclude, m.Name) {
			continue
		}
		if err := out.Register(m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func isLiteral(pattern string) bool {
	return !strings.ContainsAny(pattern, `*?[\`)
}

func matchesAny(pattern string, names []string) bool {
	for _, n := range names {
		if ok, _ := path.Match(pattern, n); ok {
			return true
		}
	}
	return false
}

func anyMatch(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Suggest ranks candidates that fuzzily resemble name, best first.
// Matching is case-insensitive.
func Suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}
	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(c)
	}
	query := strings.ToLower(name)

	matches := fuzzy.Find(query, lowered)
	if len(matches) == 0 {
		// The name may be a candidate with extra characters, e.g. "orders_v2".
		for i, c := range lowered {
			if m := fuzzy.Find(c, []string{query}); len(m) > 0 {
				m[0].Index = i
				matches = append(matches, m[0])
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		out = append(out, candidates[m.Index])
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
