package planner

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/danieljhkim/corpussplit/internal/layout"
)

// Filter excludes corpus entries by doublestar glob. Patterns match the
// slash-separated path relative to the corpus root; a pattern without a
// slash also matches the entry's base name, so ".*" skips hidden files at
// any depth. A nil Filter excludes nothing.
type Filter struct {
	patterns []string
}

// NewFilter validates patterns and returns a Filter.
func NewFilter(patterns []string) (*Filter, error) {
	clean := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: invalid exclude pattern %q", layout.ErrValidation, p)
		}
		clean = append(clean, p)
	}
	return &Filter{patterns: clean}, nil
}

// Patterns returns the active patterns.
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.patterns...)
}

// Excluded reports whether the corpus-relative path rel is excluded.
func (f *Filter) Excluded(rel string) bool {
	if f == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, p := range f.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
		}
	}
	return false
}
