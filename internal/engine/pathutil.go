package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// absClean resolves a user-provided path to a clean absolute path.
func absClean(userPath string) (string, error) {
	if strings.TrimSpace(userPath) == "" {
		return "", fmt.Errorf("%w: empty path", ErrValidation)
	}
	abs, err := filepath.Abs(userPath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to resolve %q: %w", ErrValidation, userPath, err)
	}
	return filepath.Clean(abs), nil
}

// nested reports whether inner equals outer or lies beneath it.
func nested(outer, inner string) bool {
	rel, err := filepath.Rel(outer, inner)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// requireDisjoint rejects a source and destination that overlap, since
// replacing the destination would destroy the source.
func requireDisjoint(src, dst string) error {
	switch {
	case src == dst:
		return fmt.Errorf("%w: source and destination are the same directory %s", ErrValidation, src)
	case nested(src, dst):
		return fmt.Errorf("%w: destination %s is inside source %s", ErrValidation, dst, src)
	case nested(dst, src):
		return fmt.Errorf("%w: source %s is inside destination %s", ErrValidation, src, dst)
	}
	return nil
}

// firstSegment returns the first path component of a relative path.
func firstSegment(rel string) string {
	if i := strings.IndexRune(rel, filepath.Separator); i >= 0 {
		return rel[:i]
	}
	return rel
}
