package planner

import (
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/layout"
)

// Conflict represents a conflict detected during planning.
type Conflict struct {
	// Path is the path where the conflict was detected
	Path string `json:"path"`

	// Reason is a human-readable explanation of the conflict
	Reason string `json:"reason"`

	// Err is the taxonomy sentinel, layout.ErrAlreadyExists or layout.ErrConflict
	Err error `json:"-"`
}

func (c Conflict) kind() error {
	if c.Err == nil {
		return layout.ErrConflict
	}
	return c.Err
}

// ConflictChecker checks destinations against the tree and against paths
// already claimed earlier in the same plan.
type ConflictChecker struct {
	fs      fsops.FS
	claimed map[string]string
}

// NewConflictChecker creates a new ConflictChecker.
func NewConflictChecker(fs fsops.FS) *ConflictChecker {
	return &ConflictChecker{
		fs:      fs,
		claimed: make(map[string]string),
	}
}

// RequireAbsent returns a conflict if path exists on disk or was claimed
// earlier in the plan, then claims it for owner.
func (c *ConflictChecker) RequireAbsent(path, owner string) *Conflict {
	if previous, ok := c.claimed[path]; ok {
		return &Conflict{
			Path:   path,
			Reason: fmt.Sprintf("destination claimed by both %s and %s", previous, owner),
			Err:    layout.ErrAlreadyExists,
		}
	}
	exists, err := c.fs.Exists(path)
	if err != nil {
		return &Conflict{Path: path, Reason: fmt.Sprintf("failed to check path: %v", err)}
	}
	if exists {
		return &Conflict{
			Path:   path,
			Reason: "destination already exists",
			Err:    layout.ErrAlreadyExists,
		}
	}
	c.claimed[path] = owner
	return nil
}

// RequireDirOrAbsent returns a conflict if path exists and is not a directory.
func (c *ConflictChecker) RequireDirOrAbsent(path string) *Conflict {
	info, err := c.fs.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &Conflict{Path: path, Reason: fmt.Sprintf("failed to check path: %v", err)}
	}
	if !info.IsDir() {
		return &Conflict{Path: path, Reason: "expected a directory, found a file"}
	}
	return nil
}
