package engine

import (
	"github.com/danieljhkim/corpussplit/internal/layout"
	"github.com/danieljhkim/corpussplit/internal/planner"
)

// SplitRequest represents a request to split a flat corpus in place.
type SplitRequest struct {
	// Root is the corpus root holding one directory per category
	Root string

	// Spec names the partitions and their fractions
	Spec layout.SplitSpec

	// Seed drives the deterministic sequencer
	Seed int64

	// Filter excludes entries from the split (nil excludes nothing)
	Filter *planner.Filter

	// Direct executes operations in place with no staging or rollback
	Direct bool

	// Verify checks the staged tree against the plan before committing
	Verify bool

	// DryRun performs planning only without making changes
	DryRun bool
}

// MergeRequest represents a request to fold a split corpus back together.
type MergeRequest struct {
	// Root is the corpus root holding train, valid and test
	Root string

	// Strict refuses to run when categories outside train would be lost
	Strict bool

	// Direct executes operations in place with no staging or rollback
	Direct bool

	// DryRun performs planning only without making changes
	DryRun bool
}

// SiteSplitRequest represents a request to copy a category/case corpus into
// per-site trees.
type SiteSplitRequest struct {
	// Input is the source corpus root; it is never modified
	Input string

	// Output is the directory receiving H1..Hn
	Output string

	// Replace removes an existing Output before the sites are written
	Replace bool

	// Spec names the sites and their fractions
	Spec layout.SplitSpec

	// Seed is recorded but does not affect the assignment
	Seed int64

	// Filter excludes entries from the split (nil excludes nothing)
	Filter *planner.Filter

	// Direct executes operations in place with no staging or rollback
	Direct bool

	// Verify compares the digest of every copy with its source
	Verify bool

	// DryRun performs planning only without making changes
	DryRun bool
}

// CopyRequest represents a request to replace Dst with a copy of Src.
type CopyRequest struct {
	Src string
	Dst string

	// Verify compares the digest of every copied file with its source
	Verify bool
}
