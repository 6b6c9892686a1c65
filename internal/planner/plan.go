package planner

import (
	"fmt"

	"github.com/danieljhkim/corpussplit/internal/layout"
)

// Plan kinds.
const (
	KindSplit = "split"
	KindMerge = "merge"
	KindSites = "sites"
)

// Plan is the complete, ordered description of one run.
type Plan struct {
	// Kind is one of KindSplit, KindMerge, KindSites
	Kind string `json:"kind"`

	// Source is the tree items are read from
	Source string `json:"source"`

	// Root is the tree operations write into; every RelDest is relative to it
	Root string `json:"root"`

	// Spec is the split spec used (empty for merge)
	Spec layout.SplitSpec `json:"spec,omitempty"`

	// Seed is the sequencer seed (recorded for sites even though unused)
	Seed int64 `json:"seed"`

	// Operations is the ordered list of operations to execute
	Operations []Operation `json:"operations"`

	// Assignments records which items land in which bucket
	Assignments []Assignment `json:"assignments"`

	// Conflicts is a list of detected conflicts (empty if no conflicts)
	Conflicts []Conflict `json:"conflicts,omitempty"`

	// Orphans lists partition/category pairs a merge will discard
	Orphans []string `json:"orphans,omitempty"`

	// Skipped lists corpus-relative paths excluded by the filter
	Skipped []string `json:"skipped,omitempty"`

	// Retained lists source category directories kept because they still
	// hold excluded items
	Retained []string `json:"retained,omitempty"`

	// Slack lists cases whose site ranges do not cover their items exactly
	Slack []Slack `json:"slack,omitempty"`
}

// Operation represents a single filesystem operation to execute.
type Operation struct {
	// Type is the operation type, one of the Op constants
	Type string `json:"type"`

	// Source is the absolute source path (move and copy only)
	Source string `json:"source,omitempty"`

	// Dest is the absolute path the operation creates or removes
	Dest string `json:"dest"`

	// RelDest is Dest relative to the plan root, empty for paths outside it
	RelDest string `json:"rel_dest,omitempty"`

	Category string `json:"category,omitempty"`
	Case     string `json:"case,omitempty"`
	Item     string `json:"item,omitempty"`

	// Bucket is the partition or site the operation belongs to
	Bucket string `json:"bucket,omitempty"`
}

// Assignment lists the items of one category (and case) placed in one bucket.
type Assignment struct {
	Category string   `json:"category"`
	Case     string   `json:"case,omitempty"`
	Bucket   string   `json:"bucket"`
	Items    []string `json:"items"`
}

// Slack records the coverage of one case under cumulative site boundaries.
type Slack struct {
	Category string `json:"category"`
	Case     string `json:"case"`
	Coverage
}

// Operation type constants
const (
	OpMkdir     = "mkdir"
	OpMkdirAll  = "mkdir_all"
	OpMove      = "move"
	OpCopy      = "copy"
	OpRemoveDir = "remove_dir"
	OpRemoveAll = "remove_all"
)

// IsFinalizer reports whether the operation deletes sources and therefore
// runs only after every item has been placed.
func (op Operation) IsFinalizer() bool {
	return op.Type == OpRemoveDir || op.Type == OpRemoveAll
}

// NewPlan creates a new empty Plan.
func NewPlan(kind, source, root string) *Plan {
	return &Plan{
		Kind:        kind,
		Source:      source,
		Root:        root,
		Operations:  []Operation{},
		Assignments: []Assignment{},
		Conflicts:   []Conflict{},
	}
}

// HasConflicts returns true if the plan has any conflicts.
func (p *Plan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// AddOperation adds an operation to the plan.
func (p *Plan) AddOperation(op Operation) {
	p.Operations = append(p.Operations, op)
}

// AddConflict adds a conflict to the plan.
func (p *Plan) AddConflict(conflict *Conflict) {
	if conflict != nil {
		p.Conflicts = append(p.Conflicts, *conflict)
	}
}

// ConflictError summarises the conflicts as an error matching ErrConflict
// and the sentinel of the first conflict, or returns nil.
func (p *Plan) ConflictError() error {
	if !p.HasConflicts() {
		return nil
	}
	first := p.Conflicts[0]
	return fmt.Errorf("%w: %d conflicts detected, first at %s: %s (%w)",
		layout.ErrConflict, len(p.Conflicts), first.Path, first.Reason, first.kind())
}

// CountOps returns the number of operations of the given type.
func (p *Plan) CountOps(opType string) int {
	n := 0
	for _, op := range p.Operations {
		if op.Type == opType {
			n++
		}
	}
	return n
}

// BucketTotals returns the number of assigned items per bucket.
func (p *Plan) BucketTotals() map[string]int {
	totals := make(map[string]int)
	for _, a := range p.Assignments {
		totals[a.Bucket] += len(a.Items)
	}
	return totals
}
