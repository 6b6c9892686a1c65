// Package manifest records what a corpussplit run did: which items landed in
// which partition or site, and what was skipped, retained or lost.
package manifest

import (
	"time"

	"github.com/danieljhkim/corpussplit/internal/layout"
	"github.com/danieljhkim/corpussplit/internal/planner"
)

// SchemaVersion is the current manifest schema version.
const SchemaVersion = 1

// Manifest is the JSON record of one run.
type Manifest struct {
	// SchemaVersion is the manifest format version
	SchemaVersion int `json:"schemaVersion"`

	// RunID identifies the run (empty for dry runs)
	RunID string `json:"runId,omitempty"`

	// Kind is the plan kind: split, merge or sites
	Kind string `json:"kind"`

	// CreatedAt is when the manifest was written
	CreatedAt time.Time `json:"createdAt"`

	// Source is the tree items were read from
	Source string `json:"source"`

	// Root is the tree that was written
	Root string `json:"root"`

	Seed int64            `json:"seed"`
	Spec layout.SplitSpec `json:"spec,omitempty"`

	// DryRun is true when nothing was executed
	DryRun bool `json:"dryRun"`

	// Staged is true when the run went through a staging directory
	Staged bool `json:"staged"`

	// Applied is the number of operations executed
	Applied int `json:"applied"`

	// Totals maps each partition or site to its item count
	Totals map[string]int `json:"totals"`

	Assignments []planner.Assignment `json:"assignments"`
	Orphans     []string             `json:"orphans,omitempty"`
	Skipped     []string             `json:"skipped,omitempty"`
	Retained    []string             `json:"retained,omitempty"`
	Slack       []planner.Slack      `json:"slack,omitempty"`
}

// FromPlan builds a manifest from a plan. Execution fields are left for the
// caller to fill in.
func FromPlan(plan *planner.Plan, runID string, createdAt time.Time) *Manifest {
	return &Manifest{
		SchemaVersion: SchemaVersion,
		RunID:         runID,
		Kind:          plan.Kind,
		CreatedAt:     createdAt,
		Source:        plan.Source,
		Root:          plan.Root,
		Seed:          plan.Seed,
		Spec:          plan.Spec,
		Totals:        plan.BucketTotals(),
		Assignments:   plan.Assignments,
		Orphans:       plan.Orphans,
		Skipped:       plan.Skipped,
		Retained:      plan.Retained,
		Slack:         plan.Slack,
	}
}

// Items returns every item recorded for bucket, as category/[case/]item
// paths in manifest order.
func (m *Manifest) Items(bucket string) []string {
	var out []string
	for _, a := range m.Assignments {
		if a.Bucket != bucket {
			continue
		}
		prefix := a.Category + "/"
		if a.Case != "" {
			prefix += a.Case + "/"
		}
		for _, item := range a.Items {
			out = append(out, prefix+item)
		}
	}
	return out
}
