package planner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/layout"
	"github.com/danieljhkim/corpussplit/internal/sequence"
)

// AssignFlat orders items with the deterministic sequencer and cuts the
// ordering into one slice per fraction using FlatBoundaries.
func AssignFlat(items []string, fractions []float64, seed int64) [][]string {
	ordered := sequence.Order(items, seed)
	ranges := FlatBoundaries(len(ordered), fractions)
	out := make([][]string, len(ranges))
	for i, r := range ranges {
		out[i] = append([]string{}, ordered[r.Start:r.End]...)
	}
	return out
}

// BuildFlatSplitPlan plans splitting every category directory under root
// into root/<partition>/<category>/.
//
// Per category the operations are: ensure each partition root, create each
// partition's category directory, move the items of each partition, then
// remove the drained source directory.
func BuildFlatSplitPlan(fs fsops.FS, root string, spec layout.SplitSpec, seed int64, filter *Filter) (*Plan, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(root)
	if err != nil {
		return nil, wrapListError("corpus", root, err)
	}

	plan := NewPlan(KindSplit, root, root)
	plan.Spec = spec
	plan.Seed = seed
	checker := NewConflictChecker(fs)

	buckets := make(map[string]bool, len(spec))
	for _, name := range spec.Names() {
		buckets[name] = true
	}

	var categories []string
	for _, entry := range entries {
		catPath := filepath.Join(root, entry.Name)
		switch {
		case filter.Excluded(entry.Name):
			plan.Skipped = append(plan.Skipped, entry.Name)
		case layout.IsStagingName(entry.Name):
			plan.AddConflict(&Conflict{Path: catPath, Reason: "leftover staging directory from an interrupted run"})
		case buckets[entry.Name]:
			plan.AddConflict(&Conflict{Path: catPath, Reason: "category name collides with a partition name; corpus may already be split"})
		case !entry.IsDir:
			plan.AddConflict(&Conflict{Path: catPath, Reason: "expected a category directory, found a file"})
		default:
			categories = append(categories, entry.Name)
		}
	}

	fractions := spec.Fractions()
	for i, category := range categories {
		catPath := filepath.Join(root, category)

		for _, bucket := range spec.Names() {
			bucketRoot := filepath.Join(root, bucket)
			if i == 0 {
				plan.AddConflict(checker.RequireDirOrAbsent(bucketRoot))
				plan.AddOperation(Operation{Type: OpMkdirAll, Dest: bucketRoot, RelDest: bucket, Bucket: bucket})
			}
			dest := filepath.Join(bucketRoot, category)
			plan.AddConflict(checker.RequireAbsent(dest, category))
			plan.AddOperation(Operation{
				Type:     OpMkdir,
				Dest:     dest,
				RelDest:  filepath.Join(bucket, category),
				Category: category,
				Bucket:   bucket,
			})
		}

		itemEntries, err := fs.ReadDir(catPath)
		if err != nil {
			return nil, wrapListError("category", catPath, err)
		}
		items := make([]string, 0, len(itemEntries))
		retained := false
		for _, e := range itemEntries {
			rel := filepath.Join(category, e.Name)
			if filter.Excluded(rel) {
				plan.Skipped = append(plan.Skipped, rel)
				retained = true
				continue
			}
			items = append(items, e.Name)
		}

		for b, slice := range AssignFlat(items, fractions, seed) {
			bucket := spec[b].Name
			plan.Assignments = append(plan.Assignments, Assignment{Category: category, Bucket: bucket, Items: slice})
			for _, item := range slice {
				plan.AddOperation(Operation{
					Type:     OpMove,
					Source:   filepath.Join(catPath, item),
					Dest:     filepath.Join(root, bucket, category, item),
					RelDest:  filepath.Join(bucket, category, item),
					Category: category,
					Item:     item,
					Bucket:   bucket,
				})
			}
		}

		if retained {
			plan.Retained = append(plan.Retained, category)
			continue
		}
		plan.AddOperation(Operation{Type: OpRemoveDir, Dest: catPath, Category: category})
	}

	return plan, nil
}

// wrapListError maps a failed listing to the error taxonomy.
func wrapListError(what, path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s directory %s: %w", layout.ErrNotFound, what, path, err)
	}
	return fmt.Errorf("failed to list %s directory %s: %w", what, path, err)
}
