package planner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/layout"
)

// BuildMergePlan plans folding root/{train,valid,test}/<category> back into
// root/<category> and removing the partition roots.
//
// Categories are discovered under train only. A category present under
// valid or test but not under train is recorded in Plan.Orphans; its items
// are not moved and are deleted with the partition roots. Every category
// found under train must exist under valid and test as well. A category
// named after a partition is a conflict, since it would merge into a
// directory the plan removes.
func BuildMergePlan(fs fsops.FS, root string) (*Plan, error) {
	trainRoot := filepath.Join(root, layout.Train)
	entries, err := fs.ReadDir(trainRoot)
	if err != nil {
		return nil, wrapListError("partition", trainRoot, err)
	}

	plan := NewPlan(KindMerge, root, root)
	checker := NewConflictChecker(fs)

	inTrain := make(map[string]bool, len(entries))
	var categories []string
	for _, entry := range entries {
		if !entry.IsDir {
			plan.AddConflict(&Conflict{
				Path:   filepath.Join(trainRoot, entry.Name),
				Reason: "expected a category directory, found a file",
			})
			continue
		}
		if layout.IsPartitionName(entry.Name) {
			plan.AddConflict(&Conflict{
				Path:   filepath.Join(trainRoot, entry.Name),
				Reason: "category name collides with a partition directory",
			})
			continue
		}
		inTrain[entry.Name] = true
		categories = append(categories, entry.Name)
	}

	for _, category := range categories {
		dest := filepath.Join(root, category)
		plan.AddConflict(checker.RequireDirOrAbsent(dest))
		plan.AddOperation(Operation{Type: OpMkdirAll, Dest: dest, RelDest: category, Category: category})

		for _, bucket := range layout.PartitionNames() {
			srcDir := filepath.Join(root, bucket, category)
			itemEntries, err := fs.ReadDir(srcDir)
			if err != nil {
				return nil, wrapListError("partition category", srcDir, err)
			}

			items := make([]string, 0, len(itemEntries))
			for _, e := range itemEntries {
				target := filepath.Join(dest, e.Name)
				plan.AddConflict(checker.RequireAbsent(target, filepath.Join(bucket, category, e.Name)))
				items = append(items, e.Name)
				plan.AddOperation(Operation{
					Type:     OpMove,
					Source:   filepath.Join(srcDir, e.Name),
					Dest:     target,
					RelDest:  filepath.Join(category, e.Name),
					Category: category,
					Item:     e.Name,
					Bucket:   bucket,
				})
			}
			plan.Assignments = append(plan.Assignments, Assignment{Category: category, Bucket: bucket, Items: items})
		}
	}

	for _, bucket := range []string{layout.Valid, layout.Test} {
		orphans, err := orphanCategories(fs, filepath.Join(root, bucket), inTrain)
		if err != nil {
			return nil, err
		}
		for _, name := range orphans {
			plan.Orphans = append(plan.Orphans, filepath.Join(bucket, name))
		}
	}

	for _, bucket := range layout.PartitionNames() {
		plan.AddOperation(Operation{Type: OpRemoveAll, Dest: filepath.Join(root, bucket), Bucket: bucket})
	}

	return plan, nil
}

// orphanCategories lists entries of a partition root that train does not know.
func orphanCategories(fs fsops.FS, partitionRoot string, inTrain map[string]bool) ([]string, error) {
	entries, err := fs.ReadDir(partitionRoot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list partition %s: %w", partitionRoot, err)
	}
	var orphans []string
	for _, e := range entries {
		if !inTrain[e.Name] {
			orphans = append(orphans, e.Name)
		}
	}
	return orphans, nil
}
