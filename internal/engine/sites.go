package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/planner"
)

// SplitSites copies req.Input/<category>/<case>/ items into
// req.Output/H<i>/<category>/<case>/ for every site of req.Spec. The input
// tree is never modified.
func (e *Engine) SplitSites(ctx context.Context, req *SiteSplitRequest) (*RunResult, error) {
	input, err := absClean(req.Input)
	if err != nil {
		return nil, err
	}
	output, err := absClean(req.Output)
	if err != nil {
		return nil, err
	}
	if err := requireDisjoint(input, output); err != nil {
		return nil, err
	}

	e.warnFractionSum(req.Spec)
	planFS := e.fs
	if req.Replace {
		if req.DryRun {
			planFS = hiddenFS{FS: e.fs, hidden: output}
		} else if err := e.fs.RemoveAll(output); err != nil {
			return nil, fmt.Errorf("failed to clear output directory: %w", err)
		}
	}

	plan, err := planner.BuildSiteSplitPlan(planFS, input, output, req.Spec, req.Seed, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build site split plan: %w", err)
	}
	e.logAssignments(plan)

	if plan.HasConflicts() {
		return &RunResult{Plan: plan}, plan.ConflictError()
	}

	for _, s := range plan.Slack {
		e.logger.Warn("site ranges do not cover case exactly",
			"category", s.Category,
			"case", s.Case,
			"items", s.Count,
			"dropped", s.Dropped,
			"duplicated", s.Duplicated,
		)
	}

	if req.DryRun {
		return &RunResult{Plan: plan}, nil
	}

	if err := e.fs.MkdirAll(output, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return e.execute(ctx, plan, req.Direct, req.Verify)
}

// hiddenFS reports everything at or below hidden as missing. A dry run
// with Replace plans against it so that existing sites are not conflicts.
type hiddenFS struct {
	fsops.FS
	hidden string
}

func (h hiddenFS) Lstat(path string) (os.FileInfo, error) {
	if nested(h.hidden, path) {
		return nil, &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
	}
	return h.FS.Lstat(path)
}

func (h hiddenFS) Exists(path string) (bool, error) {
	if nested(h.hidden, path) {
		return false, nil
	}
	return h.FS.Exists(path)
}

func (h hiddenFS) ReadDir(path string) ([]fsops.Entry, error) {
	if nested(h.hidden, path) {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}
	return h.FS.ReadDir(path)
}
