package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/danieljhkim/corpussplit/internal/planner"
)

// Merge folds <root>/{train,valid,test}/<category>/ back into
// <root>/<category>/ and removes the partition roots.
//
// Categories are taken from train. A category that exists only under valid
// or test is an orphan: it is reported, and its items are deleted along with
// the partition roots unless req.Strict refuses the run.
func (e *Engine) Merge(ctx context.Context, req *MergeRequest) (*RunResult, error) {
	plan, err := planner.BuildMergePlan(e.fs, req.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to build merge plan: %w", err)
	}
	e.logAssignments(plan)

	if plan.HasConflicts() {
		return &RunResult{Plan: plan}, plan.ConflictError()
	}

	if len(plan.Orphans) > 0 {
		if req.Strict {
			return &RunResult{Plan: plan}, fmt.Errorf("%w: %d categories are missing from train and would be deleted: %s",
				ErrValidation, len(plan.Orphans), strings.Join(plan.Orphans, ", "))
		}
		for _, orphan := range plan.Orphans {
			e.logger.Warn("category missing from train; its items will be deleted", "path", orphan)
		}
	}

	if req.DryRun {
		return &RunResult{Plan: plan}, nil
	}
	return e.execute(ctx, plan, req.Direct, false)
}
