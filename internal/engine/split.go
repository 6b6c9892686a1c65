package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/corpussplit/internal/planner"
)

// Split partitions every category directory under req.Root into
// <root>/<partition>/<category>/.
//
// Algorithm steps:
// 1. Build the flat split plan (lists the corpus, assigns items)
// 2. Refuse to run if the plan has conflicts
// 3. Return the plan if DryRun
// 4. Execute the plan directly or through a staging directory
func (e *Engine) Split(ctx context.Context, req *SplitRequest) (*RunResult, error) {
	e.warnFractionSum(req.Spec)
	plan, err := planner.BuildFlatSplitPlan(e.fs, req.Root, req.Spec, req.Seed, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build split plan: %w", err)
	}
	e.logAssignments(plan)

	if plan.HasConflicts() {
		return &RunResult{Plan: plan}, plan.ConflictError()
	}

	for _, category := range plan.Retained {
		e.logger.Warn("category keeps excluded entries; source directory retained", "category", category)
	}

	if req.DryRun {
		return &RunResult{Plan: plan}, nil
	}
	return e.execute(ctx, plan, req.Direct, req.Verify)
}
