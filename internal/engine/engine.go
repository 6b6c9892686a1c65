// Package engine provides the core business logic for corpussplit operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// the filesystem. Every operation first asks the planner for a complete plan,
// refuses to touch the tree when the plan has conflicts, and then executes the
// plan either directly or through a staging directory.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Split/Merge: flat train/valid/test partitioning and its reversal
//   - SplitSites: copying a category/case corpus into per-site trees
//   - stager: stage-then-commit execution with rollback
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/danieljhkim/corpussplit/internal/clock"
	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/hash"
	"github.com/danieljhkim/corpussplit/internal/layout"
	"github.com/danieljhkim/corpussplit/internal/planner"
)

// Engine orchestrates all corpussplit operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs     fsops.FS
	hasher hash.Hasher
	clock  clock.Clock
	logger *slog.Logger
	newID  func() string
}

// New creates a new Engine with the given dependencies. A nil logger
// discards all output.
func New(fs fsops.FS, hasher hash.Hasher, clk clock.Clock, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		fs:     fs,
		hasher: hasher,
		clock:  clk,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// execute runs a conflict-free plan and reports what was done. The result
// is returned even on failure so callers can report the run id.
func (e *Engine) execute(ctx context.Context, plan *planner.Plan, direct, verify bool) (*RunResult, error) {
	result := &RunResult{
		RunID:     e.newID(),
		Plan:      plan,
		Staged:    !direct,
		StartedAt: e.clock.Now(),
	}

	var err error
	if direct {
		result.Applied, err = e.executeDirect(ctx, plan)
	} else {
		result.Applied, err = e.newStager(plan.Root, result.RunID).run(ctx, plan, verify)
	}
	result.FinishedAt = e.clock.Now()
	if err != nil {
		return result, err
	}

	e.logger.Info("run complete", "kind", plan.Kind, "run_id", result.RunID, "operations", result.Applied)
	return result, nil
}

// executeDirect runs every operation in plan order against its final path.
// A failure leaves the tree as it is at that point.
func (e *Engine) executeDirect(ctx context.Context, plan *planner.Plan) (int, error) {
	applied := 0
	for _, op := range plan.Operations {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		if err := e.executeOperation(op, op.Dest); err != nil {
			return applied, err
		}
		e.logger.Debug("applied", "op", op.Type, "dest", op.Dest)
		applied++
	}
	return applied, nil
}

// executeOperation executes a single operation, writing to dest instead of
// op.Dest so the stager can redirect it.
func (e *Engine) executeOperation(op planner.Operation, dest string) error {
	var err error
	switch op.Type {
	case planner.OpMkdir:
		err = e.fs.Mkdir(dest, 0755)
	case planner.OpMkdirAll:
		err = e.fs.MkdirAll(dest, 0755)
	case planner.OpMove:
		err = e.fs.Move(op.Source, dest)
	case planner.OpCopy:
		err = e.fs.Copy(op.Source, dest)
	case planner.OpRemoveDir:
		err = e.fs.Remove(dest)
	case planner.OpRemoveAll:
		err = e.fs.RemoveAll(dest)
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
	if err != nil {
		return opError(op, err)
	}
	return nil
}

// opError classifies a filesystem error into the taxonomy and names what was
// being processed.
func opError(op planner.Operation, err error) error {
	what := describeOp(op)
	switch {
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%w: %s: %w", ErrAlreadyExists, what, err)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, what, err)
	}
	return fmt.Errorf("failed to %s: %w", what, err)
}

func describeOp(op planner.Operation) string {
	var labels []string
	if op.Category != "" {
		labels = append(labels, "category "+op.Category)
	}
	if op.Case != "" {
		labels = append(labels, "case "+op.Case)
	}
	if op.Item != "" {
		labels = append(labels, "item "+op.Item)
	}
	if op.Bucket != "" {
		labels = append(labels, "bucket "+op.Bucket)
	}
	if len(labels) == 0 {
		return fmt.Sprintf("%s %s", op.Type, op.Dest)
	}
	return fmt.Sprintf("%s %s (%s)", op.Type, op.Dest, strings.Join(labels, ", "))
}

// warnFractionSum logs when the fractions do not add up to 1. The split still
// runs with the fractions as given.
func (e *Engine) warnFractionSum(spec layout.SplitSpec) {
	if sum := spec.Sum(); math.Abs(sum-1) > 1e-9 {
		e.logger.Warn("fractions do not sum to 1", "sum", sum)
	}
}

// logAssignments logs one line per category (and case) with the number of
// items placed in each bucket.
func (e *Engine) logAssignments(plan *planner.Plan) {
	var (
		attrs []any
		key   string
		cat   string
		cs    string
	)
	flush := func() {
		if key == "" {
			return
		}
		args := []any{"category", cat}
		if cs != "" {
			args = append(args, "case", cs)
		}
		e.logger.Info("planned", append(args, attrs...)...)
	}
	for _, a := range plan.Assignments {
		k := a.Category + "\x00" + a.Case
		if k != key {
			flush()
			key, cat, cs, attrs = k, a.Category, a.Case, nil
		}
		attrs = append(attrs, a.Bucket, len(a.Items))
	}
	flush()
}
