package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/hash"
	"github.com/danieljhkim/corpussplit/internal/layout"
	"github.com/danieljhkim/corpussplit/internal/planner"
)

// stager executes a plan through a staging directory under the plan root.
//
// Every creating operation is redirected to <staging>/<RelDest>. Moves are
// journaled so a failure before commit can put every item back. Commit then
// renames each top-level unit (a partition, a category or a site) into the
// root, and only afterwards do the finalizers delete the drained sources.
type stager struct {
	e       *Engine
	fs      fsops.FS
	hasher  hash.Hasher
	logger  *slog.Logger
	root    string
	dir     string
	journal []journalEntry
}

type journalEntry struct {
	from string
	to   string
}

func (e *Engine) newStager(root, runID string) *stager {
	dir := filepath.Join(root, layout.StagingName(runID))
	return &stager{
		e:      e,
		fs:     e.fs,
		hasher: e.hasher,
		logger: e.logger.With("staging", dir),
		root:   root,
		dir:    dir,
	}
}

// run stages, optionally verifies, commits and finalizes plan. It returns
// the number of operations executed.
func (s *stager) run(ctx context.Context, plan *planner.Plan, verify bool) (int, error) {
	if err := s.fs.Mkdir(s.dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create staging directory: %w", err)
	}

	applied := 0
	var finalizers []planner.Operation
	for _, op := range plan.Operations {
		if op.IsFinalizer() {
			finalizers = append(finalizers, op)
			continue
		}
		if err := ctx.Err(); err != nil {
			return applied, s.abort(err)
		}
		if err := s.stage(op); err != nil {
			return applied, s.abort(err)
		}
		applied++
	}

	if verify {
		if err := s.verify(plan); err != nil {
			return applied, s.abort(err)
		}
		s.logger.Info("staged tree verified")
	}

	if err := s.commit(plan); err != nil {
		return applied, fmt.Errorf("commit failed, staged items remain in %s: %w", s.dir, err)
	}

	for _, op := range finalizers {
		if err := s.e.executeOperation(op, op.Dest); err != nil {
			return applied, err
		}
		s.logger.Debug("finalized", "op", op.Type, "dest", op.Dest)
		applied++
	}

	if err := s.fs.RemoveAll(s.dir); err != nil {
		return applied, fmt.Errorf("failed to remove staging directory %s: %w", s.dir, err)
	}
	return applied, nil
}

// stage executes one creating operation inside the staging directory.
func (s *stager) stage(op planner.Operation) error {
	if op.RelDest == "" {
		return fmt.Errorf("operation %s has no staging path", describeOp(op))
	}
	staged := s.path(op.RelDest)

	switch op.Type {
	case planner.OpMkdir, planner.OpMkdirAll:
		// existence in the root was checked at plan time
		if err := s.fs.MkdirAll(staged, 0755); err != nil {
			return opError(op, err)
		}
	case planner.OpMove:
		if err := s.e.executeOperation(op, staged); err != nil {
			return err
		}
		s.journal = append(s.journal, journalEntry{from: op.Source, to: staged})
	default:
		if err := s.e.executeOperation(op, staged); err != nil {
			return err
		}
	}
	s.logger.Debug("staged", "op", op.Type, "dest", op.RelDest)
	return nil
}

// abort reverses every journaled move and removes the staging directory. If
// any item cannot be restored the staging directory is kept.
func (s *stager) abort(cause error) error {
	var errs []error
	for i := len(s.journal) - 1; i >= 0; i-- {
		j := s.journal[i]
		if err := s.fs.Move(j.to, j.from); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", j.from, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w; rollback incomplete, staged items remain in %s: %w", cause, s.dir, errors.Join(errs...))
	}
	if err := s.fs.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("%w; failed to remove staging directory %s: %w", cause, s.dir, err)
	}
	s.logger.Warn("run rolled back", "restored", len(s.journal), "error", cause)
	return cause
}

// verify compares every staged directory listing with the plan and, for
// copied files, the digest of the copy with its source.
func (s *stager) verify(plan *planner.Plan) error {
	expected := make(map[string]map[string]bool)
	for _, op := range plan.Operations {
		if op.IsFinalizer() {
			continue
		}
		if op.Type == planner.OpMkdir || op.Type == planner.OpMkdirAll {
			if expected[op.RelDest] == nil {
				expected[op.RelDest] = make(map[string]bool)
			}
		}
		parent := filepath.Dir(op.RelDest)
		if expected[parent] == nil {
			expected[parent] = make(map[string]bool)
		}
		expected[parent][filepath.Base(op.RelDest)] = true
	}

	dirs := make([]string, 0, len(expected))
	for dir := range expected {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		entries, err := s.fs.ReadDir(s.path(dir))
		if err != nil {
			return fmt.Errorf("%w: failed to list staged %s: %w", ErrVerify, dir, err)
		}
		want := expected[dir]
		var extra []string
		for _, e := range entries {
			if !want[e.Name] {
				extra = append(extra, e.Name)
			}
		}
		if len(extra) > 0 || len(entries)-len(extra) != len(want) {
			return fmt.Errorf("%w: staged %s holds %d entries, plan expects %d (unexpected: %s)",
				ErrVerify, dir, len(entries), len(want), strings.Join(extra, ", "))
		}
	}

	for _, op := range plan.Operations {
		if op.Type != planner.OpCopy {
			continue
		}
		if err := s.compare(op.Source, s.path(op.RelDest)); err != nil {
			return err
		}
	}
	return nil
}

// compare checks that a staged copy has the digest of its source.
// Directory items are covered by the listing check only.
func (s *stager) compare(src, staged string) error {
	info, err := s.fs.Lstat(src)
	if err != nil {
		return fmt.Errorf("%w: failed to stat %s: %w", ErrVerify, src, err)
	}
	if info.IsDir() {
		return nil
	}
	return compareDigests(s.hasher, src, staged)
}

func compareDigests(h hash.Hasher, src, dst string) error {
	want, err := h.HashFile(src)
	if err != nil {
		return fmt.Errorf("%w: failed to hash %s: %w", ErrVerify, src, err)
	}
	got, err := h.HashFile(dst)
	if err != nil {
		return fmt.Errorf("%w: failed to hash %s: %w", ErrVerify, dst, err)
	}
	if want != got {
		return fmt.Errorf("%w: %s does not match its source %s", ErrVerify, dst, src)
	}
	return nil
}

// commit moves each staged unit into the root in first-use order.
func (s *stager) commit(plan *planner.Plan) error {
	seen := make(map[string]bool)
	for _, op := range plan.Operations {
		if op.IsFinalizer() {
			continue
		}
		unit := firstSegment(op.RelDest)
		if seen[unit] {
			continue
		}
		seen[unit] = true
		if err := s.place(s.path(unit), filepath.Join(s.root, unit)); err != nil {
			return err
		}
		s.logger.Debug("committed", "unit", unit)
	}
	return nil
}

// place renames src to dst, or merges src's children into dst when dst is
// an existing directory.
func (s *stager) place(src, dst string) error {
	exists, err := s.fs.Exists(dst)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", dst, err)
	}
	if !exists {
		if err := s.fs.Move(src, dst); err != nil {
			return fmt.Errorf("failed to move %s into place: %w", dst, err)
		}
		return nil
	}

	srcInfo, err := s.fs.Lstat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	dstInfo, err := s.fs.Lstat(dst)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dst, err)
	}
	if !srcInfo.IsDir() || !dstInfo.IsDir() {
		return fmt.Errorf("%w: %s already exists", ErrAlreadyExists, dst)
	}

	entries, err := s.fs.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", src, err)
	}
	for _, e := range entries {
		if err := s.place(filepath.Join(src, e.Name), filepath.Join(dst, e.Name)); err != nil {
			return err
		}
	}
	if err := s.fs.Remove(src); err != nil {
		return fmt.Errorf("failed to remove drained %s: %w", src, err)
	}
	return nil
}

func (s *stager) path(rel string) string {
	if rel == "." {
		return s.dir
	}
	return filepath.Join(s.dir, rel)
}
