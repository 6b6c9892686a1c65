package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// CopyCorpus replaces req.Dst with a copy of req.Src. Overlapping source and
// destination trees are rejected before anything is removed.
func (e *Engine) CopyCorpus(ctx context.Context, req *CopyRequest) (*CopyResult, error) {
	src, err := absClean(req.Src)
	if err != nil {
		return nil, err
	}
	dst, err := absClean(req.Dst)
	if err != nil {
		return nil, err
	}
	if err := requireDisjoint(src, dst); err != nil {
		return nil, err
	}

	info, err := e.fs.Lstat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: corpus %s: %w", ErrNotFound, src, err)
		}
		return nil, fmt.Errorf("failed to stat corpus %s: %w", src, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: corpus %s is not a directory", ErrValidation, src)
	}

	if err := e.fs.RemoveAll(dst); err != nil {
		return nil, fmt.Errorf("failed to clear destination %s: %w", dst, err)
	}
	if err := e.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination parent: %w", err)
	}
	if err := e.fs.Copy(src, dst); err != nil {
		return nil, fmt.Errorf("failed to copy corpus %s to %s: %w", src, dst, err)
	}

	result := &CopyResult{Src: src, Dst: dst}
	err = walkFiles(ctx, e.fs, dst, func(rel string) error {
		result.Files++
		if !req.Verify {
			return nil
		}
		result.Verified++
		return compareDigests(e.hasher, filepath.Join(src, rel), filepath.Join(dst, rel))
	})
	if err != nil {
		return result, err
	}

	e.logger.Info("corpus copied", "src", src, "dst", dst, "files", result.Files)
	return result, nil
}
