package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/danieljhkim/corpussplit/internal/fsops"
)

// Inventory walks root and reports, for every directory that directly holds
// files, how many files and subdirectories it has. Directories are sorted by
// path.
func (e *Engine) Inventory(ctx context.Context, root string) (*InventoryResult, error) {
	if _, err := e.fs.Lstat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, root, err)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}

	result := &InventoryResult{Root: root, Dirs: []DirCount{}}
	err := walkDirs(ctx, e.fs, root, ".", func(rel string, entries []fsops.Entry) error {
		count := DirCount{Path: rel}
		for _, entry := range entries {
			if entry.IsDir {
				count.Dirs++
			} else {
				count.Files++
			}
		}
		if count.Files > 0 {
			result.Dirs = append(result.Dirs, count)
			result.Total += count.Files
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result.Dirs, func(i, j int) bool { return result.Dirs[i].Path < result.Dirs[j].Path })
	return result, nil
}

// walkDirs calls fn for root and every directory beneath it with its
// root-relative path and sorted listing.
func walkDirs(ctx context.Context, fsys fsops.FS, root, rel string, fn func(rel string, entries []fsops.Entry) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := root
	if rel != "." {
		dir = filepath.Join(root, rel)
	}
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if err := fn(rel, entries); err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir {
			continue
		}
		child := entry.Name
		if rel != "." {
			child = filepath.Join(rel, entry.Name)
		}
		if err := walkDirs(ctx, fsys, root, child, fn); err != nil {
			return err
		}
	}
	return nil
}

// walkFiles calls fn with the root-relative path of every file under root.
func walkFiles(ctx context.Context, fsys fsops.FS, root string, fn func(rel string) error) error {
	return walkDirs(ctx, fsys, root, ".", func(rel string, entries []fsops.Entry) error {
		for _, entry := range entries {
			if entry.IsDir {
				continue
			}
			path := entry.Name
			if rel != "." {
				path = filepath.Join(rel, entry.Name)
			}
			if err := fn(path); err != nil {
				return err
			}
		}
		return nil
	})
}
