package engine

import (
	"time"

	"github.com/danieljhkim/corpussplit/internal/planner"
)

// RunResult represents the outcome of executing a plan.
type RunResult struct {
	// RunID identifies the run; it also names the staging directory
	RunID string

	// Plan is the generated plan
	Plan *planner.Plan

	// Applied is the number of operations executed (zero if DryRun)
	Applied int

	// Staged reports whether the run went through a staging directory
	Staged bool

	// StartedAt and FinishedAt bracket execution
	StartedAt  time.Time
	FinishedAt time.Time
}

// CopyResult represents the outcome of copying a corpus.
type CopyResult struct {
	Src string
	Dst string

	// Files is the number of regular files copied
	Files int

	// Verified is the number of files whose digests were compared
	Verified int
}

// DirCount is the number of entries held by one directory.
type DirCount struct {
	// Path is relative to the inventory root
	Path string `json:"path"`

	// Files and Dirs count the directory's direct children
	Files int `json:"files"`
	Dirs  int `json:"dirs"`
}

// InventoryResult lists every directory of a tree that holds files.
type InventoryResult struct {
	Root  string     `json:"root"`
	Dirs  []DirCount `json:"dirs"`
	Total int        `json:"total"`
}
