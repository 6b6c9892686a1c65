package engine

import "github.com/danieljhkim/corpussplit/internal/layout"

// Error taxonomy shared with the planner; see package layout.
var (
	// ErrNotFound indicates an expected category, case or partition directory is absent.
	ErrNotFound = layout.ErrNotFound

	// ErrAlreadyExists indicates a destination that must be created fresh already exists.
	ErrAlreadyExists = layout.ErrAlreadyExists

	// ErrValidation indicates malformed input or a refused request.
	ErrValidation = layout.ErrValidation

	// ErrConflict indicates a conflict was detected during planning.
	ErrConflict = layout.ErrConflict

	// ErrVerify indicates staged or copied items did not match the plan.
	ErrVerify = layout.ErrVerify
)
