package layout

import "errors"

var (
	// ErrNotFound indicates an expected category, case or partition directory is absent.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a destination that must be created fresh already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates malformed input, such as a non-numeric percentage.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates the plan cannot be executed against the current tree.
	ErrConflict = errors.New("conflict detected")

	// ErrVerify indicates staged or copied items did not match the plan.
	ErrVerify = errors.New("verification failed")
)
