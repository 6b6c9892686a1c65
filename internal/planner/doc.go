// Package planner computes how corpus items are assigned to partitions or
// sites, and turns that assignment into an ordered list of filesystem
// operations before anything on disk changes.
//
// The planner only reads the tree. Boundary arithmetic (FlatBoundaries,
// CumulativeBoundaries) is pure and independent of storage; the Build*Plan
// functions list the corpus through fsops.FS and emit a Plan.
//
// Key responsibilities:
//   - Compute per-category partition ranges and per-case site ranges
//   - Order items deterministically before flat splitting
//   - Detect conflicts (existing destinations, name collisions, stray files)
//   - Record orphaned categories and boundary slack so callers can report them
package planner
