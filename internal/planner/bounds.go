package planner

import "math"

// Range is a half-open index range [Start, End) into an ordered item list.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// FlatBoundaries divides count items between len(fractions) partitions.
//
// Each of the first k-1 sizes is round(f*count), rounding half to even, laid
// out back to back; the last partition takes whatever remains. Boundaries
// are clamped to [0, count], so the ranges always tile [0, count) exactly,
// even when the fractions do not sum to 1.
func FlatBoundaries(count int, fractions []float64) []Range {
	if len(fractions) == 0 {
		return nil
	}
	ranges := make([]Range, len(fractions))
	pos := 0
	for i := 0; i < len(fractions)-1; i++ {
		size := int(math.RoundToEven(fractions[i] * float64(count)))
		start := clamp(pos, 0, count)
		end := clamp(pos+size, start, count)
		ranges[i] = Range{Start: start, End: end}
		pos += size
	}
	ranges[len(fractions)-1] = Range{Start: clamp(pos, 0, count), End: count}
	return ranges
}

// FlatSizes returns the lengths of FlatBoundaries.
func FlatSizes(count int, fractions []float64) []int {
	ranges := FlatBoundaries(count, fractions)
	sizes := make([]int, len(ranges))
	for i, r := range ranges {
		sizes[i] = r.Len()
	}
	return sizes
}

// CumulativeBoundaries returns the slice of count items owned by the bucket
// at index: [trunc(cum*count), trunc((cum+f)*count)) where cum is the
// left-to-right float64 sum of the preceding fractions.
//
// The arithmetic is intentionally lossy. With fractions 0.7, 0.2, 0.1 the
// running sum reaches 0.9999999999999999, so the last of 10 items belongs to
// no bucket. Use MeasureSlack to observe this.
func CumulativeBoundaries(count int, fractions []float64, index int) Range {
	var lower float64
	for _, f := range fractions[:index] {
		lower += f
	}
	upper := lower + fractions[index]

	start := clamp(truncate(lower*float64(count)), 0, count)
	end := clamp(truncate(upper*float64(count)), start, count)
	return Range{Start: start, End: end}
}

// SiteBoundaries returns CumulativeBoundaries for every index.
func SiteBoundaries(count int, fractions []float64) []Range {
	ranges := make([]Range, len(fractions))
	for i := range fractions {
		ranges[i] = CumulativeBoundaries(count, fractions, i)
	}
	return ranges
}

// Coverage summarises how a set of ranges covers [0, count).
type Coverage struct {
	Count      int `json:"count"`
	Assigned   int `json:"assigned"`
	Dropped    int `json:"dropped"`
	Duplicated int `json:"duplicated"`
}

// Exact reports whether every index is covered exactly once.
func (c Coverage) Exact() bool {
	return c.Dropped == 0 && c.Duplicated == 0
}

// MeasureSlack reports how many of count indices no range covers (Dropped)
// and how many more than one range covers (Duplicated).
func MeasureSlack(count int, ranges []Range) Coverage {
	hits := make([]int, count)
	cov := Coverage{Count: count}
	for _, r := range ranges {
		cov.Assigned += r.Len()
		for i := r.Start; i < r.End; i++ {
			hits[i]++
		}
	}
	for _, h := range hits {
		switch {
		case h == 0:
			cov.Dropped++
		case h > 1:
			cov.Duplicated++
		}
	}
	return cov
}

func truncate(x float64) int {
	return int(math.Trunc(x))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
