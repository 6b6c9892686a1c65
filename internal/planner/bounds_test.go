package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatSizes(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		fractions []float64
		want      []int
	}{
		{name: "ten items default split", count: 10, fractions: []float64{0.7, 0.2, 0.1}, want: []int{7, 2, 1}},
		{name: "empty category", count: 0, fractions: []float64{0.7, 0.2, 0.1}, want: []int{0, 0, 0}},
		{name: "single item", count: 1, fractions: []float64{0.7, 0.2, 0.1}, want: []int{1, 0, 0}},
		{name: "five items", count: 5, fractions: []float64{0.7, 0.2, 0.1}, want: []int{4, 1, 0}},
		{name: "eleven items", count: 11, fractions: []float64{0.7, 0.2, 0.1}, want: []int{8, 2, 1}},
		{name: "half rounds to even", count: 10, fractions: []float64{0.25, 0.25, 0.5}, want: []int{2, 2, 6}},
		{name: "sum above one clamps", count: 10, fractions: []float64{0.7, 0.7, 0.1}, want: []int{7, 3, 0}},
		{name: "sum below one absorbed by last", count: 10, fractions: []float64{0.5, 0.1, 0.1}, want: []int{5, 1, 4}},
		{name: "single partition", count: 4, fractions: []float64{1}, want: []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlatSizes(tt.count, tt.fractions))
		})
	}
}

func TestFlatBoundaries_Conserves(t *testing.T) {
	fractionSets := [][]float64{
		{0.7, 0.2, 0.1},
		{0.6, 0.2, 0.2},
		{0.8, 0.1, 0.1},
		{1.0 / 3, 1.0 / 3, 1.0 / 3},
		{0.9, 0.9, 0.9},
		{0, 0, 0},
	}
	for _, fractions := range fractionSets {
		for count := 0; count <= 200; count++ {
			ranges := FlatBoundaries(count, fractions)
			cov := MeasureSlack(count, ranges)
			if !cov.Exact() || cov.Assigned != count {
				t.Fatalf("count=%d fractions=%v: coverage %+v", count, fractions, cov)
			}
			for i := 1; i < len(ranges); i++ {
				if ranges[i].Start != ranges[i-1].End {
					t.Fatalf("count=%d fractions=%v: ranges not contiguous: %v", count, fractions, ranges)
				}
			}
		}
	}
}

func TestFlatBoundaries_Empty(t *testing.T) {
	assert.Nil(t, FlatBoundaries(10, nil))
}

func TestCumulativeBoundaries_ScenarioSevenItems(t *testing.T) {
	fractions := []float64{0.5, 0.3, 0.2}

	// floor(0.5*7)=3, floor(0.8*7)=5, floor(1.0*7)=7
	assert.Equal(t, Range{Start: 0, End: 3}, CumulativeBoundaries(7, fractions, 0))
	assert.Equal(t, Range{Start: 3, End: 5}, CumulativeBoundaries(7, fractions, 1))
	assert.Equal(t, Range{Start: 5, End: 7}, CumulativeBoundaries(7, fractions, 2))

	sizes := []int{}
	for _, r := range SiteBoundaries(7, fractions) {
		sizes = append(sizes, r.Len())
	}
	assert.Equal(t, []int{3, 2, 2}, sizes)
}

func TestCumulativeBoundaries_FloatSumDropsLastItem(t *testing.T) {
	// 0.7+0.2+0.1 is 0.9999999999999999 in float64, so trunc(sum*10) == 9.
	fractions := []float64{0.7, 0.2, 0.1}
	ranges := SiteBoundaries(10, fractions)

	assert.Equal(t, []Range{{0, 7}, {7, 9}, {9, 9}}, ranges)

	cov := MeasureSlack(10, ranges)
	assert.Equal(t, 1, cov.Dropped)
	assert.Equal(t, 0, cov.Duplicated)
	assert.Equal(t, 9, cov.Assigned)
	assert.False(t, cov.Exact())
}

func TestCumulativeBoundaries_SumBelowOneDrops(t *testing.T) {
	ranges := SiteBoundaries(10, []float64{0.5, 0.3})
	cov := MeasureSlack(10, ranges)
	assert.Equal(t, 2, cov.Dropped)
}

func TestCumulativeBoundaries_SumAboveOneClamps(t *testing.T) {
	ranges := SiteBoundaries(4, []float64{0.75, 0.75})
	assert.Equal(t, []Range{{0, 3}, {3, 4}}, ranges)
}

func TestCumulativeBoundaries_ZeroCount(t *testing.T) {
	for _, r := range SiteBoundaries(0, []float64{0.5, 0.3, 0.2}) {
		assert.Equal(t, 0, r.Len())
	}
}

func TestMeasureSlack_Duplicates(t *testing.T) {
	cov := MeasureSlack(5, []Range{{0, 3}, {2, 5}})
	assert.Equal(t, Coverage{Count: 5, Assigned: 6, Dropped: 0, Duplicated: 1}, cov)
}
