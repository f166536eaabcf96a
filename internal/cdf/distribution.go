// Package cdf turns a raw collection of numbers into an empirical
// cumulative distribution and answers threshold-count queries over it.
package cdf

import (
	"math"
	"sort"
)

const (
	// ExactPointLimit is the largest dataset rendered with one point per
	// element. Larger sets are binned to keep the series bounded.
	ExactPointLimit = 50

	// MaxBins is the upper bound on bin count for large datasets.
	MaxBins = 100
)

// Point is one step of the cumulative series: Count elements of the
// dataset are <= Value.
type Point struct {
	Value float64
	Count int
}

// Distribution is the plottable form of one dataset snapshot.
//
// Sorted is an ascending copy of the input with non-finite values
// removed; the input slice is never modified. Points is non-decreasing
// in Count, and in exact mode the final Count equals len(Sorted).
type Distribution struct {
	Sorted   []float64
	Min, Max float64
	Points   []Point
}

// N returns the number of (finite) values in the dataset.
func (d Distribution) N() int { return len(d.Sorted) }

// Empty reports whether the dataset has no values.
func (d Distribution) Empty() bool { return len(d.Sorted) == 0 }

// Sorted returns an ascending copy of values with NaN and ±Inf dropped.
func Sorted(values []float64) []float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			sorted = append(sorted, v)
		}
	}
	sort.Float64s(sorted)
	return sorted
}

// Build computes the cumulative series for one dataset snapshot.
//
// Empty input produces an empty series with Min = Max = 0. A dataset of
// identical values produces the two-point vertical jump
// [(min,0), (min,n)]. Up to ExactPointLimit values the series is exact,
// one point per element; beyond that it is binned into
// min(MaxBins, n)+1 evenly spaced boundaries, each carrying the count
// of elements <= the boundary.
func Build(values []float64) Distribution {
	sorted := Sorted(values)

	n := len(sorted)
	if n == 0 {
		return Distribution{Sorted: sorted}
	}

	d := Distribution{
		Sorted: sorted,
		Min:    sorted[0],
		Max:    sorted[n-1],
	}

	if d.Min == d.Max {
		d.Points = []Point{{d.Min, 0}, {d.Min, n}}
		return d
	}

	if n <= ExactPointLimit {
		d.Points = make([]Point, n)
		for i, v := range sorted {
			d.Points[i] = Point{Value: v, Count: i + 1}
		}
		return d
	}

	// One running index over the sorted slice serves every boundary, so
	// the whole pass is O(n + bins) rather than O(n·bins).
	bins := min(MaxBins, n)
	step := (d.Max - d.Min) / float64(bins)
	d.Points = make([]Point, 0, bins+1)
	idx := 0
	for i := range bins + 1 {
		boundary := d.Min + float64(i)*step
		if i == bins {
			// Accumulated step error must not drop the tail: the last
			// boundary lands exactly on Max.
			boundary = d.Max
		}
		for idx < n && sorted[idx] <= boundary {
			idx++
		}
		d.Points = append(d.Points, Point{Value: boundary, Count: idx})
	}
	return d
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
