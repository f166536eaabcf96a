package cdf

import "gonum.org/v1/gonum/stat"

// Stats is the descriptive summary shown in the sidebar.
type Stats struct {
	N        int
	Min, Max float64
	Mean     float64
	StdDev   float64
	Median   float64
	P90, P99 float64
}

// Summary computes descriptive statistics over an ascending slice, as
// produced by Sorted or found in Distribution.Sorted.
func Summary(sorted []float64) Stats {
	n := len(sorted)
	if n == 0 {
		return Stats{}
	}
	s := Stats{
		N:      n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
		P99:    stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
	if n > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}
