package cdf_test

import (
	"testing"

	"github.com/distscope/distscope/internal/cdf"
)

func TestBounds_DuplicatesCountedAsBlock(t *testing.T) {
	t.Parallel()

	s := []float64{1, 2, 2, 5, 9}

	tests := []struct {
		t           float64
		lower, upper int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{1.5, 1, 1},
		{2, 1, 3},
		{3, 3, 3},
		{5, 3, 4},
		{9, 4, 5},
		{10, 5, 5},
	}
	for _, tc := range tests {
		if got := cdf.LowerBound(s, tc.t); got != tc.lower {
			t.Fatalf("LowerBound(%v)=%d; want %d", tc.t, got, tc.lower)
		}
		if got := cdf.UpperBound(s, tc.t); got != tc.upper {
			t.Fatalf("UpperBound(%v)=%d; want %d", tc.t, got, tc.upper)
		}
	}
}

func TestBounds_DifferenceIsMultiplicity(t *testing.T) {
	t.Parallel()

	s := []float64{1, 2, 2, 2, 5, 5, 9}
	for _, tc := range []struct {
		t    float64
		mult int
	}{
		{1, 1}, {2, 3}, {5, 2}, {9, 1}, {4, 0}, {-3, 0}, {100, 0},
	} {
		lo, up := cdf.LowerBound(s, tc.t), cdf.UpperBound(s, tc.t)
		if lo > up {
			t.Fatalf("LowerBound(%v)=%d > UpperBound(%v)=%d", tc.t, lo, tc.t, up)
		}
		if up-lo != tc.mult {
			t.Fatalf("multiplicity of %v: got %d, want %d", tc.t, up-lo, tc.mult)
		}
	}
}

func TestCount_Scenario(t *testing.T) {
	t.Parallel()

	s := []float64{1, 2, 2, 5, 9}

	if got := cdf.Count(s, cdf.ModeLT, 2); got != 1 {
		t.Fatalf("lt 2: got %d, want 1", got)
	}
	if got := cdf.Count(s, cdf.ModeLTE, 2); got != 3 {
		t.Fatalf("lte 2: got %d, want 3", got)
	}
	if got := cdf.Count(s, cdf.ModeGT, 5); got != 1 {
		t.Fatalf("gt 5: got %d, want 1", got)
	}
	if got := cdf.Count(s, cdf.ModeGTE, 5); got != 2 {
		t.Fatalf("gte 5: got %d, want 2", got)
	}
}

func TestCount_ComplementsSumToN(t *testing.T) {
	t.Parallel()

	s := []float64{-4, -1, 0, 0, 2.5, 2.5, 2.5, 7, 11, 11}
	n := len(s)

	// Sweep thresholds across and beyond the data, including exact hits.
	for ti := -10; ti <= 24; ti++ {
		th := float64(ti) / 2
		lt := cdf.Count(s, cdf.ModeLT, th)
		lte := cdf.Count(s, cdf.ModeLTE, th)
		gt := cdf.Count(s, cdf.ModeGT, th)
		gte := cdf.Count(s, cdf.ModeGTE, th)

		if lt+gte != n {
			t.Fatalf("t=%v: lt+gte = %d+%d != %d", th, lt, gte, n)
		}
		if lte+gt != n {
			t.Fatalf("t=%v: lte+gt = %d+%d != %d", th, lte, gt, n)
		}
	}
}

func TestCount_MonotoneInThreshold(t *testing.T) {
	t.Parallel()

	s := []float64{1, 2, 2, 3, 5, 8, 8, 9}
	prevLTE, prevGTE := -1, len(s)+1
	for ti := 0; ti <= 20; ti++ {
		th := float64(ti) / 2
		lte := cdf.Count(s, cdf.ModeLTE, th)
		gte := cdf.Count(s, cdf.ModeGTE, th)
		if lte < prevLTE {
			t.Fatalf("lte count decreased at t=%v: %d -> %d", th, prevLTE, lte)
		}
		if gte > prevGTE {
			t.Fatalf("gte count increased at t=%v: %d -> %d", th, prevGTE, gte)
		}
		prevLTE, prevGTE = lte, gte
	}
}

func TestCount_EmptyAndUnknownMode(t *testing.T) {
	t.Parallel()

	if got := cdf.Count(nil, cdf.ModeGTE, 3); got != 0 {
		t.Fatalf("empty input: got %d, want 0", got)
	}

	s := []float64{1, 2, 3}
	want := cdf.Count(s, cdf.ModeLTE, 2)
	if got := cdf.Count(s, cdf.Mode("bogus"), 2); got != want {
		t.Fatalf("unknown mode: got %d, want lte semantics (%d)", got, want)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want cdf.Mode
	}{
		{"lt", cdf.ModeLT},
		{"LTE", cdf.ModeLTE},
		{" gt ", cdf.ModeGT},
		{"Gte", cdf.ModeGTE},
		{"", cdf.ModeLTE},
		{"<=", cdf.ModeLTE},
		{"nonsense", cdf.ModeLTE},
	}
	for _, tc := range tests {
		if got := cdf.ParseMode(tc.in); got != tc.want {
			t.Fatalf("ParseMode(%q)=%q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestModeNextCycles(t *testing.T) {
	t.Parallel()

	m := cdf.ModeLT
	seen := map[cdf.Mode]bool{}
	for range 4 {
		seen[m] = true
		m = m.Next()
	}
	if len(seen) != 4 || m != cdf.ModeLT {
		t.Fatalf("expected Next to cycle through all four modes, got %v (back at %q)", seen, m)
	}
}
