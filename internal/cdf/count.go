package cdf

import (
	"sort"
	"strings"
)

// Mode selects which side of the threshold counts as passing.
type Mode string

const (
	ModeLT  Mode = "lt"
	ModeLTE Mode = "lte"
	ModeGT  Mode = "gt"
	ModeGTE Mode = "gte"
)

// ParseMode normalizes user input to a Mode. Anything unrecognized
// resolves to ModeLTE, matching Count's behavior for unknown modes.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLT:
		return ModeLT
	case ModeGT:
		return ModeGT
	case ModeGTE:
		return ModeGTE
	default:
		return ModeLTE
	}
}

// Symbol returns the operator glyph for status displays.
func (m Mode) Symbol() string {
	switch m {
	case ModeLT:
		return "<"
	case ModeGT:
		return ">"
	case ModeGTE:
		return "≥"
	default:
		return "≤"
	}
}

// Next cycles lt → lte → gt → gte → lt.
func (m Mode) Next() Mode {
	switch m {
	case ModeLT:
		return ModeLTE
	case ModeLTE:
		return ModeGT
	case ModeGT:
		return ModeGTE
	default:
		return ModeLT
	}
}

// LowerBound returns the smallest index i with sorted[i] >= t, which is
// also the number of elements strictly below t. O(log n).
func LowerBound(sorted []float64, t float64) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] >= t })
}

// UpperBound returns the smallest index i with sorted[i] > t, which is
// also the number of elements at or below t. O(log n).
func UpperBound(sorted []float64, t float64) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] > t })
}

// Count returns how many elements of sorted satisfy `element mode t`.
//
// Duplicates of t are included or excluded as a block, never split.
// Unknown modes count with lte semantics; the empty slice counts 0.
func Count(sorted []float64, mode Mode, t float64) int {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	switch mode {
	case ModeLT:
		return LowerBound(sorted, t)
	case ModeGT:
		return n - UpperBound(sorted, t)
	case ModeGTE:
		return n - LowerBound(sorted, t)
	default:
		return UpperBound(sorted, t)
	}
}
