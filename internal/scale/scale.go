// Package scale maps dataset values to axis positions and back, in
// linear or logarithmic space, and generates axis tick values.
package scale

import "math"

// ValueToPercent maps value to its position in [0,100] along the
// [min,max] axis.
//
// A degenerate range (max == min) maps everything to 0. The log mapping
// applies only when min, max and value are all positive; otherwise the
// computation silently uses the linear formula, so callers never see an
// error for a log request over a non-positive domain.
func ValueToPercent(min, max, value float64, logScale bool) float64 {
	if max == min {
		return 0
	}
	if logScale && min > 0 && max > 0 && value > 0 {
		logMin, logMax := math.Log(min), math.Log(max)
		return (math.Log(value) - logMin) / (logMax - logMin) * 100
	}
	return (value - min) / (max - min) * 100
}

// PercentToValue is the inverse of ValueToPercent: it maps a position
// in [0,100] back to a value in [min,max], interpolating in log space
// when the log mapping is in effect (min and max positive) and linearly
// otherwise. The two functions round-trip up to floating-point error.
func PercentToValue(min, max, pct float64, logScale bool) float64 {
	if logScale && min > 0 && max > 0 {
		logMin, logMax := math.Log(min), math.Log(max)
		return math.Exp(logMin + pct/100*(logMax-logMin))
	}
	return min + pct/100*(max-min)
}

// Clamp limits v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
