package scale

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// pxPerTick is the heuristic horizontal room one axis label needs.
const pxPerTick = 40

// minAutoTicks is the floor for the width-derived tick count.
const minAutoTicks = 6

// Ticks returns an ascending sequence of axis tick values spanning
// [min,max], or nil when the range is degenerate or the resolved count
// is below 2.
//
// The count is requested when positive, otherwise derived from the
// available width as max(6, round(width/40)). Ticks are evenly spaced;
// under a log scale with a positive min they are evenly spaced in log
// space and exponentiated back. The first tick is exactly min and the
// last exactly max.
func Ticks(min, max float64, logScale bool, widthPx, requested int) []float64 {
	if max <= min {
		return nil
	}

	count := requested
	if count <= 0 {
		count = int(math.Round(float64(widthPx) / pxPerTick))
		if count < minAutoTicks {
			count = minAutoTicks
		}
	}
	if count < 2 {
		return nil
	}

	ticks := make([]float64, count)
	if logScale && min > 0 {
		floats.Span(ticks, math.Log(min), math.Log(max))
		for i, v := range ticks {
			ticks[i] = math.Exp(v)
		}
	} else {
		floats.Span(ticks, min, max)
	}

	// Endpoints are part of the contract; exp/log and step accumulation
	// may each be off by an ulp.
	ticks[0], ticks[count-1] = min, max
	return ticks
}
