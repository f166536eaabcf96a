package explorer

import (
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatSigFigs formats the float with 'prec' significant digits.
//
// It uses 'g' format, which removes trailing zeros and handles
// switching to scientific notation for very small/large numbers automatically.
func formatSigFigs(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}

// FormatValue formats a dataset value for legends, the status bar and
// the sidebar.
func FormatValue(v float64) string {
	if v == 0 {
		return "0"
	}
	return formatSigFigs(v, 4)
}

// FormatPercent formats a share of the dataset, e.g. "64.0%".
func FormatPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}

// FormatPercentLabel formats a y-axis label. Cumulative shares are
// whole percents, so no decimals.
func FormatPercentLabel(pct float64) string {
	return strconv.FormatInt(int64(math.Round(pct)), 10) + "%"
}

var axisScales = []struct {
	factor float64
	suffix string
}{
	{1e3, "k"},
	{1e6, "M"},
	{1e9, "B"},
	{1e12, "T"},
}

// FormatAxisValue formats an x-axis tick label, compacting large
// magnitudes with metric suffixes so labels stay narrow.
func FormatAxisValue(v float64, maxWidth int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if v == 0 {
		return "0"
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	if v < 1000 {
		out := sign + formatSigFigs(v, 3)
		if maxWidth > 0 && len(out) > maxWidth {
			out = sign + formatSigFigs(v, 2)
		}
		return out
	}

	// Pick a scale so scaled is roughly in [1, 1000).
	idx := 0
	for idx+1 < len(axisScales) && v >= axisScales[idx+1].factor {
		idx++
	}

scale:
	for {
		s := axisScales[idx]
		scaled := v / s.factor

		for decimals := 2; decimals >= 0; decimals-- {
			num := trimTrailingZeros(strconv.FormatFloat(scaled, 'f', decimals, 64))

			// Rounding crossed into next tier (e.g., 999.6k -> 1000k); bump suffix.
			if num == "1000" && idx+1 < len(axisScales) {
				idx++
				continue scale
			}

			out := sign + num + s.suffix
			if maxWidth <= 0 || len(out) <= maxWidth {
				return out
			}
		}

		// Nothing fit; return minimum precision anyway.
		return sign + trimTrailingZeros(strconv.FormatFloat(scaled, 'f', 0, 64)) + s.suffix
	}
}

func trimTrailingZeros(s string) string {
	if dot := strings.IndexByte(s, '.'); dot != -1 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// TruncatePath shortens a file path to maxWidth terminal cells, keeping
// the tail where the file name lives.
func TruncatePath(path string, maxWidth int) string {
	w := runewidth.StringWidth(path)
	if w <= maxWidth {
		return path
	}
	if maxWidth <= 1 {
		return "…"
	}
	return runewidth.TruncateLeft(path, w-maxWidth+1, "…")
}
