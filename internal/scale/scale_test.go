package scale_test

import (
	"math"
	"testing"

	"github.com/distscope/distscope/internal/scale"
)

func TestValueToPercent_Linear(t *testing.T) {
	t.Parallel()

	if got := scale.ValueToPercent(0, 100, 50, false); got != 50 {
		t.Fatalf("midpoint of [0,100]: got %v, want 50", got)
	}
	if got := scale.ValueToPercent(0, 100, 0, false); got != 0 {
		t.Fatalf("min maps to 0, got %v", got)
	}
	if got := scale.ValueToPercent(0, 100, 100, false); got != 100 {
		t.Fatalf("max maps to 100, got %v", got)
	}
	if got := scale.ValueToPercent(-10, 10, 0, false); got != 50 {
		t.Fatalf("midpoint of [-10,10]: got %v, want 50", got)
	}
}

func TestValueToPercent_DegenerateRange(t *testing.T) {
	t.Parallel()

	if got := scale.ValueToPercent(10, 10, 10, false); got != 0 {
		t.Fatalf("degenerate range: got %v, want 0", got)
	}
	if got := scale.ValueToPercent(10, 10, 10, true); got != 0 {
		t.Fatalf("degenerate log range: got %v, want 0", got)
	}
}

func TestValueToPercent_Log(t *testing.T) {
	t.Parallel()

	if got := scale.ValueToPercent(1, 100, 1, true); got != 0 {
		t.Fatalf("log min: got %v, want 0", got)
	}
	if got := scale.ValueToPercent(1, 100, 100, true); got != 100 {
		t.Fatalf("log max: got %v, want 100", got)
	}
	if got := scale.ValueToPercent(1, 100, 10, true); math.Abs(got-50) > 1e-9 {
		t.Fatalf("log geometric midpoint: got %v, want ≈50", got)
	}
}

func TestValueToPercent_LogFallsBackToLinear(t *testing.T) {
	t.Parallel()

	// Non-positive domain: the log request quietly becomes linear.
	linear := scale.ValueToPercent(-10, 10, 5, false)
	if got := scale.ValueToPercent(-10, 10, 5, true); got != linear {
		t.Fatalf("log over [-10,10]: got %v, want linear %v", got, linear)
	}

	// Positive domain but non-positive value: same fallback.
	linear = scale.ValueToPercent(1, 100, -2, false)
	if got := scale.ValueToPercent(1, 100, -2, true); got != linear {
		t.Fatalf("log of negative value: got %v, want linear %v", got, linear)
	}
}

func TestPercentToValue_InvertsValueToPercent(t *testing.T) {
	t.Parallel()

	domains := []struct {
		min, max float64
		log      bool
	}{
		{0, 100, false},
		{-250, 175, false},
		{1, 100, true},
		{0.001, 1e6, true},
		{3, 3000, false},
	}
	for _, d := range domains {
		for i := range 21 {
			v := d.min + (d.max-d.min)*float64(i)/20
			if d.log {
				// Geometric spacing keeps log-domain samples positive.
				v = d.min * math.Pow(d.max/d.min, float64(i)/20)
			}
			pct := scale.ValueToPercent(d.min, d.max, v, d.log)
			back := scale.PercentToValue(d.min, d.max, pct, d.log)

			tol := 1e-9 * math.Max(1, math.Abs(v))
			if math.Abs(back-v) > tol {
				t.Fatalf("domain [%v,%v] log=%v: %v -> %v%% -> %v",
					d.min, d.max, d.log, v, pct, back)
			}
		}
	}
}

func TestPercentToValue_DegenerateRange(t *testing.T) {
	t.Parallel()

	if got := scale.PercentToValue(10, 10, 42, false); got != 10 {
		t.Fatalf("degenerate range maps every percent to min, got %v", got)
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := scale.Clamp(-0.5, 0, 1); got != 0 {
		t.Fatalf("clamp below: got %v", got)
	}
	if got := scale.Clamp(1.5, 0, 1); got != 1 {
		t.Fatalf("clamp above: got %v", got)
	}
	if got := scale.Clamp(0.25, 0, 1); got != 0.25 {
		t.Fatalf("clamp inside: got %v", got)
	}
}
