package explorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/distscope/distscope/internal/cdf"
	"github.com/distscope/distscope/internal/scale"
	"github.com/distscope/distscope/internal/threshold"
)

// DistChart renders the cumulative distribution curve with a threshold
// hairline overlay.
//
// The chart's axis space is the position axis: x in [0,100] percent of
// the (linear or logarithmic) value range, y in [0,100] percent of the
// dataset. Positions are uniform in the transformed space, so the
// braille curve and the hairline share one coordinate system whatever
// the scale. Labels convert positions back to data values for display.
type DistChart struct {
	linechart.Model

	dist     cdf.Distribution
	logScale bool

	thresholdValue float64
	thresholdCount int
	mode           cdf.Mode

	// requestedTicks is the user-requested value label count;
	// 0 derives a count from the chart width.
	requestedTicks int
	ticks          []float64

	dirty bool
}

func NewDistChart(width, height int) *DistChart {
	c := &DistChart{
		Model: linechart.New(width, height, 0, 100, 0, 100,
			linechart.WithXYSteps(4, 5),
			linechart.WithYLabelFormatter(func(i int, f float64) string {
				return FormatPercentLabel(f)
			}),
		),
		mode:  cdf.ModeLTE,
		dirty: true,
	}

	c.AxisStyle = axisStyle
	c.LabelStyle = labelStyle

	c.applyYStep()
	c.refreshTicks()
	return c
}

// applyYStep spaces the share labels so the top and bottom of the axis
// are both labeled when the height allows it.
func (c *DistChart) applyYStep() {
	c.SetYStep(max(1, c.GraphHeight()/2))
}

// SetDataset replaces the plotted distribution.
func (c *DistChart) SetDataset(dist cdf.Distribution, logScale bool) {
	c.dist = dist
	c.logScale = logScale
	c.refreshTicks()
	c.dirty = true
}

// SetLogScale switches the position mapping without reloading data.
func (c *DistChart) SetLogScale(on bool) {
	if c.logScale == on {
		return
	}
	c.logScale = on
	c.refreshTicks()
	c.dirty = true
}

// SetThreshold updates the hairline position and legend.
func (c *DistChart) SetThreshold(value float64, count int, mode cdf.Mode) {
	c.thresholdValue = value
	c.thresholdCount = count
	c.mode = mode
	c.dirty = true
}

// SetRequestedTicks sets the requested value label count; 0 means
// automatic.
func (c *DistChart) SetRequestedTicks(count int) {
	if c.requestedTicks == count {
		return
	}
	c.requestedTicks = count
	c.refreshTicks()
	c.dirty = true
}

// Ticks returns the value-axis tick values currently displayed.
func (c *DistChart) Ticks() []float64 {
	return c.ticks
}

// GraphRect returns the plot area's horizontal bounds in screen cells,
// given the screen column of the chart box's left border. Pointer
// positions are mapped to values across exactly this rect.
func (c *DistChart) GraphRect(boxLeft int) threshold.Rect {
	return threshold.Rect{
		// border, then the Y label gutter and axis
		Left:  float64(boxLeft + 1 + c.Origin().X + 1),
		Width: float64(c.GraphWidth()),
	}
}

func (c *DistChart) refreshTicks() {
	if c.dist.Empty() {
		c.ticks = nil
		return
	}
	c.ticks = scale.Ticks(
		c.dist.Min, c.dist.Max, c.logScale, c.Width(), c.requestedTicks)
}

// thresholdPixel returns the hairline's graph column before clamping.
func (c *DistChart) thresholdPixel() int {
	pct := scale.ValueToPercent(
		c.dist.Min, c.dist.Max, c.thresholdValue, c.logScale)
	return int(math.Round(pct / 100 * float64(c.GraphWidth())))
}

// Draw renders the axes, labels, curve and threshold overlay.
func (c *DistChart) Draw() {
	c.Clear()
	c.DrawXYAxisAndLabel()
	c.drawTickLabels()

	if c.GraphWidth() <= 0 || c.GraphHeight() <= 0 {
		c.dirty = false
		return
	}

	if c.dist.Empty() {
		c.drawEmptyState()
		c.dirty = false
		return
	}

	c.drawCurve()
	c.drawThreshold()
	c.dirty = false
}

// DrawIfNeeded only draws if the chart is marked as dirty
func (c *DistChart) DrawIfNeeded() {
	if c.dirty {
		c.Draw()
	}
}

// Resize updates the chart dimensions
func (c *DistChart) Resize(width, height int) {
	if c.Width() != width || c.Height() != height {
		c.Model.Resize(width, height)
		c.applyYStep()
		c.refreshTicks()
		c.dirty = true
	}
}

// drawTickLabels replaces the default X labels with ticks that always
// cover both endpoints of the value range.
func (c *DistChart) drawTickLabels() {
	row := c.Origin().Y + 1
	width := c.Width()

	// Blank the row: labels drawn by DrawXYAxisAndLabel are positioned
	// by column stride, which cannot pin the min and max.
	c.Canvas.SetStringWithStyle(
		canvas.Point{X: 0, Y: row}, strings.Repeat(" ", width), c.LabelStyle)

	if len(c.ticks) < 2 {
		return
	}

	graphLeft := c.Origin().X + 1
	w := c.GraphWidth()
	lastEnd := -1
	for i, v := range c.ticks {
		label := FormatAxisValue(v, 0)
		lw := lipgloss.Width(label)

		col := graphLeft
		if len(c.ticks) > 1 {
			col += int(math.Round(
				float64(i) / float64(len(c.ticks)-1) * float64(w-1)))
		}

		var x int
		switch i {
		case 0:
			x = c.Origin().X
		case len(c.ticks) - 1:
			x = width - lw
		default:
			x = col - lw/2
		}
		x = max(x, 0)
		x = min(x, width-lw)

		// Skip labels that would collide with the previous one.
		if x <= lastEnd {
			continue
		}
		c.Canvas.SetStringWithStyle(
			canvas.Point{X: x, Y: row}, label, c.LabelStyle)
		lastEnd = x + lw
	}
}

func (c *DistChart) drawEmptyState() {
	msg := "no data"
	x := c.Origin().X + 1 + max(0, (c.GraphWidth()-len(msg))/2)
	y := c.GraphHeight() / 2
	c.Canvas.SetStringWithStyle(canvas.Point{X: x, Y: y}, msg, emptyStateStyle)
}

// plotPath converts the cumulative series into a step path in graph
// coordinates: a horizontal run to each point's position, then a
// vertical jump to its share.
func (c *DistChart) plotPath() []canvas.Float64Point {
	w := float64(c.GraphWidth())
	h := float64(c.GraphHeight())
	n := float64(c.dist.N())

	pts := make([]canvas.Float64Point, 0, 2*len(c.dist.Points)+1)
	prevY := 0.0
	pts = append(pts, canvas.Float64Point{X: 0, Y: 0})
	for _, p := range c.dist.Points {
		pct := scale.ValueToPercent(c.dist.Min, c.dist.Max, p.Value, c.logScale)
		x := pct / 100 * w
		y := float64(p.Count) / n * h
		if y != prevY {
			pts = append(pts, canvas.Float64Point{X: x, Y: prevY})
		}
		pts = append(pts, canvas.Float64Point{X: x, Y: y})
		prevY = y
	}
	return pts
}

// drawCurve renders the cumulative curve using Braille patterns.
func (c *DistChart) drawCurve() {
	pts := c.plotPath()
	if len(pts) < 2 {
		return
	}

	bGrid := graph.NewBrailleGrid(
		c.GraphWidth(),
		c.GraphHeight(),
		0, float64(c.GraphWidth()),
		0, float64(c.GraphHeight()),
	)

	for i := 0; i < len(pts)-1; i++ {
		gp1 := bGrid.GridPoint(pts[i])
		gp2 := bGrid.GridPoint(pts[i+1])
		drawLine(bGrid, gp1, gp2)
	}

	startX := 0
	if c.YStep() > 0 {
		startX = c.Origin().X + 1
	}

	patterns := bGrid.BraillePatterns()
	graph.DrawBraillePatterns(&c.Canvas,
		canvas.Point{X: startX, Y: 0},
		patterns,
		curveStyle)
}

// drawThreshold renders the vertical hairline at the threshold position
// and a legend with the value and passing count beside it.
func (c *DistChart) drawThreshold() {
	w := c.GraphWidth()
	px := c.thresholdPixel()
	px = max(0, min(px, w-1))
	col := c.Origin().X + 1 + px

	for y := range c.GraphHeight() {
		c.Canvas.SetCell(
			canvas.Point{X: col, Y: y},
			canvas.NewCellWithStyle('│', hairlineStyle))
	}

	label := fmt.Sprintf(
		"%s %s: %d", c.mode.Symbol(), FormatValue(c.thresholdValue), c.thresholdCount)

	// Prefer the right side of the hairline; fall back to the left
	// near the edge.
	right := "▬▬ " + label
	if col+1+lipgloss.Width(right) <= c.Width() {
		c.Canvas.SetStringWithStyle(
			canvas.Point{X: col + 1, Y: 0}, right, hairlineStyle)
		return
	}
	left := label + " ▬▬"
	c.Canvas.SetStringWithStyle(
		canvas.Point{X: max(0, col-lipgloss.Width(left)), Y: 0}, left, hairlineStyle)
}

// drawLine draws a line using Bresenham's algorithm.
//
// See https://en.wikipedia.org/wiki/Bresenham%27s_line_algorithm.
func drawLine(bGrid *graph.BrailleGrid, p1, p2 canvas.Point) {
	dx := abs(p2.X - p1.X)
	dy := abs(p2.Y - p1.Y)

	sx := 1
	if p1.X > p2.X {
		sx = -1
	}

	sy := 1
	if p1.Y > p2.Y {
		sy = -1
	}

	err := dx - dy
	x, y := p1.X, p1.Y

	for {
		bGrid.Set(canvas.Point{X: x, Y: y})

		if x == p2.X && y == p2.Y {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
