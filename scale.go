package rangeband

import "math"

// Band geometry at zoom 1. The step is the full per-tick stride; the
// bandwidth is the painted portion of it.
const (
	barHeightPx = 6.0
	barGapPx    = 2.0
	bandStepPx  = barHeightPx + barGapPx
)

// Alignment selects which edge of a tick's band a converted Y refers to.
type Alignment uint8

const (
	AlignTop Alignment = iota
	AlignBottom
	AlignCenter
)

// TickScale maps tick indices to pixel bands under the current zoom and pan.
// Index 0 is the lowest-price tick and renders at the bottom of the content
// strip; higher prices render toward the top.
type TickScale struct {
	count int
	zoom  float64
	panY  float64
}

func NewTickScale(count int, zoom, panY float64) TickScale {
	return TickScale{count: count, zoom: zoom, panY: panY}
}

func (s TickScale) Count() int { return s.count }

// Step is the zoomed per-tick stride in pixels.
func (s TickScale) Step() float64 { return bandStepPx * s.zoom }

// Bandwidth is the zoomed painted band height in pixels.
func (s TickScale) Bandwidth() float64 { return barHeightPx * s.zoom }

// ContentHeight is the total zoomed height of all bands.
func (s TickScale) ContentHeight() float64 { return float64(s.count) * s.Step() }

// YForIndex returns the top edge of tick i's band in viewport pixels.
func (s TickScale) YForIndex(i int) float64 {
	return s.panY + float64(s.count-1-i)*s.Step()
}

// Transform converts between prices and vertical pixel positions using a
// tick series and its scale as the source of truth. Movement between ticks
// is linearly interpolated so dragging is smooth rather than stepped.
type Transform struct {
	ticks *TickSeries
	scale TickScale
}

func NewTransform(ticks *TickSeries, scale TickScale) Transform {
	return Transform{ticks: ticks, scale: scale}
}

func (t Transform) alignOffset(align Alignment) float64 {
	switch align {
	case AlignBottom:
		return t.scale.Bandwidth()
	case AlignCenter:
		return t.scale.Bandwidth() / 2
	default:
		return 0
	}
}

// PriceToY maps a price to a vertical pixel position. With a single tick (or
// a zero price range) the band position is returned directly; otherwise the
// result interpolates between the lowest- and highest-price ticks' band
// positions. Returns NaN when the series is empty.
func (t Transform) PriceToY(price float64, align Alignment) float64 {
	n := t.ticks.Len()
	if n == 0 || math.IsNaN(price) {
		return math.NaN()
	}
	off := t.alignOffset(align)
	minP, maxP, _ := t.ticks.PriceBounds()
	if n == 1 || maxP == minP {
		return t.scale.YForIndex(0) + off
	}
	yLow := t.scale.YForIndex(0)
	yHigh := t.scale.YForIndex(n - 1)
	ratio := (price - minP) / (maxP - minP)
	return yLow + ratio*(yHigh-yLow) + off
}

// YToPrice is the inverse of PriceToY. The interpolation ratio is clamped to
// [0, 1] so positions outside the plotted data never extrapolate beyond the
// data's price bounds. Returns NaN for empty or zero-price-range series;
// callers must treat that as "keep the previous value".
func (t Transform) YToPrice(y float64) float64 {
	n := t.ticks.Len()
	if n == 0 || math.IsNaN(y) {
		return math.NaN()
	}
	minP, maxP, _ := t.ticks.PriceBounds()
	if n == 1 || maxP == minP {
		return math.NaN()
	}
	yLow := t.scale.YForIndex(0)
	yHigh := t.scale.YForIndex(n - 1)
	if yHigh == yLow {
		return math.NaN()
	}
	ratio := clamp((y-yLow)/(yHigh-yLow), 0, 1)
	return minP + ratio*(maxP-minP)
}
