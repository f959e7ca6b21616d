// Package rangeband implements an interactive liquidity-range chart: a
// historical price line and a liquidity-depth bar gutter overlaid with a
// draggable, zoomable price-range selector for concentrated-liquidity
// positions.
package rangeband

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/widget/material"
)

// maxMeasureRetries bounds how many frames the chart waits for a non-zero
// constraint before falling back to Options.FallbackSize.
const maxMeasureRetries = 5

// Options configures a RangeChart.
type Options struct {
	// OnRangeChange is invoked exactly once per committed gesture: drag
	// end, Reset, or CenterRange. Never during intermediate drag frames.
	OnRangeChange func(minPrice, maxPrice float64)
	// ResetBandLow/ResetBandHigh are the fractions of the viewport price
	// band that Reset selects when not in full-range mode. Zero values
	// default to 0.2 and 0.8.
	ResetBandLow  float64
	ResetBandHigh float64
	Window        HistoryWindow
	// Invalidate schedules another frame. Used to retry measurement when
	// the container has not been laid out yet.
	Invalidate func()
	// FallbackSize is used after measurement retries are exhausted.
	FallbackSize image.Point
}

// RangeChart is the host component. It owns the view state and the tick
// scale, wires pointer and wheel input, and repaints every layer on each
// frame.
type RangeChart struct {
	store  *Store
	opts   Options
	ticks  *TickSeries
	prices *PriceSeries
	window HistoryWindow
	th     *material.Theme

	scale    TickScale
	scaleKey scaleKey

	minDrag    *dragBehavior
	maxDrag    *dragBehavior
	centerGrab *dragBehavior
	overlay    *overlayBehavior
	layers     []renderer

	measureRetries int
	panGrab        bool
	panGrabY       float64
	panGrabStart   float64
}

type scaleKey struct {
	count int
	zoom  float64
	panY  float64
	dims  image.Point
}

func NewRangeChart(opts Options) *RangeChart {
	if opts.ResetBandLow == 0 && opts.ResetBandHigh == 0 {
		opts.ResetBandLow, opts.ResetBandHigh = 0.2, 0.8
	}
	if opts.FallbackSize == (image.Point{}) {
		opts.FallbackSize = image.Pt(400, 300)
	}
	c := &RangeChart{
		opts:   opts,
		store:  NewStore(opts.OnRangeChange),
		ticks:  NewTickSeries(nil),
		prices: NewPriceSeries(nil),
		window: opts.Window,
	}
	ticks := func() *TickSeries { return c.ticks }
	transform := func() Transform { return c.Transform() }
	c.minDrag = newDragBehavior(HandleMin, c.store, transform, ticks)
	c.maxDrag = newDragBehavior(HandleMax, c.store, transform, ticks)
	c.centerGrab = newDragBehavior(HandleCenter, c.store, transform, ticks)
	c.overlay = newOverlayBehavior(c.store, transform, ticks)

	bounds := func() (yMin, yMax float64, ok bool) {
		return rangeBounds(c.store.State(), c.Transform())
	}
	// Back-to-front: hit targets end up topmost.
	c.layers = []renderer{
		&barsRenderer{state: c.store, ticks: ticks, scale: func() TickScale { return c.tickScale() }},
		&priceLineRenderer{state: c.store, prices: func() *PriceSeries { return c.prices }, transform: transform},
		&rangeAreaRenderer{state: c.store, bounds: bounds, center: c.centerGrab},
		&guideLinesRenderer{state: c.store, bounds: bounds, minDrag: c.minDrag, maxDrag: c.maxDrag},
		&indicatorRenderer{state: c.store, bounds: bounds, minDrag: c.minDrag, maxDrag: c.maxDrag, center: c.centerGrab},
		&currentPriceRenderer{state: c.store, transform: transform},
		&overlayRenderer{behavior: c.overlay},
		&timeAxisRenderer{
			prices: func() *PriceSeries { return c.prices },
			window: func() HistoryWindow { return c.window },
			theme:  func() *material.Theme { return c.th },
		},
	}
	return c
}

// State returns a copy of the current view state.
func (c *RangeChart) State() ViewState { return c.store.State() }

// Range reports the current selection.
func (c *RangeChart) Range() (minPrice, maxPrice float64, ok bool) {
	vs := c.store.State()
	return vs.MinPrice, vs.MaxPrice, vs.HasRange()
}

// tickScale rebuilds the band scale only when its parameters changed.
func (c *RangeChart) tickScale() TickScale {
	vs := c.store.State()
	key := scaleKey{count: c.ticks.Len(), zoom: vs.ZoomLevel, panY: vs.PanY, dims: vs.Dims}
	if key != c.scaleKey {
		c.scale = NewTickScale(key.count, key.zoom, key.panY)
		c.scaleKey = key
	}
	return c.scale
}

// Transform returns the current price<->pixel transform.
func (c *RangeChart) Transform() Transform {
	return NewTransform(c.ticks, c.tickScale())
}

// SetData supplies a new tick/price snapshot. The chart never mutates the
// provided slices.
func (c *RangeChart) SetData(ticks []TickEntry, prices []PricePoint, currentPrice float64) {
	c.ticks = NewTickSeries(ticks)
	c.prices = NewPriceSeries(prices)
	c.store.SetCurrentPrice(currentPrice)
	if c.store.State().FullRange {
		if lo, hi, ok := c.ticks.PriceBounds(); ok {
			c.store.SetRange(lo, hi)
		}
	}
	c.reclampViewport()
}

// SetRange applies an externally driven selection without firing the
// range-committed callback.
func (c *RangeChart) SetRange(minPrice, maxPrice float64) {
	c.store.SetRange(minPrice, maxPrice)
}

// ClearRange removes the selection.
func (c *RangeChart) ClearRange() { c.store.ClearRange() }

// SetFullRange pins the selection to the entire data domain and suppresses
// drag interactions while set.
func (c *RangeChart) SetFullRange(full bool) {
	c.store.SetFullRange(full)
	if full {
		if lo, hi, ok := c.ticks.PriceBounds(); ok {
			c.store.SetRange(lo, hi)
		}
	}
}

// SetWindow changes the history window used for axis labels.
func (c *RangeChart) SetWindow(w HistoryWindow) { c.window = w }

func (c *RangeChart) dynamicZoomMin() float64 {
	return DynamicZoomMin(float64(c.store.State().Dims.Y), c.ticks.Len())
}

// reclampViewport re-bounds zoom and pan after data or dimension changes.
func (c *RangeChart) reclampViewport() {
	vs := c.store.State()
	zoom := clamp(vs.ZoomLevel, c.dynamicZoomMin(), ZoomMax)
	pan := BoundPanY(vs.PanY, float64(vs.Dims.Y), c.ticks.Len(), zoom)
	c.store.SetViewport(zoom, pan)
}

func (c *RangeChart) zoomBy(factor, anchorY float64) {
	vs := c.store.State()
	zoom, pan := ZoomAround(vs.ZoomLevel, vs.PanY, anchorY, factor, c.dynamicZoomMin(), float64(vs.Dims.Y), c.ticks.Len())
	c.store.SetViewport(zoom, pan)
}

// ZoomIn zooms by a fixed step, keeping the viewport's vertical center
// visually fixed.
func (c *RangeChart) ZoomIn() {
	c.zoomBy(zoomStepFactor, float64(c.store.State().Dims.Y)/2)
}

// ZoomOut is the inverse of ZoomIn.
func (c *RangeChart) ZoomOut() {
	c.zoomBy(1/zoomStepFactor, float64(c.store.State().Dims.Y)/2)
}

// centerViewportOnRange fits the given index span into view without firing
// the callback.
func (c *RangeChart) centerViewportOnIndices(lo, hi int) {
	vs := c.store.State()
	zoom, pan := RangeViewport(RangeViewportParams{
		MinIndex:       lo,
		MaxIndex:       hi,
		TickCount:      c.ticks.Len(),
		ViewportHeight: float64(vs.Dims.Y),
		DynamicZoomMin: c.dynamicZoomMin(),
	})
	c.store.SetViewport(zoom, pan)
}

// CenterRange fits the current selection into view and commits it.
func (c *RangeChart) CenterRange() {
	vs := c.store.State()
	if !vs.HasRange() || c.ticks.Len() == 0 {
		return
	}
	lo := c.ticks.ClosestIndex(vs.MinPrice)
	hi := c.ticks.ClosestIndex(vs.MaxPrice)
	if lo < 0 || hi < 0 {
		return
	}
	c.centerViewportOnIndices(lo, hi)
	c.store.CommitRange(vs.MinPrice, vs.MaxPrice)
}

// Reset restores a default view. In full-range mode it fits and commits the
// entire data domain; otherwise it derives a default sub-window of the
// viewport price band around the latest price, snaps its edges to real
// ticks, and commits that as the new selection.
func (c *RangeChart) Reset() {
	n := c.ticks.Len()
	if n == 0 {
		return
	}
	vs := c.store.State()
	if vs.FullRange {
		lo, hi, _ := c.ticks.PriceBounds()
		c.centerViewportOnIndices(0, n-1)
		c.store.CommitRange(lo, hi)
		return
	}

	anchor := vs.CurrentPrice
	if latest, ok := c.prices.Latest(); ok {
		anchor = latest.Value
	}
	tr := c.Transform()
	centerY := tr.PriceToY(anchor, AlignCenter)
	if !finite(centerY) {
		return
	}
	h := float64(vs.Dims.Y)
	if h <= 0 {
		h = float64(c.opts.FallbackSize.Y)
	}
	bandLo := tr.YToPrice(centerY + h/2)
	bandHi := tr.YToPrice(centerY - h/2)
	if !finite(bandLo) || !finite(bandHi) || bandHi <= bandLo {
		return
	}
	band := bandHi - bandLo
	lo := c.ticks.ClosestIndex(bandLo + c.opts.ResetBandLow*band)
	hi := c.ticks.ClosestIndex(bandLo + c.opts.ResetBandHigh*band)
	if lo < 0 || hi < 0 {
		return
	}
	if hi <= lo {
		lo = max(0, lo-1)
		hi = min(n-1, lo+1)
	}
	minP, maxP := c.ticks.At(lo).Price0, c.ticks.At(hi).Price0
	if maxP <= minP {
		return
	}
	c.centerViewportOnIndices(lo, hi)
	c.store.CommitRange(minP, maxP)
}

// Update drains pending input: drag behaviors, hover, wheel zoom/pan, and
// middle-button panning.
func (c *RangeChart) Update(gtx layout.Context) {
	c.minDrag.Update(gtx)
	c.maxDrag.Update(gtx)
	c.centerGrab.Update(gtx)
	c.overlay.Update(gtx)

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:       c,
			Kinds:        pointer.Scroll | pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
			ScrollBounds: image.Rect(-1_000_000, -1_000_000, 1_000_000, 1_000_000),
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		vs := c.store.State()
		h := float64(vs.Dims.Y)
		switch pe.Kind {
		case pointer.Scroll:
			if pe.Modifiers.Contain(key.ModShift) {
				pan := BoundPanY(vs.PanY-float64(pe.Scroll.Y), h, c.ticks.Len(), vs.ZoomLevel)
				c.store.SetViewport(vs.ZoomLevel, pan)
				continue
			}
			if h <= 0 {
				continue
			}
			// Proportional wheel zoom anchored at the pointer.
			factor := 1 - float64(pe.Scroll.Y)/h
			if factor > 0 {
				c.zoomBy(factor, float64(pe.Position.Y))
			}
		case pointer.Press:
			if pe.Buttons == pointer.ButtonTertiary {
				c.panGrab = true
				c.panGrabY = float64(pe.Position.Y)
				c.panGrabStart = vs.PanY
			}
		case pointer.Drag:
			if c.panGrab {
				pan := BoundPanY(c.panGrabStart+float64(pe.Position.Y)-c.panGrabY, h, c.ticks.Len(), vs.ZoomLevel)
				c.store.SetViewport(vs.ZoomLevel, pan)
			}
		case pointer.Release, pointer.Cancel:
			c.panGrab = false
		}
	}
}

// resize records the plot dimensions and re-bounds the viewport.
func (c *RangeChart) resize(size image.Point) {
	plotW := max(0, size.X-gutterWidthPx-indicatorWidthPx)
	dims := image.Pt(plotW, size.Y)
	if c.store.State().Dims != dims {
		c.store.SetDims(dims)
		c.reclampViewport()
	}
}

func (c *RangeChart) regions() geom {
	vs := c.store.State()
	plotW, h := vs.Dims.X, vs.Dims.Y
	return geom{
		Plot:      image.Rect(0, 0, plotW, h),
		Gutter:    image.Rect(plotW, 0, plotW+gutterWidthPx, h),
		Indicator: image.Rect(plotW+gutterWidthPx, 0, plotW+gutterWidthPx+indicatorWidthPx, h),
	}
}

// Layout updates state from input and repaints every layer.
func (c *RangeChart) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	c.th = th
	size := gtx.Constraints.Max
	if size.X <= 0 || size.Y <= 0 {
		// Container not measured yet: retry a few frames, then proceed
		// with a best-effort fallback size.
		if c.measureRetries < maxMeasureRetries {
			c.measureRetries++
			if c.opts.Invalidate != nil {
				c.opts.Invalidate()
			}
			return layout.Dimensions{Size: size}
		}
		size = c.opts.FallbackSize
	} else {
		c.measureRetries = 0
	}
	c.resize(size)
	c.Update(gtx)

	stack := clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops)
	event.Op(gtx.Ops, c)
	stack.Pop()

	g := c.regions()
	for _, layer := range c.layers {
		layer.Draw(gtx, g)
	}
	return layout.Dimensions{Size: size}
}
