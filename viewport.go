package rangeband

import (
	"math"

	"golang.org/x/exp/constraints"
)

const (
	// ZoomMax bounds the upper end of the zoom range; the lower end is
	// data-dependent via DynamicZoomMin.
	ZoomMax = 10.0
	// zoomAbsoluteMin floors DynamicZoomMin for tiny viewports or huge
	// tick counts.
	zoomAbsoluteMin = 0.05
	// zoomStepFactor is applied per imperative ZoomIn/ZoomOut.
	zoomStepFactor = 1.3
	// rangeViewportPad widens a fitted index span by 25%.
	rangeViewportPad = 1.25
	// rangeMinHeightPx is the minimum pixel separation between the min and
	// max range lines.
	rangeMinHeightPx = 12.0
	// dragMarginPx extends the draggable region past the viewport edges.
	dragMarginPx = 20.0
)

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// DynamicZoomMin is the smallest zoom at which tickCount bands still fill
// viewportHeight, floored at a global absolute minimum. It prevents zooming
// out far enough to expose empty space beyond the data.
func DynamicZoomMin(viewportHeight float64, tickCount int) float64 {
	if tickCount <= 0 || viewportHeight <= 0 {
		return zoomAbsoluteMin
	}
	return max(viewportHeight/(float64(tickCount)*bandStepPx), zoomAbsoluteMin)
}

// RangeViewportParams describes a tick-index span to fit into view.
type RangeViewportParams struct {
	MinIndex, MaxIndex int
	TickCount          int
	ViewportHeight     float64
	DynamicZoomMin     float64
}

// RangeViewport derives the zoom that fits the index span plus 25% padding,
// clamped to [DynamicZoomMin, ZoomMax], and the pan that places the span's
// midpoint tick at the viewport's vertical center.
func RangeViewport(p RangeViewportParams) (zoom, panY float64) {
	if p.TickCount <= 0 || p.ViewportHeight <= 0 {
		return max(p.DynamicZoomMin, zoomAbsoluteMin), 0
	}
	lo, hi := p.MinIndex, p.MaxIndex
	if hi < lo {
		lo, hi = hi, lo
	}
	span := float64(hi-lo+1) * rangeViewportPad
	zoom = clamp(p.ViewportHeight/(span*bandStepPx), p.DynamicZoomMin, ZoomMax)
	scale := NewTickScale(p.TickCount, zoom, 0)
	mid := (lo + hi) / 2
	midY := scale.YForIndex(mid) + scale.Bandwidth()/2
	panY = BoundPanY(p.ViewportHeight/2-midY, p.ViewportHeight, p.TickCount, zoom)
	return zoom, panY
}

// BoundPanY clamps panY so the content's top edge never drops below the
// viewport top and its bottom edge never rises above the viewport bottom.
func BoundPanY(panY, viewportHeight float64, tickCount int, zoom float64) float64 {
	content := float64(tickCount) * bandStepPx * zoom
	lo := min(0, viewportHeight-content)
	return clamp(panY, lo, 0)
}

// ZoomAround rescales zoom by factor while keeping the content point under
// anchorY visually fixed, then re-bounds the pan.
func ZoomAround(zoom, panY, anchorY, factor, zoomMin, viewportHeight float64, tickCount int) (newZoom, newPanY float64) {
	newZoom = clamp(zoom*factor, zoomMin, ZoomMax)
	newPanY = panY
	if zoom > 0 {
		content := (anchorY - panY) / zoom
		newPanY = anchorY - content*newZoom
	}
	return newZoom, BoundPanY(newPanY, viewportHeight, tickCount, newZoom)
}
