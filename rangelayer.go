package rangeband

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/layout"
	"gioui.org/op/clip"
)

// rangeAreaRenderer shades the selected band across the plot and gutter. The
// shaded area doubles as a whole-range drag target unless the selection is
// pinned to the full range.
type rangeAreaRenderer struct {
	state  StateReader
	bounds func() (yMin, yMax float64, ok bool)
	center *dragBehavior
}

// rangeBounds resolves the selection to top/bottom pixel positions.
func rangeBounds(vs ViewState, tr Transform) (yMin, yMax float64, ok bool) {
	if !vs.HasRange() {
		return 0, 0, false
	}
	yMin = tr.PriceToY(vs.MinPrice, AlignTop)
	yMax = tr.PriceToY(vs.MaxPrice, AlignTop)
	if !finite(yMin) || !finite(yMax) {
		return 0, 0, false
	}
	return yMin, yMax, true
}

func (r *rangeAreaRenderer) Draw(gtx layout.Context, g geom) {
	yMin, yMax, ok := r.bounds()
	if !ok {
		return
	}
	span := g.Span()
	area := image.Rect(span.Min.X, round(yMax), span.Max.X, round(yMin))
	fillRect(gtx, area, colRangeArea)
	if !r.state.State().FullRange {
		stack := clip.Rect(area).Push(gtx.Ops)
		event.Op(gtx.Ops, r.center)
		stack.Pop()
	}
}

// guideLinesRenderer draws the thin min/max lines plus much thicker, fully
// transparent drag hit targets at the same positions.
type guideLinesRenderer struct {
	state   StateReader
	bounds  func() (yMin, yMax float64, ok bool)
	minDrag *dragBehavior
	maxDrag *dragBehavior
}

func (r *guideLinesRenderer) Draw(gtx layout.Context, g geom) {
	yMin, yMax, ok := r.bounds()
	if !ok {
		return
	}
	span := g.Span()
	fullRange := r.state.State().FullRange
	for _, line := range []struct {
		y   int
		tag *dragBehavior
	}{
		{round(yMax), r.maxDrag},
		{round(yMin), r.minDrag},
	} {
		fillRect(gtx, image.Rect(span.Min.X, line.y, span.Max.X, line.y+1), colGuide)
		if fullRange {
			continue
		}
		hit := image.Rect(span.Min.X, line.y-guideHitHeightPx/2, span.Max.X, line.y+guideHitHeightPx/2)
		stack := clip.Rect(hit).Push(gtx.Ops)
		event.Op(gtx.Ops, line.tag)
		stack.Pop()
	}
}

// indicatorRenderer draws the sidebar: a full-height track, a bright
// sub-rectangle spanning the selection, circular min/max handles, and the
// center grip.
type indicatorRenderer struct {
	state   StateReader
	bounds  func() (yMin, yMax float64, ok bool)
	minDrag *dragBehavior
	maxDrag *dragBehavior
	center  *dragBehavior
}

func (r *indicatorRenderer) Draw(gtx layout.Context, g geom) {
	fillRect(gtx, g.Indicator, colTrack)
	yMin, yMax, ok := r.bounds()
	if !ok {
		return
	}
	top, bot := round(yMax), round(yMin)
	fillRect(gtx, image.Rect(g.Indicator.Min.X, top, g.Indicator.Max.X, bot), colTrackRange)

	cx := g.Indicator.Min.X + g.Indicator.Dx()/2
	fillCircle(gtx, image.Pt(cx, top), handleRadiusPx, colHandle)
	fillCircle(gtx, image.Pt(cx, bot), handleRadiusPx, colHandle)

	mid := (top + bot) / 2
	grip := image.Rect(cx-gripWidthPx/2, mid-gripHeightPx/2, cx+gripWidthPx/2, mid+gripHeightPx/2)
	fillRect(gtx, grip, colGrip)
	for i := 0; i < 3; i++ {
		ly := mid - 4 + i*4
		fillRect(gtx, image.Rect(grip.Min.X+3, ly, grip.Max.X-3, ly+1), colGripLine)
	}

	if r.state.State().FullRange {
		return
	}
	for _, target := range []struct {
		area image.Rectangle
		tag  *dragBehavior
	}{
		{image.Rect(cx-handleRadiusPx-2, top-handleRadiusPx-2, cx+handleRadiusPx+2, top+handleRadiusPx+2), r.maxDrag},
		{image.Rect(cx-handleRadiusPx-2, bot-handleRadiusPx-2, cx+handleRadiusPx+2, bot+handleRadiusPx+2), r.minDrag},
		{grip, r.center},
	} {
		stack := clip.Rect(target.area).Push(gtx.Ops)
		event.Op(gtx.Ops, target.tag)
		stack.Pop()
	}
}

// currentPriceRenderer draws a single dashed horizontal reference line at
// the live price. Never interactive.
type currentPriceRenderer struct {
	state     StateReader
	transform func() Transform
}

func (r *currentPriceRenderer) Draw(gtx layout.Context, g geom) {
	vs := r.state.State()
	y := r.transform().PriceToY(vs.CurrentPrice, AlignCenter)
	if !finite(y) {
		return
	}
	span := g.Span()
	const dash, gap = 6, 4
	yy := round(y)
	for x := span.Min.X; x < span.Max.X; x += dash + gap {
		fillRect(gtx, image.Rect(x, yy, min(x+dash, span.Max.X), yy+1), colCurrentPrice)
	}
}
