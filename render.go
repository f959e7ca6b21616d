package rangeband

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
)

// Fixed-width regions to the right of the plot area.
const (
	gutterWidthPx    = 72
	indicatorWidthPx = 20
	handleRadiusPx   = 6
	guideHitHeightPx = 16
	gripWidthPx      = 14
	gripHeightPx     = 24
)

// geom carries the per-frame pixel regions shared by all renderers. Plot is
// the price-line area, Gutter holds the liquidity bars, Indicator the handle
// track. All three share one vertical coordinate space.
type geom struct {
	Plot      image.Rectangle
	Gutter    image.Rectangle
	Indicator image.Rectangle
}

// Span is the horizontal extent the range lines cover: plot plus gutter.
func (g geom) Span() image.Rectangle {
	return image.Rect(g.Plot.Min.X, g.Plot.Min.Y, g.Gutter.Max.X, g.Plot.Max.Y)
}

var (
	colBarActive    = color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0xff}
	colBarInactive  = color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0x50}
	colBarHovered   = color.NRGBA{R: 0x51, G: 0xa8, B: 0xd8, A: 0xff}
	colLineDim      = color.NRGBA{R: 0x8a, G: 0x8a, B: 0x8a, A: 0xb0}
	colLineInRange  = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	colDotIn        = color.NRGBA{R: 0x51, G: 0x85, B: 0x4d, A: 0xff}
	colDotOut       = color.NRGBA{R: 0xa4, G: 0x63, B: 0x3a, A: 0xff}
	colRangeArea    = color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0x28}
	colGuide        = color.NRGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xe0}
	colTrack        = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	colTrackRange   = color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0xc0}
	colHandle       = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	colGrip         = color.NRGBA{R: 0x72, G: 0x6c, B: 0xae, A: 0xff}
	colGripLine     = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xc0}
	colCurrentPrice = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0x90}
)

// renderer is one stateless visual layer. Draw clears nothing incrementally;
// the host repaints every layer back-to-front each frame.
type renderer interface {
	Draw(gtx layout.Context, g geom)
}

func fillRect(gtx layout.Context, r image.Rectangle, c color.NRGBA) {
	if r.Empty() {
		return
	}
	paint.FillShape(gtx.Ops, c, clip.Rect(r).Op())
}

func fillCircle(gtx layout.Context, center image.Point, radius int, c color.NRGBA) {
	e := clip.Ellipse{
		Min: image.Pt(center.X-radius, center.Y-radius),
		Max: image.Pt(center.X+radius, center.Y+radius),
	}
	paint.FillShape(gtx.Ops, c, e.Op(gtx.Ops))
}

func rec(gtx layout.Context, w layout.Widget) (layout.Dimensions, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func round(v float64) int {
	return int(floor(v + 0.5))
}
