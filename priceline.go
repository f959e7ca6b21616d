package rangeband

import (
	"image"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
)

// priceLineRenderer draws the historical price series. The path geometry is
// built once per frame and stroked twice: a dim full copy, then a bright
// copy clipped to the pixel band between the selection bounds.
type priceLineRenderer struct {
	state     StateReader
	prices    func() *PriceSeries
	transform func() Transform
}

func (r *priceLineRenderer) Draw(gtx layout.Context, g geom) {
	prices := r.prices()
	if prices.Len() == 0 {
		return
	}
	vs := r.state.State()
	tr := r.transform()

	t0, t1, _ := prices.TimeBounds()
	span := float64(t1 - t0)
	if span == 0 {
		span = 1
	}
	w := float64(g.Plot.Dx())

	xFor := func(t int64) float32 {
		return float32(g.Plot.Min.X) + float32(float64(t-t0)/span*w)
	}

	var path clip.Path
	path.Begin(gtx.Ops)
	started := false
	var lastPt f32.Point
	var lastInRange bool
	for i := 0; i < prices.Len(); i++ {
		pt := prices.At(i)
		y := tr.PriceToY(pt.Value, AlignCenter)
		if !finite(y) {
			continue
		}
		p := f32.Pt(xFor(pt.Time), float32(y))
		if !started {
			path.MoveTo(p)
			started = true
		} else {
			path.LineTo(p)
		}
		lastPt = p
		lastInRange = vs.HasRange() && pt.Value >= vs.MinPrice && pt.Value <= vs.MaxPrice
	}
	if !started {
		return
	}
	spec := path.End()

	stroke := clip.Stroke{Path: spec, Width: 1.5}.Op().Push(gtx.Ops)
	paint.Fill(gtx.Ops, colLineDim)
	stroke.Pop()

	if vs.HasRange() {
		yTop := tr.PriceToY(vs.MaxPrice, AlignTop)
		yBot := tr.PriceToY(vs.MinPrice, AlignTop)
		if finite(yTop) && finite(yBot) {
			band := clip.Rect(image.Rect(g.Plot.Min.X, round(yTop), g.Plot.Max.X, round(yBot))).Push(gtx.Ops)
			stroke := clip.Stroke{Path: spec, Width: 1.5}.Op().Push(gtx.Ops)
			paint.Fill(gtx.Ops, colLineInRange)
			stroke.Pop()
			band.Pop()
		}
	}

	// Two-layer dot at the most recent point, colored by range membership.
	dot := colDotOut
	if lastInRange {
		dot = colDotIn
	}
	ring := dot
	ring.A = 0x50
	center := image.Pt(int(lastPt.X), int(lastPt.Y))
	fillCircle(gtx, center, 6, ring)
	fillCircle(gtx, center, 3, dot)
}
