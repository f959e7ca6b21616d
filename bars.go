package rangeband

import (
	"image"

	"gioui.org/layout"
)

// barsRenderer draws one horizontal bar per tick in the gutter, anchored to
// the right edge and growing leftward, width proportional to the tick's
// share of the maximum liquidity present.
type barsRenderer struct {
	state StateReader
	ticks func() *TickSeries
	scale func() TickScale
}

func (r *barsRenderer) Draw(gtx layout.Context, g geom) {
	ticks := r.ticks()
	maxLiq := ticks.MaxLiquidity()
	if ticks.Len() == 0 || maxLiq <= 0 {
		return
	}
	vs := r.state.State()
	scale := r.scale()
	bh := max(1, round(scale.Bandwidth()))
	h := float64(vs.Dims.Y)
	for i := 0; i < ticks.Len(); i++ {
		y := scale.YForIndex(i)
		if y > h || y+scale.Bandwidth() < 0 {
			continue
		}
		e := ticks.At(i)
		w := round(e.ActiveLiquidity / maxLiq * float64(g.Gutter.Dx()))
		if w <= 0 {
			continue
		}
		col := colBarInactive
		switch {
		case i == vs.HoveredTick:
			col = colBarHovered
		case vs.HasRange() && e.Price0 >= vs.MinPrice && e.Price0 <= vs.MaxPrice:
			col = colBarActive
		}
		top := g.Plot.Min.Y + round(y)
		fillRect(gtx, image.Rect(g.Gutter.Max.X-w, top, g.Gutter.Max.X, top+bh), col)
	}
}
