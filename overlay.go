package rangeband

import (
	"gioui.org/io/event"
	"gioui.org/layout"
	"gioui.org/op/clip"
)

// overlayRenderer registers the invisible hit area over the liquidity-bar
// gutter that feeds hover tracking and drag-to-create. Drawn topmost so it
// is never shadowed by visual layers.
type overlayRenderer struct {
	behavior *overlayBehavior
}

func (r *overlayRenderer) Draw(gtx layout.Context, g geom) {
	stack := clip.Rect(g.Gutter).Push(gtx.Ops)
	event.Op(gtx.Ops, r.behavior)
	stack.Pop()
}
