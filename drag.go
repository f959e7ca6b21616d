package rangeband

import (
	"math"

	"gioui.org/io/pointer"
	"gioui.org/layout"
)

// HandleKind identifies which draggable control a behavior is bound to.
type HandleKind uint8

const (
	HandleMin HandleKind = iota
	HandleMax
	HandleCenter
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// handleDragRange computes the candidate selection for a min or max handle
// at pointerY. The dragged bound may cross the fixed one, in which case the
// two swap roles; either way the minimum pixel separation is enforced around
// the fixed bound. ok is false when the data or state is degenerate, in
// which case callers must leave the selection untouched.
func handleDragRange(kind HandleKind, pointerY float64, vs ViewState, tr Transform) (minPrice, maxPrice float64, ok bool) {
	if !vs.HasRange() {
		return 0, 0, false
	}
	h := float64(vs.Dims.Y)
	y := clamp(pointerY, -dragMarginPx, h+dragMarginPx)

	var fixed float64
	if kind == HandleMin {
		fixed = vs.MaxPrice
	} else {
		fixed = vs.MinPrice
	}
	fixedY := tr.PriceToY(fixed, AlignTop)
	if !finite(fixedY) {
		return 0, 0, false
	}

	// Higher prices render toward the top: the min bound sits at the
	// larger Y, the max bound at the smaller one.
	switch kind {
	case HandleMin:
		if y < fixedY {
			// Crossed above the max line: the dragged bound becomes
			// the new max, the old max becomes the new min.
			maxY := min(y, fixedY-rangeMinHeightPx)
			minPrice = fixed
			maxPrice = tr.YToPrice(maxY)
		} else {
			minY := max(y, fixedY+rangeMinHeightPx)
			minPrice = tr.YToPrice(minY)
			maxPrice = fixed
		}
	case HandleMax:
		if y > fixedY {
			// Crossed below the min line: roles swap.
			minY := max(y, fixedY+rangeMinHeightPx)
			minPrice = tr.YToPrice(minY)
			maxPrice = fixed
		} else {
			maxY := min(y, fixedY-rangeMinHeightPx)
			minPrice = fixed
			maxPrice = tr.YToPrice(maxY)
		}
	default:
		return 0, 0, false
	}

	if !finite(minPrice) || !finite(maxPrice) || maxPrice <= minPrice {
		return 0, 0, false
	}
	// Conversion clamps at the data's price bounds, which can squeeze the
	// pixel separation back below the minimum near the domain edges.
	span := tr.PriceToY(minPrice, AlignTop) - tr.PriceToY(maxPrice, AlignTop)
	if span < rangeMinHeightPx-0.5 {
		return 0, 0, false
	}
	return minPrice, maxPrice, true
}

// centerDragState is captured at the start of a whole-range drag: the
// selection's tick-index width and the pointer's offset from its visual
// center. Index arithmetic keeps the span width stable across the gesture.
type centerDragState struct {
	span    int
	offsetY float64
}

func startCenterDrag(pointerY float64, vs ViewState, tr Transform, ticks *TickSeries) (centerDragState, bool) {
	if !vs.HasRange() || ticks.Len() == 0 {
		return centerDragState{}, false
	}
	lo := ticks.ClosestIndex(vs.MinPrice)
	hi := ticks.ClosestIndex(vs.MaxPrice)
	if lo < 0 || hi < 0 {
		return centerDragState{}, false
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	yMin := tr.PriceToY(vs.MinPrice, AlignTop)
	yMax := tr.PriceToY(vs.MaxPrice, AlignTop)
	if !finite(yMin) || !finite(yMax) {
		return centerDragState{}, false
	}
	return centerDragState{
		span:    hi - lo,
		offsetY: pointerY - (yMin+yMax)/2,
	}, true
}

// moveCenterDrag recenters the fixed-width index span around the tick
// nearest the adjusted pointer position. Moves that would push either bound
// outside the data are rejected outright rather than clamped, so the
// selection width never silently shrinks.
func moveCenterDrag(st centerDragState, pointerY float64, tr Transform, ticks *TickSeries) (minPrice, maxPrice float64, ok bool) {
	price := tr.YToPrice(pointerY - st.offsetY)
	if !finite(price) {
		return 0, 0, false
	}
	c := ticks.ClosestIndex(price)
	if c < 0 {
		return 0, 0, false
	}
	lo := c - st.span/2
	hi := lo + st.span
	if lo < 0 || hi > ticks.Len()-1 {
		return 0, 0, false
	}
	minPrice = ticks.At(lo).Price0
	maxPrice = ticks.At(hi).Price0
	if maxPrice <= minPrice {
		return 0, 0, false
	}
	return minPrice, maxPrice, true
}

// createDragRange computes the selection for a drag-to-create gesture that
// started at startPrice. Both bounds are clamped to the data's price domain
// by the inverse transform.
func createDragRange(startPrice, pointerY float64, tr Transform) (minPrice, maxPrice float64, ok bool) {
	p := tr.YToPrice(pointerY)
	if !finite(p) || !finite(startPrice) {
		return 0, 0, false
	}
	minPrice = min(startPrice, p)
	maxPrice = max(startPrice, p)
	if maxPrice <= minPrice || minPrice <= 0 {
		return 0, 0, false
	}
	return minPrice, maxPrice, true
}

// dragBehavior binds one handle's pointer gesture to the shared store. It is
// also the input tag its hit area registers with.
type dragBehavior struct {
	kind      HandleKind
	store     RangeWriter
	transform func() Transform
	ticks     func() *TickSeries

	active bool
	center centerDragState
}

func newDragBehavior(kind HandleKind, store RangeWriter, transform func() Transform, ticks func() *TickSeries) *dragBehavior {
	return &dragBehavior{kind: kind, store: store, transform: transform, ticks: ticks}
}

func (d *dragBehavior) Update(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: d,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		y := float64(pe.Position.Y)
		switch pe.Kind {
		case pointer.Press:
			d.press(y)
		case pointer.Drag:
			d.move(y)
		case pointer.Release:
			d.release(y)
		case pointer.Cancel:
			d.cancel()
		}
	}
}

func (d *dragBehavior) press(y float64) {
	vs := d.store.State()
	if vs.FullRange || !vs.HasRange() {
		return
	}
	if d.kind == HandleCenter {
		st, ok := startCenterDrag(y, vs, d.transform(), d.ticks())
		if !ok {
			return
		}
		d.center = st
	}
	d.active = true
	d.store.SetDragging(true)
	d.store.SetDragStartY(y)
}

func (d *dragBehavior) compute(y float64) (minPrice, maxPrice float64, ok bool) {
	vs := d.store.State()
	if d.kind == HandleCenter {
		return moveCenterDrag(d.center, y, d.transform(), d.ticks())
	}
	return handleDragRange(d.kind, y, vs, d.transform())
}

func (d *dragBehavior) move(y float64) {
	if !d.active {
		return
	}
	if minP, maxP, ok := d.compute(y); ok {
		d.store.SetRange(minP, maxP)
	}
}

// release performs the drag calculation once more at the final position and
// commits exactly one range to the host.
func (d *dragBehavior) release(y float64) {
	if !d.active {
		return
	}
	d.active = false
	minP, maxP, ok := d.compute(y)
	if !ok {
		// Fall back to the last valid live position.
		vs := d.store.State()
		minP, maxP, ok = vs.MinPrice, vs.MaxPrice, vs.HasRange()
	}
	if ok {
		d.store.CommitRange(minP, maxP)
	}
	d.store.SetDragging(false)
}

func (d *dragBehavior) cancel() {
	if !d.active {
		return
	}
	d.active = false
	d.store.SetDragging(false)
}

// overlayBehavior handles the transparent gutter overlay: hover tracking and
// drag-to-create.
type overlayBehavior struct {
	store     RangeWriter
	transform func() Transform
	ticks     func() *TickSeries

	active     bool
	updated    bool
	startPrice float64
}

func newOverlayBehavior(store RangeWriter, transform func() Transform, ticks func() *TickSeries) *overlayBehavior {
	return &overlayBehavior{store: store, transform: transform, ticks: ticks}
}

func (o *overlayBehavior) Update(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: o,
			Kinds:  pointer.Enter | pointer.Leave | pointer.Move | pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		y := float64(pe.Position.Y)
		switch pe.Kind {
		case pointer.Enter, pointer.Move:
			o.hover(y)
		case pointer.Leave:
			o.store.SetHover(-1)
		case pointer.Press:
			o.press(y)
		case pointer.Drag:
			o.move(y)
		case pointer.Release:
			o.release(y)
		case pointer.Cancel:
			o.cancel()
		}
	}
}

func (o *overlayBehavior) hover(y float64) {
	price := o.transform().YToPrice(y)
	if !finite(price) {
		o.store.SetHover(-1)
		return
	}
	// SetHover is a no-op while a drag is in progress.
	o.store.SetHover(o.ticks().ClosestIndex(price))
}

func (o *overlayBehavior) press(y float64) {
	vs := o.store.State()
	if vs.FullRange {
		return
	}
	price := o.transform().YToPrice(y)
	if !finite(price) {
		return
	}
	o.active = true
	o.updated = false
	o.startPrice = price
	start := o.ticks().ClosestIndex(price)
	o.store.SetDragging(true)
	o.store.SetDragStartY(y)
	o.store.SetDragTicks(start, start)
}

func (o *overlayBehavior) move(y float64) {
	if !o.active {
		return
	}
	if price := o.transform().YToPrice(y); finite(price) {
		vs := o.store.State()
		o.store.SetDragTicks(vs.DragStartTick, o.ticks().ClosestIndex(price))
	}
	if minP, maxP, ok := createDragRange(o.startPrice, y, o.transform()); ok {
		if o.store.SetRange(minP, maxP) {
			o.updated = true
		}
	}
}

func (o *overlayBehavior) release(y float64) {
	if !o.active {
		return
	}
	o.active = false
	minP, maxP, ok := createDragRange(o.startPrice, y, o.transform())
	if !ok && o.updated {
		vs := o.store.State()
		minP, maxP, ok = vs.MinPrice, vs.MaxPrice, vs.HasRange()
	}
	if ok {
		o.store.CommitRange(minP, maxP)
	}
	o.store.SetDragging(false)
}

func (o *overlayBehavior) cancel() {
	if !o.active {
		return
	}
	o.active = false
	o.store.SetDragging(false)
}
