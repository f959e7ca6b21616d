package rangeband

import (
	"image"
	"math"
	"testing"
)

// dragFixture wires a store, a 50-tick series with prices 100..149, and a
// transform at zoom 1 in a 400px viewport. At that zoom price p sits at
// y = 392 - 8*(p-100) for AlignTop.
type dragFixture struct {
	store *Store
	ticks *TickSeries
	fired int
}

func newDragFixture() *dragFixture {
	f := &dragFixture{ticks: evenTicks(50, 100)}
	f.store = NewStore(func(minPrice, maxPrice float64) { f.fired++ })
	f.store.SetDims(image.Pt(300, 400))
	f.store.SetViewport(1, 0)
	return f
}

func (f *dragFixture) transform() Transform {
	vs := f.store.State()
	return NewTransform(f.ticks, NewTickScale(f.ticks.Len(), vs.ZoomLevel, vs.PanY))
}

func (f *dragFixture) series() *TickSeries { return f.ticks }

func TestHandleDragRange(t *testing.T) {
	f := newDragFixture()
	f.store.SetRange(110, 140) // yMin=312, yMax=72

	for _, tc := range []struct {
		name             string
		kind             HandleKind
		pointerY         float64
		wantMin, wantMax float64
		wantOK           bool
	}{
		{name: "min handle moves up", kind: HandleMin, pointerY: 200, wantMin: 124, wantMax: 140, wantOK: true},
		{name: "min handle crosses max and swaps", kind: HandleMin, pointerY: 50, wantMin: 140, wantMax: 142.75, wantOK: true},
		{name: "min handle stops at separation", kind: HandleMin, pointerY: 75, wantMin: 138.5, wantMax: 140, wantOK: true},
		{name: "max handle moves up", kind: HandleMax, pointerY: 100, wantMin: 110, wantMax: 136.5, wantOK: true},
		{name: "max handle crosses min and swaps", kind: HandleMax, pointerY: 350, wantMin: 105.25, wantMax: 110, wantOK: true},
		{name: "center kind is not a handle", kind: HandleCenter, pointerY: 200, wantOK: false},
	} {
		vs := f.store.State()
		minP, maxP, ok := handleDragRange(tc.kind, tc.pointerY, vs, f.transform())
		if ok != tc.wantOK {
			t.Errorf("%s: ok = %v, want %v", tc.name, ok, tc.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if math.Abs(minP-tc.wantMin) > 1e-9 || math.Abs(maxP-tc.wantMax) > 1e-9 {
			t.Errorf("%s: got (%f, %f), want (%f, %f)", tc.name, minP, maxP, tc.wantMin, tc.wantMax)
		}
	}
}

func TestHandleDragRangeNoSelection(t *testing.T) {
	f := newDragFixture()
	if _, _, ok := handleDragRange(HandleMin, 200, f.store.State(), f.transform()); ok {
		t.Errorf("drag without a selection should not produce a range")
	}
}

func TestHandleDragRangeEdgeSqueeze(t *testing.T) {
	f := newDragFixture()
	// The max bound is already near the top of the domain; pushing it
	// further clamps at the highest price and squeezes the pixel span
	// below the minimum, which must reject rather than shrink.
	f.store.SetRange(148, 149)
	if _, _, ok := handleDragRange(HandleMax, -25, f.store.State(), f.transform()); ok {
		t.Errorf("squeezed range at the domain edge should be rejected")
	}
}

func TestCenterDragMovesFixedSpan(t *testing.T) {
	f := newDragFixture()
	f.store.SetRange(110, 114) // indices 10..14, centered at y=296

	st, ok := startCenterDrag(296, f.store.State(), f.transform(), f.ticks)
	if !ok {
		t.Fatalf("startCenterDrag should succeed")
	}
	if st.span != 4 {
		t.Fatalf("expected index span 4, got %d", st.span)
	}
	minP, maxP, ok := moveCenterDrag(st, 192, f.transform(), f.ticks)
	if !ok {
		t.Fatalf("move to the middle of the data should succeed")
	}
	if minP != 123 || maxP != 127 {
		t.Errorf("expected (123, 127), got (%f, %f)", minP, maxP)
	}
}

func TestCenterDragRejectsOutOfBounds(t *testing.T) {
	f := newDragFixture()
	f.store.SetRange(110, 114)
	st, ok := startCenterDrag(296, f.store.State(), f.transform(), f.ticks)
	if !ok {
		t.Fatalf("startCenterDrag should succeed")
	}
	// Moves whose recentered span would cross either end of the data are
	// rejected outright so the selection width never shrinks.
	if _, _, ok := moveCenterDrag(st, 8, f.transform(), f.ticks); ok {
		t.Errorf("move past the top of the data should be rejected")
	}
	if _, _, ok := moveCenterDrag(st, 384, f.transform(), f.ticks); ok {
		t.Errorf("move past the bottom of the data should be rejected")
	}
}

func TestCreateDragRange(t *testing.T) {
	f := newDragFixture()
	minP, maxP, ok := createDragRange(120, 392, f.transform())
	if !ok || minP != 100 || maxP != 120 {
		t.Errorf("downward create drag: got (%f, %f) ok=%v, want (100, 120)", minP, maxP, ok)
	}
	minP, maxP, ok = createDragRange(120, 72, f.transform())
	if !ok || minP != 120 || maxP != 140 {
		t.Errorf("upward create drag: got (%f, %f) ok=%v, want (120, 140)", minP, maxP, ok)
	}
	if _, _, ok := createDragRange(120, 232, f.transform()); ok {
		t.Errorf("zero-height create drag should be rejected")
	}
}

func TestDragBehaviorCommitsOnce(t *testing.T) {
	f := newDragFixture()
	f.store.SetRange(110, 140)
	d := newDragBehavior(HandleMin, f.store, f.transform, f.series)

	d.press(312)
	if !f.store.State().Dragging {
		t.Fatalf("press on the handle should start a drag")
	}
	d.move(250)
	d.move(200)
	if f.fired != 0 {
		t.Fatalf("intermediate drag frames must not commit, fired %d times", f.fired)
	}
	vs := f.store.State()
	if vs.MinPrice != 124 || vs.MaxPrice != 140 {
		t.Fatalf("live range should track the pointer, got (%f, %f)", vs.MinPrice, vs.MaxPrice)
	}
	d.release(200)
	if f.fired != 1 {
		t.Errorf("release should commit exactly once, fired %d times", f.fired)
	}
	vs = f.store.State()
	if vs.Dragging {
		t.Errorf("release should end the drag")
	}
	if vs.MinPrice != 124 || vs.MaxPrice != 140 {
		t.Errorf("committed range should match the final position, got (%f, %f)", vs.MinPrice, vs.MaxPrice)
	}
}

func TestDragBehaviorReleaseFallsBackToLiveRange(t *testing.T) {
	f := newDragFixture()
	f.store.SetRange(110, 114)
	d := newDragBehavior(HandleCenter, f.store, f.transform, f.series)

	d.press(296)
	d.move(192)
	// The final position is out of bounds; the last valid live range is
	// committed instead.
	d.release(8)
	if f.fired != 1 {
		t.Fatalf("expected exactly one commit, fired %d times", f.fired)
	}
	vs := f.store.State()
	if vs.MinPrice != 123 || vs.MaxPrice != 127 {
		t.Errorf("expected fallback to (123, 127), got (%f, %f)", vs.MinPrice, vs.MaxPrice)
	}
}

func TestDragBehaviorCancelDoesNotCommit(t *testing.T) {
	f := newDragFixture()
	f.store.SetRange(110, 140)
	d := newDragBehavior(HandleMax, f.store, f.transform, f.series)

	d.press(72)
	d.move(100)
	d.cancel()
	if f.fired != 0 {
		t.Errorf("cancel must not commit, fired %d times", f.fired)
	}
	if f.store.State().Dragging {
		t.Errorf("cancel should end the drag")
	}
}

func TestDragSuppressedInFullRange(t *testing.T) {
	f := newDragFixture()
	f.store.SetRange(100, 149)
	f.store.SetFullRange(true)

	for _, kind := range []HandleKind{HandleMin, HandleMax, HandleCenter} {
		d := newDragBehavior(kind, f.store, f.transform, f.series)
		d.press(200)
		if f.store.State().Dragging {
			t.Errorf("kind %d: press must be ignored in full-range mode", kind)
		}
		d.move(250)
		d.release(250)
	}
	o := newOverlayBehavior(f.store, f.transform, f.series)
	o.press(200)
	if f.store.State().Dragging {
		t.Errorf("overlay press must be ignored in full-range mode")
	}
	if f.fired != 0 {
		t.Errorf("no gesture should commit in full-range mode, fired %d times", f.fired)
	}
	vs := f.store.State()
	if vs.MinPrice != 100 || vs.MaxPrice != 149 {
		t.Errorf("full range should be untouched, got (%f, %f)", vs.MinPrice, vs.MaxPrice)
	}
}

func TestOverlayCreateDrag(t *testing.T) {
	f := newDragFixture()
	o := newOverlayBehavior(f.store, f.transform, f.series)

	o.press(232) // price 120, tick index 20
	vs := f.store.State()
	if !vs.Dragging {
		t.Fatalf("overlay press should start a drag")
	}
	if vs.DragStartTick != 20 || vs.DragCurrentTick != 20 {
		t.Fatalf("expected drag ticks (20, 20), got (%d, %d)", vs.DragStartTick, vs.DragCurrentTick)
	}
	o.move(392)
	vs = f.store.State()
	if vs.MinPrice != 100 || vs.MaxPrice != 120 {
		t.Fatalf("live create range should be (100, 120), got (%f, %f)", vs.MinPrice, vs.MaxPrice)
	}
	if vs.DragCurrentTick != 0 {
		t.Errorf("expected drag current tick 0, got %d", vs.DragCurrentTick)
	}
	if f.fired != 0 {
		t.Fatalf("moving must not commit, fired %d times", f.fired)
	}
	o.release(392)
	if f.fired != 1 {
		t.Errorf("release should commit exactly once, fired %d times", f.fired)
	}
}

func TestOverlayHover(t *testing.T) {
	f := newDragFixture()
	o := newOverlayBehavior(f.store, f.transform, f.series)

	o.hover(192) // price 125, tick index 25
	if got := f.store.State().HoveredTick; got != 25 {
		t.Errorf("expected hovered tick 25, got %d", got)
	}
	o.hover(392)
	if got := f.store.State().HoveredTick; got != 0 {
		t.Errorf("expected hovered tick 0 at the bottom, got %d", got)
	}
}

func TestEmptyDataIsInert(t *testing.T) {
	f := &dragFixture{ticks: NewTickSeries(nil)}
	f.store = NewStore(func(minPrice, maxPrice float64) { f.fired++ })
	f.store.SetDims(image.Pt(300, 400))
	f.store.SetViewport(1, 0)

	d := newDragBehavior(HandleMin, f.store, f.transform, f.series)
	d.press(200)
	d.move(250)
	d.release(250)

	o := newOverlayBehavior(f.store, f.transform, f.series)
	o.hover(200)
	o.press(200)
	o.move(250)
	o.release(250)

	vs := f.store.State()
	if vs.Dragging {
		t.Errorf("no gesture should start with empty data")
	}
	if vs.HoveredTick != -1 {
		t.Errorf("hover over empty data should report -1, got %d", vs.HoveredTick)
	}
	if vs.HasRange() {
		t.Errorf("empty data should never produce a selection")
	}
	if f.fired != 0 {
		t.Errorf("empty data should never commit, fired %d times", f.fired)
	}
}
