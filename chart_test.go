package rangeband

import (
	"image"
	"math"
	"testing"
)

func chartEntries(n int, base float64) []TickEntry {
	entries := make([]TickEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, TickEntry{
			Tick:            i,
			Price0:          base + float64(i),
			ActiveLiquidity: 1,
		})
	}
	return entries
}

// newTestChart builds a chart with a 400x400 plot area, 50 ticks with prices
// 100..149, and a latest observed price of 125.
func newTestChart(fired *int) *RangeChart {
	c := NewRangeChart(Options{
		OnRangeChange: func(minPrice, maxPrice float64) { *fired++ },
	})
	c.resize(image.Pt(400+gutterWidthPx+indicatorWidthPx, 400))
	c.SetData(chartEntries(50, 100), []PricePoint{
		{Time: 1, Value: 120},
		{Time: 2, Value: 125},
	}, 125)
	return c
}

func TestChartResetSelectsDefaultBand(t *testing.T) {
	var fired int
	c := newTestChart(&fired)

	c.Reset()
	if fired != 1 {
		t.Fatalf("Reset should commit exactly once, fired %d times", fired)
	}
	minP, maxP, ok := c.Range()
	if !ok {
		t.Fatalf("Reset should leave a selection")
	}
	// The viewport price band around the latest price spans the whole
	// domain here, so the default band fractions pick 110 and 139.
	if minP != 110 || maxP != 139 {
		t.Errorf("expected default band (110, 139), got (%f, %f)", minP, maxP)
	}
	vs := c.State()
	if vs.ZoomLevel < c.dynamicZoomMin() || vs.ZoomLevel > ZoomMax {
		t.Errorf("zoom %f outside bounds after Reset", vs.ZoomLevel)
	}
}

func TestChartResetFullRange(t *testing.T) {
	var fired int
	c := newTestChart(&fired)
	c.SetFullRange(true)

	c.Reset()
	if fired != 1 {
		t.Fatalf("full-range Reset should commit exactly once, fired %d times", fired)
	}
	minP, maxP, ok := c.Range()
	if !ok || minP != 100 || maxP != 149 {
		t.Errorf("full-range Reset should select the whole domain, got (%f, %f) ok=%v", minP, maxP, ok)
	}
}

func TestChartResetEmptyData(t *testing.T) {
	var fired int
	c := NewRangeChart(Options{
		OnRangeChange: func(minPrice, maxPrice float64) { fired++ },
	})
	c.resize(image.Pt(492, 400))
	c.Reset()
	if fired != 0 {
		t.Errorf("Reset with no data must not commit, fired %d times", fired)
	}
	if _, _, ok := c.Range(); ok {
		t.Errorf("Reset with no data must not create a selection")
	}
}

func TestChartSetFullRangePinsSelection(t *testing.T) {
	var fired int
	c := newTestChart(&fired)

	c.SetFullRange(true)
	minP, maxP, ok := c.Range()
	if !ok || minP != 100 || maxP != 149 {
		t.Fatalf("full range should pin the selection to the domain, got (%f, %f) ok=%v", minP, maxP, ok)
	}
	if fired != 0 {
		t.Errorf("pinning full range must not commit, fired %d times", fired)
	}

	// New data re-pins the selection to the new domain.
	c.SetData(chartEntries(20, 500), nil, 510)
	minP, maxP, ok = c.Range()
	if !ok || minP != 500 || maxP != 519 {
		t.Errorf("full range should follow new data, got (%f, %f) ok=%v", minP, maxP, ok)
	}
	if fired != 0 {
		t.Errorf("data updates must not commit, fired %d times", fired)
	}
}

func TestChartCenterRange(t *testing.T) {
	var fired int
	c := newTestChart(&fired)
	c.SetRange(110, 140)
	if fired != 0 {
		t.Fatalf("SetRange must not commit")
	}

	c.CenterRange()
	if fired != 1 {
		t.Fatalf("CenterRange should commit exactly once, fired %d times", fired)
	}
	minP, maxP, _ := c.Range()
	if minP != 110 || maxP != 140 {
		t.Errorf("CenterRange must not alter the selection, got (%f, %f)", minP, maxP)
	}
	// Indices 10..40 in a 400px viewport.
	vs := c.State()
	wantZoom := 400 / (31 * rangeViewportPad * bandStepPx)
	if math.Abs(vs.ZoomLevel-wantZoom) > 1e-9 {
		t.Errorf("expected fitted zoom %f, got %f", wantZoom, vs.ZoomLevel)
	}
}

func TestChartCenterRangeWithoutSelection(t *testing.T) {
	var fired int
	c := newTestChart(&fired)
	c.CenterRange()
	if fired != 0 {
		t.Errorf("CenterRange without a selection must not commit, fired %d times", fired)
	}
}

func TestChartZoomClamped(t *testing.T) {
	var fired int
	c := newTestChart(&fired)

	for i := 0; i < 30; i++ {
		c.ZoomIn()
	}
	if got := c.State().ZoomLevel; got != ZoomMax {
		t.Errorf("zoom should saturate at %f, got %f", ZoomMax, got)
	}
	for i := 0; i < 50; i++ {
		c.ZoomOut()
	}
	if got, want := c.State().ZoomLevel, c.dynamicZoomMin(); got != want {
		t.Errorf("zoom should saturate at the dynamic minimum %f, got %f", want, got)
	}
	vs := c.State()
	if bounded := BoundPanY(vs.PanY, float64(vs.Dims.Y), c.ticks.Len(), vs.ZoomLevel); bounded != vs.PanY {
		t.Errorf("pan %f should remain bounded through zooming", vs.PanY)
	}
}

func TestChartSetDataReclampsViewport(t *testing.T) {
	var fired int
	c := newTestChart(&fired)
	for i := 0; i < 50; i++ {
		c.ZoomOut()
	}
	// Shrinking the dataset raises the dynamic zoom minimum; the viewport
	// must follow rather than expose empty space.
	c.SetData(chartEntries(5, 100), nil, 102)
	vs := c.State()
	if vs.ZoomLevel < c.dynamicZoomMin() {
		t.Errorf("zoom %f below dynamic minimum %f after data change", vs.ZoomLevel, c.dynamicZoomMin())
	}
	if bounded := BoundPanY(vs.PanY, float64(vs.Dims.Y), c.ticks.Len(), vs.ZoomLevel); bounded != vs.PanY {
		t.Errorf("pan %f out of bounds after data change", vs.PanY)
	}
}

func TestChartClearRange(t *testing.T) {
	var fired int
	c := newTestChart(&fired)
	c.SetRange(110, 140)
	c.ClearRange()
	if _, _, ok := c.Range(); ok {
		t.Errorf("ClearRange should remove the selection")
	}
	if fired != 0 {
		t.Errorf("ClearRange must not commit, fired %d times", fired)
	}
}

func TestParseWindow(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want HistoryWindow
	}{
		{in: "hour", want: WindowHour},
		{in: "1h", want: WindowHour},
		{in: "day", want: WindowDay},
		{in: "Week", want: WindowWeek},
		{in: " month ", want: WindowMonth},
		{in: "1y", want: WindowYear},
		{in: "bogus", want: WindowDay},
		{in: "", want: WindowDay},
	} {
		if got := ParseWindow(tc.in); got != tc.want {
			t.Errorf("ParseWindow(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
