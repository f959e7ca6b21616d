package rangeband

import (
	"image"
	"math"
)

// ViewState is the single mutable record describing the chart's view. It is
// owned exclusively by the Store; renderers and drag behaviors observe it
// through copies returned by State().
type ViewState struct {
	// Dims is the plot area in pixels, excluding the liquidity-bar gutter
	// and the indicator track.
	Dims image.Point
	// MinPrice/MaxPrice are the current selection; NaN means no selection.
	MinPrice float64
	MaxPrice float64
	// CurrentPrice drives the dotted reference line.
	CurrentPrice float64
	ZoomLevel    float64
	PanY         float64
	Dragging     bool
	// HoveredTick indexes the tick series; -1 when nothing is hovered.
	HoveredTick     int
	DragStartTick   int
	DragCurrentTick int
	DragStartY      float64
	// FullRange spans the entire data domain and suppresses drags.
	FullRange bool
}

// HasRange reports whether both selection bounds are defined.
func (v ViewState) HasRange() bool {
	return !math.IsNaN(v.MinPrice) && !math.IsNaN(v.MaxPrice)
}

// StateReader is the read capability handed to renderers.
type StateReader interface {
	State() ViewState
}

// RangeWriter is the narrow mutation surface handed to drag behaviors. It
// deliberately excludes viewport and dimension writes.
type RangeWriter interface {
	StateReader
	SetRange(minPrice, maxPrice float64) bool
	CommitRange(minPrice, maxPrice float64) bool
	SetDragging(bool)
	SetHover(tick int)
	SetDragTicks(start, current int)
	SetDragStartY(y float64)
}

// Store owns the ViewState. All mutation flows through its methods so the
// host component remains the single writer; the range-committed callback
// fires only through CommitRange.
type Store struct {
	vs      ViewState
	onRange func(minPrice, maxPrice float64)
}

var _ RangeWriter = (*Store)(nil)

func NewStore(onRange func(minPrice, maxPrice float64)) *Store {
	return &Store{
		vs: ViewState{
			MinPrice:        math.NaN(),
			MaxPrice:        math.NaN(),
			ZoomLevel:       1,
			HoveredTick:     -1,
			DragStartTick:   -1,
			DragCurrentTick: -1,
		},
		onRange: onRange,
	}
}

// State returns a copy of the current view state.
func (s *Store) State() ViewState { return s.vs }

func validRange(minPrice, maxPrice float64) bool {
	if math.IsNaN(minPrice) || math.IsNaN(maxPrice) {
		return false
	}
	if math.IsInf(minPrice, 0) || math.IsInf(maxPrice, 0) {
		return false
	}
	return maxPrice > minPrice
}

// SetRange updates the selection without notifying the host. Degenerate
// ranges are rejected so a bad drag frame never commits non-finite state.
func (s *Store) SetRange(minPrice, maxPrice float64) bool {
	if !validRange(minPrice, maxPrice) {
		return false
	}
	s.vs.MinPrice = minPrice
	s.vs.MaxPrice = maxPrice
	return true
}

// CommitRange updates the selection and fires the range-committed callback
// exactly once. Used at drag end and by the imperative reset/center ops.
func (s *Store) CommitRange(minPrice, maxPrice float64) bool {
	if !s.SetRange(minPrice, maxPrice) {
		return false
	}
	if s.onRange != nil {
		s.onRange(minPrice, maxPrice)
	}
	return true
}

// ClearRange removes the selection.
func (s *Store) ClearRange() {
	s.vs.MinPrice = math.NaN()
	s.vs.MaxPrice = math.NaN()
}

func (s *Store) SetDims(p image.Point) { s.vs.Dims = p }

func (s *Store) SetViewport(zoom, panY float64) {
	s.vs.ZoomLevel = zoom
	s.vs.PanY = panY
}

func (s *Store) SetCurrentPrice(p float64) { s.vs.CurrentPrice = p }

func (s *Store) SetFullRange(b bool) { s.vs.FullRange = b }

func (s *Store) SetDragging(b bool) {
	s.vs.Dragging = b
	if b {
		// Hover tracking is suppressed for the whole gesture.
		s.vs.HoveredTick = -1
	} else {
		s.vs.DragStartTick = -1
		s.vs.DragCurrentTick = -1
	}
}

// SetHover records the hovered tick. Ignored while a drag is in progress to
// avoid the hover and drag handlers flapping over the same fields.
func (s *Store) SetHover(tick int) {
	if s.vs.Dragging {
		return
	}
	s.vs.HoveredTick = tick
}

func (s *Store) SetDragTicks(start, current int) {
	s.vs.DragStartTick = start
	s.vs.DragCurrentTick = current
}

func (s *Store) SetDragStartY(y float64) { s.vs.DragStartY = y }
