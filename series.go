package rangeband

import (
	"math"
	"slices"
)

// TickEntry is one discretized price bucket of a pool's liquidity
// distribution. Price0 is the canonical ordering key and increases
// monotonically with the tick index.
type TickEntry struct {
	Tick            int     `json:"tick"`
	Price0          float64 `json:"price0"`
	Price1          float64 `json:"price1"`
	ActiveLiquidity float64 `json:"activeLiquidity"`
}

// PricePoint is one observation in a historical price series.
type PricePoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// TickSeries holds the liquidity-by-tick distribution sorted by Price0
// ascending. It is immutable once constructed; the chart only derives
// scales from it.
type TickSeries struct {
	entries      []TickEntry
	maxLiquidity float64
}

// NewTickSeries copies and sorts entries by Price0 ascending.
func NewTickSeries(entries []TickEntry) *TickSeries {
	s := &TickSeries{
		entries: slices.Clone(entries),
	}
	slices.SortFunc(s.entries, func(a, b TickEntry) int {
		switch {
		case a.Price0 < b.Price0:
			return -1
		case a.Price0 > b.Price0:
			return 1
		default:
			return 0
		}
	})
	for _, e := range s.entries {
		s.maxLiquidity = max(s.maxLiquidity, e.ActiveLiquidity)
	}
	return s
}

func (s *TickSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

func (s *TickSeries) At(i int) TickEntry {
	return s.entries[i]
}

// MaxLiquidity reports the largest ActiveLiquidity present, used to scale
// bar widths.
func (s *TickSeries) MaxLiquidity() float64 {
	if s == nil {
		return 0
	}
	return s.maxLiquidity
}

// PriceBounds reports the lowest and highest Price0 in the series.
func (s *TickSeries) PriceBounds() (minPrice, maxPrice float64, ok bool) {
	if s.Len() == 0 {
		return 0, 0, false
	}
	return s.entries[0].Price0, s.entries[len(s.entries)-1].Price0, true
}

// ClosestIndex returns the index of the entry whose Price0 is nearest to
// price, or -1 when the series is empty. Linear scan; tick counts are small.
func (s *TickSeries) ClosestIndex(price float64) int {
	if s.Len() == 0 || math.IsNaN(price) {
		return -1
	}
	best := 0
	bestDist := math.Abs(s.entries[0].Price0 - price)
	for i := 1; i < len(s.entries); i++ {
		if d := math.Abs(s.entries[i].Price0 - price); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Closest returns the entry whose Price0 is nearest to price.
func (s *TickSeries) Closest(price float64) (TickEntry, bool) {
	i := s.ClosestIndex(price)
	if i < 0 {
		return TickEntry{}, false
	}
	return s.entries[i], true
}

// IndexOfTick returns the index of the entry with the given tick id, or -1.
func (s *TickSeries) IndexOfTick(tick int) int {
	for i, e := range s.entries {
		if e.Tick == tick {
			return i
		}
	}
	return -1
}

// PriceSeries is a time-ordered historical price series.
type PriceSeries struct {
	points []PricePoint
}

// NewPriceSeries copies and sorts points by time ascending.
func NewPriceSeries(points []PricePoint) *PriceSeries {
	s := &PriceSeries{points: slices.Clone(points)}
	slices.SortFunc(s.points, func(a, b PricePoint) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		default:
			return 0
		}
	})
	return s
}

func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.points)
}

func (s *PriceSeries) At(i int) PricePoint {
	return s.points[i]
}

// Latest returns the most recent observation.
func (s *PriceSeries) Latest() (PricePoint, bool) {
	if s.Len() == 0 {
		return PricePoint{}, false
	}
	return s.points[len(s.points)-1], true
}

// TimeBounds reports the first and last observation times.
func (s *PriceSeries) TimeBounds() (first, last int64, ok bool) {
	if s.Len() == 0 {
		return 0, 0, false
	}
	return s.points[0].Time, s.points[len(s.points)-1].Time, true
}
