package rangeband

import (
	"math"
	"testing"
)

func TestPriceAtTick(t *testing.T) {
	if got := PriceAtTick(0); got != 1 {
		t.Errorf("PriceAtTick(0) = %f, want 1", got)
	}
	if got := PriceAtTick(1); math.Abs(got-1.0001) > 1e-12 {
		t.Errorf("PriceAtTick(1) = %f, want 1.0001", got)
	}
	if got := PriceAtTick(-1); math.Abs(got-1/1.0001) > 1e-12 {
		t.Errorf("PriceAtTick(-1) = %f, want %f", got, 1/1.0001)
	}
}

func TestTickAtPriceRoundTrip(t *testing.T) {
	for _, tick := range []int{-100_000, -1, 0, 1, 500, 200_000} {
		price := PriceAtTick(tick)
		got, ok := TickAtPrice(price)
		if !ok {
			t.Errorf("TickAtPrice(%g) should be ok for tick %d", price, tick)
			continue
		}
		if got != tick {
			t.Errorf("TickAtPrice(PriceAtTick(%d)) = %d", tick, got)
		}
	}
}

func TestTickAtPriceInvalid(t *testing.T) {
	for _, price := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, ok := TickAtPrice(price); ok {
			t.Errorf("TickAtPrice(%v) should not be ok", price)
		}
	}
}

func TestPriceFromReference(t *testing.T) {
	got := PriceFromReference(100, 1, 0)
	if math.Abs(got-100*1.0001) > 1e-9 {
		t.Errorf("PriceFromReference(100, 1, 0) = %f, want %f", got, 100*1.0001)
	}
	if got := PriceFromReference(100, 5, 5); got != 100 {
		t.Errorf("same tick as reference should return the base price, got %f", got)
	}
	for _, base := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := PriceFromReference(base, 1, 0); !math.IsNaN(got) {
			t.Errorf("PriceFromReference(%v, 1, 0) = %f, want NaN", base, got)
		}
	}
}
