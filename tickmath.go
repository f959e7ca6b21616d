package rangeband

import "math"

// tickBase is the constant ratio between adjacent concentrated-liquidity
// ticks: each tick is one basis point away from its neighbor.
const tickBase = 1.0001

// PriceAtTick returns 1.0001^tick.
func PriceAtTick(tick int) float64 {
	return math.Pow(tickBase, float64(tick))
}

// PriceFromReference resolves a tick to a price relative to a known
// (referenceTick, basePrice) pair: basePrice * 1.0001^(tick-referenceTick).
func PriceFromReference(basePrice float64, tick, referenceTick int) float64 {
	if basePrice <= 0 || math.IsNaN(basePrice) || math.IsInf(basePrice, 0) {
		return math.NaN()
	}
	return basePrice * math.Pow(tickBase, float64(tick-referenceTick))
}

// TickAtPrice returns the tick whose price is nearest to price. ok is false
// for non-positive or non-finite prices.
func TickAtPrice(price float64) (tick int, ok bool) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return int(math.Round(math.Log(price) / math.Log(tickBase))), true
}
