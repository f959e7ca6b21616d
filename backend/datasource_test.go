package backend

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestDecodeSnapshot(t *testing.T) {
	const doc = `{
		"ticks": [
			{"tick": 100, "price0": 1.01, "price1": 0.99, "activeLiquidity": 500},
			{"tick": 110, "price0": 1.011, "price1": 0.989, "activeLiquidity": 700}
		],
		"prices": [
			{"time": 1700000000, "value": 1.0105}
		],
		"currentPrice": 1.0105,
		"currentTick": 105,
		"window": "day"
	}`
	snap, err := DecodeSnapshot(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(snap.Ticks) != 2 {
		t.Errorf("expected 2 ticks, got %d", len(snap.Ticks))
	}
	if len(snap.Prices) != 1 {
		t.Errorf("expected 1 price point, got %d", len(snap.Prices))
	}
	if snap.CurrentPrice != 1.0105 || snap.CurrentTick != 105 {
		t.Errorf("unexpected current price/tick: %f / %d", snap.CurrentPrice, snap.CurrentTick)
	}
	if snap.Window != "day" {
		t.Errorf("expected window %q, got %q", "day", snap.Window)
	}
	if !snap.Initialized() {
		t.Errorf("decoded snapshot should be initialized")
	}
}

func TestDecodeSnapshotRejectsBadInput(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
	}{
		{name: "malformed json", doc: `{"ticks": [`},
		{name: "no ticks", doc: `{"ticks": [], "currentPrice": 1}`},
		{name: "zero price", doc: `{"ticks": [{"tick": 1, "price0": 0}]}`},
		{name: "negative price", doc: `{"ticks": [{"tick": 1, "price0": -5}]}`},
	} {
		if _, err := DecodeSnapshot(strings.NewReader(tc.doc)); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
}

func TestGenerateSnapshot(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	now := time.Unix(1_700_000_000, 0)
	snap := GenerateSnapshot(rng, now)

	if !snap.Initialized() {
		t.Fatalf("generated snapshot should be initialized")
	}
	if len(snap.Ticks) != 120 {
		t.Errorf("expected 120 ticks, got %d", len(snap.Ticks))
	}
	for i, tk := range snap.Ticks {
		if tk.Price0 <= 0 {
			t.Fatalf("tick %d has non-positive price %f", i, tk.Price0)
		}
		if tk.ActiveLiquidity <= 0 {
			t.Fatalf("tick %d has non-positive liquidity %f", i, tk.ActiveLiquidity)
		}
		if i > 0 && tk.Price0 <= snap.Ticks[i-1].Price0 {
			t.Fatalf("tick prices should increase, tick %d does not", i)
		}
	}
	if len(snap.Prices) != 168 {
		t.Errorf("expected 168 price points, got %d", len(snap.Prices))
	}
	for i := 1; i < len(snap.Prices); i++ {
		if snap.Prices[i].Time <= snap.Prices[i-1].Time {
			t.Fatalf("price times should increase, point %d does not", i)
		}
	}
	if snap.CurrentPrice <= 0 {
		t.Errorf("current price should be positive, got %f", snap.CurrentPrice)
	}
	if snap.CurrentPrice != snap.Prices[len(snap.Prices)-1].Value {
		t.Errorf("current price should match the latest observation")
	}
	if snap.Window != "week" {
		t.Errorf("expected window %q, got %q", "week", snap.Window)
	}
}

func TestDriftSnapshot(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	now := time.Unix(1_700_000_000, 0)
	snap := GenerateSnapshot(rng, now)
	before := len(snap.Prices)

	next := driftSnapshot(rng, snap, now.Add(time.Second))
	if len(next.Prices) != before+1 {
		t.Errorf("drift should append one price point, got %d -> %d", before, len(next.Prices))
	}
	if next.CurrentPrice <= 0 {
		t.Errorf("drifted price should stay positive, got %f", next.CurrentPrice)
	}
	last := next.Prices[len(next.Prices)-1]
	if last.Value != next.CurrentPrice {
		t.Errorf("latest point should carry the drifted price")
	}
	if last.Time != now.Add(time.Second).Unix() {
		t.Errorf("latest point should carry the drift time")
	}
}
