package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/fsnotify/fsnotify"

	"rangeband"
)

// Snapshot is one complete chart input: the liquidity distribution, the
// price history, and the live price.
type Snapshot struct {
	Ticks        []rangeband.TickEntry  `json:"ticks"`
	Prices       []rangeband.PricePoint `json:"prices"`
	CurrentPrice float64                `json:"currentPrice"`
	CurrentTick  int                    `json:"currentTick"`
	Window       string                 `json:"window"`
	Err          error                  `json:"-"`
}

// Initialized reports whether the snapshot carries drawable data.
func (s Snapshot) Initialized() bool {
	return len(s.Ticks) > 0
}

// DecodeSnapshot parses a JSON snapshot document.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if len(s.Ticks) == 0 {
		return Snapshot{}, fmt.Errorf("decode snapshot: no ticks")
	}
	for _, t := range s.Ticks {
		if t.Price0 <= 0 || math.IsNaN(t.Price0) || math.IsInf(t.Price0, 0) {
			return Snapshot{}, fmt.Errorf("decode snapshot: tick %d has invalid price0 %v", t.Tick, t.Price0)
		}
	}
	return s, nil
}

// Datasource loads pool snapshots and streams them to the UI through a skel
// mutation pool. Watched files are re-emitted whenever they change.
type Datasource struct {
	pool    *stream.MutationPool[string, Snapshot]
	watcher *fsnotify.Watcher
	appCtx  context.Context
}

func NewDatasource(appCtx context.Context, mutator *stream.Mutator) (*Datasource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}
	return &Datasource{
		pool:    stream.NewMutationPool[string, Snapshot](mutator),
		watcher: watcher,
		appCtx:  appCtx,
	}, nil
}

// Latest follows whichever source most recently started emitting.
func (d *Datasource) Latest(ctx context.Context) <-chan Snapshot {
	return stream.Multiplex(d.pool.Stream(ctx), func(ctx context.Context, state string, mutations map[string]*stream.Mutation[Snapshot]) (<-chan Snapshot, string) {
		for id, m := range mutations {
			if id == state {
				continue
			}
			state = id
			return m.Stream(ctx), state
		}
		return nil, state
	})
}

// LoadFromFile opens a snapshot chosen through the system file dialog.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) (string, error) {
	file, err := expl.ChooseFile(".json")
	if err != nil {
		return "", err
	}
	if named, ok := file.(interface{ Name() string }); ok {
		file.Close()
		return d.LoadPath(named.Name()), nil
	}
	return d.LoadReader(generateSourceID(), file), nil
}

// LoadPath loads a snapshot file and re-emits it on every write until the
// application context ends.
func (d *Datasource) LoadPath(path string) string {
	id := generateSourceID()
	stream.Mutate(d.pool, id, func(ctx context.Context) <-chan Snapshot {
		out := make(chan Snapshot, 1)
		go func() {
			defer close(out)
			emit := func() {
				snap, err := loadSnapshotFile(path)
				if err != nil {
					snap = Snapshot{Err: err}
				}
				select {
				case out <- snap:
				case <-ctx.Done():
				}
			}
			emit()
			if err := d.watcher.Add(path); err != nil {
				return
			}
			defer d.watcher.Remove(path)
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-d.watcher.Events:
					if !ok {
						return
					}
					if ev.Name == path && ev.Op.Has(fsnotify.Write) {
						emit()
					}
				}
			}
		}()
		return out
	})
	return id
}

// LoadReader decodes a single snapshot from r and emits it once.
func (d *Datasource) LoadReader(id string, r io.ReadCloser) string {
	stream.Mutate(d.pool, id, func(ctx context.Context) <-chan Snapshot {
		out := make(chan Snapshot, 1)
		go func() {
			defer close(out)
			defer r.Close()
			snap, err := DecodeSnapshot(r)
			if err != nil {
				snap = Snapshot{Err: err}
			}
			select {
			case out <- snap:
			case <-ctx.Done():
			}
		}()
		return out
	})
	return id
}

// Synthetic emits a generated snapshot and then drifts its price once per
// second, so the demo has live data without any input file.
func (d *Datasource) Synthetic(seed int64) string {
	id := generateSourceID()
	stream.Mutate(d.pool, id, func(ctx context.Context) <-chan Snapshot {
		out := make(chan Snapshot, 1)
		go func() {
			defer close(out)
			rng := rand.New(rand.NewSource(seed))
			snap := GenerateSnapshot(rng, time.Now())
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-ticker.C:
					snap = driftSnapshot(rng, snap, now)
					select {
					case out <- snap:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
		return out
	})
	return id
}

func loadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return DecodeSnapshot(f)
}

func generateSourceID() string {
	return time.Now().UTC().Format("20060102150405.000000000")
}

// GenerateSnapshot builds a plausible pool snapshot: a bell-shaped liquidity
// distribution around the current tick and a random-walk price history.
func GenerateSnapshot(rng *rand.Rand, now time.Time) Snapshot {
	const (
		tickCount   = 120
		centerTick  = 200_000
		pricePoints = 168
	)
	ticks := make([]rangeband.TickEntry, 0, tickCount)
	for i := 0; i < tickCount; i++ {
		tick := centerTick + (i-tickCount/2)*10
		price := rangeband.PriceAtTick(tick)
		dist := float64(i-tickCount/2) / float64(tickCount/2)
		liq := math.Exp(-4*dist*dist) * (0.6 + 0.4*rng.Float64()) * 1e6
		ticks = append(ticks, rangeband.TickEntry{
			Tick:            tick,
			Price0:          price,
			Price1:          1 / price,
			ActiveLiquidity: liq,
		})
	}
	current := rangeband.PriceAtTick(centerTick)
	prices := make([]rangeband.PricePoint, 0, pricePoints)
	value := current
	start := now.Add(-time.Duration(pricePoints) * time.Hour)
	for i := 0; i < pricePoints; i++ {
		value *= 1 + (rng.Float64()-0.5)*0.004
		prices = append(prices, rangeband.PricePoint{
			Time:  start.Add(time.Duration(i) * time.Hour).Unix(),
			Value: value,
		})
	}
	return Snapshot{
		Ticks:        ticks,
		Prices:       prices,
		CurrentPrice: value,
		CurrentTick:  centerTick,
		Window:       "week",
	}
}

func driftSnapshot(rng *rand.Rand, s Snapshot, now time.Time) Snapshot {
	next := s.CurrentPrice * (1 + (rng.Float64()-0.5)*0.002)
	s.CurrentPrice = next
	s.Prices = append(s.Prices, rangeband.PricePoint{Time: now.Unix(), Value: next})
	if tick, ok := rangeband.TickAtPrice(next); ok {
		s.CurrentTick = tick
	}
	return s
}
