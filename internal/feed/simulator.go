// Package feed simulates market movement for the fixed instrument
// universe. There is no external data source; each tick applies a
// bounded random drift to every instrument's price.
package feed

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/store"
	"github.com/shopspring/decimal"
)

// maxDrop caps the per-tick fractional change so a price can never
// reach zero or below regardless of the configured bound.
const maxDrop = -0.99

var (
	hundred  = decimal.NewFromInt(100)
	minPrice = decimal.RequireFromString("0.01")
)

// TickListener receives the full quote snapshot produced by a tick.
type TickListener interface {
	OnTick(quotes []domain.Instrument)
}

// Simulator produces randomized per-tick price movements. The drift
// for each instrument is drawn uniformly from [-bound, +bound]; the
// bound is configured once and applied to every tick.
type Simulator struct {
	interval  time.Duration
	bound     float64
	rng       *rand.Rand
	quotes    *store.QuoteStore
	listeners []TickListener
}

// NewSimulator creates a simulator over the given quote store. The
// listeners are notified after every tick, in order, with the snapshot
// that was just written.
func NewSimulator(interval time.Duration, bound float64, quotes *store.QuoteStore, listeners ...TickListener) *Simulator {
	return &Simulator{
		interval:  interval,
		bound:     bound,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		quotes:    quotes,
		listeners: listeners,
	}
}

// Tick advances every instrument by one randomized price movement and
// publishes the resulting snapshot. New price = old price × (1 + f)
// with f uniform in [-bound, +bound], rounded to 2 decimal places with
// a floor of 0.01 so prices stay strictly positive. Always succeeds.
func (s *Simulator) Tick() []domain.Instrument {
	current := s.quotes.List()
	next := make([]domain.Instrument, len(current))

	for i, q := range current {
		f := (s.rng.Float64()*2 - 1) * s.bound
		if f < maxDrop {
			f = maxDrop
		}

		oldPrice := q.Price
		newPrice := oldPrice.Mul(decimal.NewFromFloat(1 + f)).Round(2)
		if newPrice.LessThan(minPrice) {
			newPrice = minPrice
		}
		change := newPrice.Sub(oldPrice)

		q.Price = newPrice
		q.Change = change
		q.ChangePercent = change.Div(oldPrice).Mul(hundred)
		next[i] = q
	}

	s.quotes.Replace(next)
	for _, l := range s.listeners {
		l.OnTick(next)
	}
	return next
}

// Start launches a background goroutine that ticks at the configured
// interval. It stops when ctx is cancelled; no dangling timers.
func (s *Simulator) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}
