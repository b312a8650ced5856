// Package ledger implements the in-memory portfolio core: cash,
// holdings, and derived metrics under buy/sell operations and price
// updates. Metrics are recomputed under the same lock as the mutation,
// so a snapshot is never stale relative to the cash and holdings that
// produced it.
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultRiskScore is the mid-range score a ledger starts with before
// the risk questionnaire has been completed.
const DefaultRiskScore = 50

// Ledger owns one session's cash balance and holdings. It is safe for
// concurrent use; all mutations go through its methods.
type Ledger struct {
	mu        sync.Mutex
	cash      decimal.Decimal
	holdings  map[string]*domain.Holding
	quotes    map[string]domain.Instrument
	metrics   domain.Metrics
	riskScore int
}

// New creates a ledger with the given cash balance, the current quote
// view, and an optional seed portfolio. Seed holdings for symbols
// absent from the quote view are ignored.
func New(initialCash decimal.Decimal, quotes []domain.Instrument, seed []domain.Holding) *Ledger {
	l := &Ledger{
		cash:      initialCash,
		holdings:  make(map[string]*domain.Holding),
		quotes:    make(map[string]domain.Instrument),
		riskScore: DefaultRiskScore,
	}
	for _, q := range quotes {
		l.quotes[q.Symbol] = q
	}
	for _, h := range seed {
		if _, ok := l.quotes[h.Symbol]; !ok {
			continue
		}
		if h.Shares <= 0 {
			continue
		}
		hc := h
		l.holdings[h.Symbol] = &hc
	}
	l.recompute()
	return l
}

// Buy purchases shares at the current quoted price. It fails with
// domain.ErrUnknownSymbol for symbols outside the quote view and
// domain.ErrInsufficientFunds when the cost exceeds the cash balance.
// No state changes on failure. Add-on lots recompute the holding's
// average price as the weighted average of the old lot and the new one.
func (l *Ledger) Buy(symbol string, shares int64) (domain.PortfolioSnapshot, error) {
	if shares <= 0 {
		return domain.PortfolioSnapshot{}, &domain.ValidationError{Message: "shares must be a positive integer"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	quote, ok := l.quotes[symbol]
	if !ok {
		return domain.PortfolioSnapshot{}, domain.ErrUnknownSymbol
	}

	cost := quote.Price.Mul(decimal.NewFromInt(shares))
	if cost.GreaterThan(l.cash) {
		return domain.PortfolioSnapshot{}, domain.ErrInsufficientFunds
	}

	l.cash = l.cash.Sub(cost)
	if h, ok := l.holdings[symbol]; ok {
		oldShares := decimal.NewFromInt(h.Shares)
		newShares := decimal.NewFromInt(shares)
		total := decimal.NewFromInt(h.Shares + shares)
		h.AvgPrice = oldShares.Mul(h.AvgPrice).Add(newShares.Mul(quote.Price)).Div(total)
		h.Shares += shares
	} else {
		l.holdings[symbol] = &domain.Holding{
			Symbol:   symbol,
			Shares:   shares,
			AvgPrice: quote.Price,
		}
	}

	l.recompute()
	return l.snapshotLocked(), nil
}

// Sell disposes of shares at the current quoted price. It fails with
// domain.ErrNoSuchHolding when the symbol isn't held and
// domain.ErrInsufficientShares when more shares are requested than
// held. No state changes on failure. Selling the full position removes
// the holding; partial sales leave the average price untouched.
func (l *Ledger) Sell(symbol string, shares int64) (domain.PortfolioSnapshot, error) {
	if shares <= 0 {
		return domain.PortfolioSnapshot{}, &domain.ValidationError{Message: "shares must be a positive integer"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	h, ok := l.holdings[symbol]
	if !ok {
		return domain.PortfolioSnapshot{}, domain.ErrNoSuchHolding
	}
	if shares > h.Shares {
		return domain.PortfolioSnapshot{}, domain.ErrInsufficientShares
	}

	quote, ok := l.quotes[symbol]
	if !ok {
		return domain.PortfolioSnapshot{}, domain.ErrUnknownSymbol
	}

	income := quote.Price.Mul(decimal.NewFromInt(shares))
	l.cash = l.cash.Add(income)
	if shares == h.Shares {
		delete(l.holdings, symbol)
	} else {
		h.Shares -= shares
	}

	l.recompute()
	return l.snapshotLocked(), nil
}

// ApplyPriceUpdate replaces the ledger's quote view and recomputes the
// derived metrics. Holdings' share counts and average prices are never
// touched by price updates.
func (l *Ledger) ApplyPriceUpdate(quotes []domain.Instrument) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.quotes = make(map[string]domain.Instrument, len(quotes))
	for _, q := range quotes {
		l.quotes[q.Symbol] = q
	}
	l.recompute()
}

// SetRiskScore stores the risk score. Pure assignment; range is the
// risk profiler's convention (0–100), not enforced here.
func (l *Ledger) SetRiskScore(score int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.riskScore = score
}

// Snapshot returns a consistent view of the ledger.
func (l *Ledger) Snapshot() domain.PortfolioSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// recompute rebuilds the derived metrics from holdings and quotes.
// Callers must hold l.mu.
func (l *Ledger) recompute() {
	var m domain.Metrics
	m.TotalValue = decimal.Zero
	m.TotalCost = decimal.Zero
	m.DayChange = decimal.Zero

	for symbol, h := range l.holdings {
		quote, ok := l.quotes[symbol]
		if !ok {
			continue
		}
		shares := decimal.NewFromInt(h.Shares)
		m.TotalValue = m.TotalValue.Add(quote.Price.Mul(shares))
		m.TotalCost = m.TotalCost.Add(h.AvgPrice.Mul(shares))
		m.DayChange = m.DayChange.Add(quote.Change.Mul(shares))
	}

	m.PnL = m.TotalValue.Sub(m.TotalCost)
	if m.TotalCost.IsPositive() {
		m.DayChangePercent = m.DayChange.Div(m.TotalCost).Mul(decimal.NewFromInt(100))
	} else {
		m.DayChangePercent = decimal.Zero
	}
	l.metrics = m
}

// snapshotLocked builds a snapshot. Callers must hold l.mu.
func (l *Ledger) snapshotLocked() domain.PortfolioSnapshot {
	views := make([]domain.HoldingView, 0, len(l.holdings))
	for symbol, h := range l.holdings {
		quote := l.quotes[symbol]
		shares := decimal.NewFromInt(h.Shares)
		marketValue := quote.Price.Mul(shares)
		views = append(views, domain.HoldingView{
			Symbol:       symbol,
			Name:         quote.Name,
			Shares:       h.Shares,
			AvgPrice:     h.AvgPrice,
			CurrentPrice: quote.Price,
			Change:       quote.Change,
			MarketValue:  marketValue,
			PnL:          marketValue.Sub(h.AvgPrice.Mul(shares)),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Symbol < views[j].Symbol })

	return domain.PortfolioSnapshot{
		Cash:      l.cash,
		Holdings:  views,
		Metrics:   l.metrics,
		RiskScore: l.riskScore,
		TakenAt:   time.Now(),
	}
}
