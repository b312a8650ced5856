package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding represents a position in a single instrument. Shares is
// always > 0 while the holding is present in a ledger; a position
// sold down to zero is removed entirely.
type Holding struct {
	Symbol   string
	Shares   int64
	AvgPrice decimal.Decimal
}

// HoldingView is a holding joined with its current quote, as exposed
// in portfolio snapshots.
type HoldingView struct {
	Symbol       string
	Name         string
	Shares       int64
	AvgPrice     decimal.Decimal
	CurrentPrice decimal.Decimal
	Change       decimal.Decimal
	MarketValue  decimal.Decimal
	PnL          decimal.Decimal
}

// Metrics holds the derived portfolio figures. They are recomputed
// synchronously after every ledger mutation and price update.
type Metrics struct {
	TotalValue       decimal.Decimal
	TotalCost        decimal.Decimal
	PnL              decimal.Decimal
	DayChange        decimal.Decimal
	DayChangePercent decimal.Decimal
}

// PortfolioSnapshot is a consistent read of a ledger: cash, holdings
// with current quotes, derived metrics, and the stored risk score.
type PortfolioSnapshot struct {
	Cash      decimal.Decimal
	Holdings  []HoldingView
	Metrics   Metrics
	RiskScore int
	TakenAt   time.Time
}
