package domain

import "github.com/shopspring/decimal"

// Instrument is a tradable symbol with its current simulated quote.
// Price/change fields are mutated only by the quote feed; everything
// else reads them through snapshots.
type Instrument struct {
	Symbol        string
	Name          string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
}

// DefaultUniverse returns the fixed instrument set the simulator
// ticks over, with its opening quotes. There is no external market
// data source; these are the seed values.
func DefaultUniverse() []Instrument {
	return []Instrument{
		{Symbol: "RELIANCE", Name: "Reliance Industries", Price: decimal.RequireFromString("2850.75"), Change: decimal.RequireFromString("30.25"), ChangePercent: decimal.RequireFromString("1.07")},
		{Symbol: "TCS", Name: "Tata Consultancy Services", Price: decimal.RequireFromString("3805.10"), Change: decimal.RequireFromString("-15.40"), ChangePercent: decimal.RequireFromString("-0.40")},
		{Symbol: "HDFCBANK", Name: "HDFC Bank Ltd.", Price: decimal.RequireFromString("1650.00"), Change: decimal.RequireFromString("12.80"), ChangePercent: decimal.RequireFromString("0.78")},
		{Symbol: "INFY", Name: "Infosys Ltd.", Price: decimal.RequireFromString("1510.55"), Change: decimal.RequireFromString("-5.90"), ChangePercent: decimal.RequireFromString("-0.39")},
		{Symbol: "ICICIBANK", Name: "ICICI Bank Ltd.", Price: decimal.RequireFromString("1125.30"), Change: decimal.RequireFromString("25.15"), ChangePercent: decimal.RequireFromString("2.29")},
		{Symbol: "SBIN", Name: "State Bank of India", Price: decimal.RequireFromString("830.90"), Change: decimal.RequireFromString("-2.10"), ChangePercent: decimal.RequireFromString("-0.25")},
	}
}
