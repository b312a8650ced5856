package service

import (
	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/store"
)

// MarketService serves the simulated quote board.
type MarketService struct {
	quotes *store.QuoteStore
}

// NewMarketService creates a new MarketService.
func NewMarketService(quotes *store.QuoteStore) *MarketService {
	return &MarketService{quotes: quotes}
}

// ListQuotes returns the current quotes for the whole universe,
// sorted by symbol.
func (s *MarketService) ListQuotes() []domain.Instrument {
	return s.quotes.List()
}

// GetQuote returns the current quote for one symbol. It returns
// domain.ErrUnknownSymbol for symbols outside the universe.
func (s *MarketService) GetQuote(symbol string) (domain.Instrument, error) {
	q, ok := s.quotes.Get(symbol)
	if !ok {
		return domain.Instrument{}, domain.ErrUnknownSymbol
	}
	return q, nil
}
