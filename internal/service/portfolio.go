package service

import (
	"fmt"
	"regexp"

	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/store"
)

var symbolRegex = regexp.MustCompile(`^[A-Z]{1,10}$`)

// TradeSide is the direction of a simulated trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// TradeRequest represents the input for a simulated trade.
type TradeRequest struct {
	Side   TradeSide
	Symbol string
	Shares int64
}

// PortfolioService handles session creation and the simulated trading
// arena's buy/sell operations.
type PortfolioService struct {
	sessions *store.SessionStore
	quotes   *store.QuoteStore
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(sessions *store.SessionStore, quotes *store.QuoteStore) *PortfolioService {
	return &PortfolioService{
		sessions: sessions,
		quotes:   quotes,
	}
}

// CreateSession starts a new session with the seeded portfolio and the
// current quote view.
func (s *PortfolioService) CreateSession() *store.Session {
	return s.sessions.Create(s.quotes.List())
}

// GetPortfolio returns a consistent snapshot of a session's ledger.
func (s *PortfolioService) GetPortfolio(sessionID string) (domain.PortfolioSnapshot, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return domain.PortfolioSnapshot{}, err
	}
	return sess.Ledger.Snapshot(), nil
}

// Trade validates the request and applies a buy or sell to the
// session's ledger, returning the post-trade snapshot.
func (s *PortfolioService) Trade(sessionID string, req TradeRequest) (domain.PortfolioSnapshot, error) {
	if req.Side != TradeSideBuy && req.Side != TradeSideSell {
		return domain.PortfolioSnapshot{}, &domain.ValidationError{
			Message: fmt.Sprintf("Unknown trade side: %s. Must be one of: buy, sell", req.Side),
		}
	}
	if !symbolRegex.MatchString(req.Symbol) {
		return domain.PortfolioSnapshot{}, &domain.ValidationError{
			Message: "symbol must match ^[A-Z]{1,10}$",
		}
	}
	if req.Shares <= 0 {
		return domain.PortfolioSnapshot{}, &domain.ValidationError{
			Message: "shares must be a positive integer",
		}
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return domain.PortfolioSnapshot{}, err
	}

	if req.Side == TradeSideBuy {
		return sess.Ledger.Buy(req.Symbol, req.Shares)
	}
	return sess.Ledger.Sell(req.Symbol, req.Shares)
}
