package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/service"
)

// PortfolioHandler handles HTTP requests for session and trading
// endpoints.
type PortfolioHandler struct {
	portfolioSvc *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioSvc *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioSvc: portfolioSvc}
}

// holdingResponse is a single holding in the portfolio response.
type holdingResponse struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Shares       int64   `json:"shares"`
	AvgPrice     float64 `json:"avg_price"`
	CurrentPrice float64 `json:"current_price"`
	Change       float64 `json:"change"`
	MarketValue  float64 `json:"market_value"`
	PnL          float64 `json:"pnl"`
}

// metricsResponse is the derived-metrics block of the portfolio
// response.
type metricsResponse struct {
	TotalValue       float64 `json:"total_value"`
	TotalInvestment  float64 `json:"total_investment"`
	PnL              float64 `json:"pnl"`
	DayChange        float64 `json:"day_change"`
	DayChangePercent float64 `json:"day_change_percent"`
}

// portfolioResponse is the JSON shape of a portfolio snapshot.
type portfolioResponse struct {
	CashBalance float64           `json:"cash_balance"`
	Holdings    []holdingResponse `json:"holdings"`
	Metrics     metricsResponse   `json:"metrics"`
	RiskScore   int               `json:"risk_score"`
	TakenAt     string            `json:"taken_at"`
}

// sessionResponse is the JSON response for POST /sessions (201 Created).
type sessionResponse struct {
	SessionID string            `json:"session_id"`
	CreatedAt string            `json:"created_at"`
	Portfolio portfolioResponse `json:"portfolio"`
}

// tradeRequest is the JSON request body for POST /sessions/{id}/trades.
type tradeRequest struct {
	Side   string `json:"side"`
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// CreateSession handles POST /sessions.
func (h *PortfolioHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.portfolioSvc.CreateSession()
	WriteJSON(w, http.StatusCreated, sessionResponse{
		SessionID: sess.ID,
		CreatedAt: sess.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Portfolio: buildPortfolioResponse(sess.Ledger.Snapshot()),
	})
}

// GetPortfolio handles GET /sessions/{session_id}/portfolio.
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	snap, err := h.portfolioSvc.GetPortfolio(sessionID)
	if err != nil {
		mapPortfolioError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildPortfolioResponse(snap))
}

// Trade handles POST /sessions/{session_id}/trades.
func (h *PortfolioHandler) Trade(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	var req tradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	snap, err := h.portfolioSvc.Trade(sessionID, service.TradeRequest{
		Side:   service.TradeSide(req.Side),
		Symbol: req.Symbol,
		Shares: req.Shares,
	})
	if err != nil {
		mapPortfolioError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildPortfolioResponse(snap))
}

func buildPortfolioResponse(snap domain.PortfolioSnapshot) portfolioResponse {
	holdings := make([]holdingResponse, len(snap.Holdings))
	for i, h := range snap.Holdings {
		holdings[i] = holdingResponse{
			Symbol:       h.Symbol,
			Name:         h.Name,
			Shares:       h.Shares,
			AvgPrice:     h.AvgPrice.InexactFloat64(),
			CurrentPrice: h.CurrentPrice.InexactFloat64(),
			Change:       h.Change.InexactFloat64(),
			MarketValue:  h.MarketValue.InexactFloat64(),
			PnL:          h.PnL.InexactFloat64(),
		}
	}

	return portfolioResponse{
		CashBalance: snap.Cash.InexactFloat64(),
		Holdings:    holdings,
		Metrics: metricsResponse{
			TotalValue:       snap.Metrics.TotalValue.InexactFloat64(),
			TotalInvestment:  snap.Metrics.TotalCost.InexactFloat64(),
			PnL:              snap.Metrics.PnL.InexactFloat64(),
			DayChange:        snap.Metrics.DayChange.InexactFloat64(),
			DayChangePercent: snap.Metrics.DayChangePercent.InexactFloat64(),
		},
		RiskScore: snap.RiskScore,
		TakenAt:   snap.TakenAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// mapPortfolioError maps domain errors to HTTP responses for session
// and trade endpoints.
func mapPortfolioError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		WriteError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, domain.ErrUnknownSymbol):
		WriteError(w, http.StatusNotFound, "unknown_symbol", err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		WriteError(w, http.StatusConflict, "insufficient_funds", err.Error())
	case errors.Is(err, domain.ErrInsufficientShares):
		WriteError(w, http.StatusConflict, "insufficient_shares", err.Error())
	case errors.Is(err, domain.ErrNoSuchHolding):
		WriteError(w, http.StatusConflict, "no_such_holding", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
