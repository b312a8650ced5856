package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/murlisonii/NiveshSaathi/internal/domain"
	"github.com/murlisonii/NiveshSaathi/internal/service"
)

// MarketHandler handles HTTP requests for quote endpoints.
type MarketHandler struct {
	marketSvc *service.MarketService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketSvc *service.MarketService) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc}
}

// quoteResponse is the JSON shape of one instrument quote.
type quoteResponse struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// ListQuotes handles GET /market/quotes.
func (h *MarketHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes := h.marketSvc.ListQuotes()
	resp := make([]quoteResponse, len(quotes))
	for i, q := range quotes {
		resp[i] = buildQuoteResponse(q)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetQuote handles GET /market/quotes/{symbol}.
func (h *MarketHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	q, err := h.marketSvc.GetQuote(symbol)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownSymbol) {
			WriteError(w, http.StatusNotFound, "unknown_symbol", err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	WriteJSON(w, http.StatusOK, buildQuoteResponse(q))
}

func buildQuoteResponse(q domain.Instrument) quoteResponse {
	return quoteResponse{
		Symbol:        q.Symbol,
		Name:          q.Name,
		Price:         q.Price.InexactFloat64(),
		Change:        q.Change.InexactFloat64(),
		ChangePercent: q.ChangePercent.InexactFloat64(),
	}
}
