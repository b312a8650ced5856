package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/murlisonii/NiveshSaathi/internal/service"
	"github.com/murlisonii/NiveshSaathi/internal/stream"
)

// StreamHandler upgrades clients onto the live quote stream.
type StreamHandler struct {
	hub       *stream.Hub
	marketSvc *service.MarketService
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(hub *stream.Hub, marketSvc *service.MarketService, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		hub:       hub,
		marketSvc: marketSvc,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The UI is served from a separate origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe handles GET /market/stream. The client receives the
// current quote board immediately and one frame per tick after that.
func (h *StreamHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	if err := h.hub.Prime(conn, h.marketSvc.ListQuotes()); err != nil {
		conn.Close()
		return
	}
	h.hub.Register(conn)
}
