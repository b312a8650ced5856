// Package stream pushes quote ticks to websocket subscribers so the
// trading view updates without polling.
package stream

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/murlisonii/NiveshSaathi/internal/domain"
)

const (
	writeWait = 5 * time.Second
	// Buffered frames per client; slow consumers are dropped rather
	// than blocking the tick loop.
	sendBuffer = 8
)

// quoteFrame is the JSON frame broadcast on every tick.
type quoteFrame struct {
	Type   string       `json:"type"`
	Quotes []quoteEntry `json:"quotes"`
	At     string       `json:"at"`
}

type quoteEntry struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// Hub tracks websocket subscribers and fans quote snapshots out to
// them. It implements the feed's TickListener.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
	logger  *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan []byte),
		logger:  logger,
	}
}

// Register adds a subscriber and starts its write pump. The hub owns
// the connection from this point on and closes it when the client
// falls behind or the write fails.
func (h *Hub) Register(conn *websocket.Conn) {
	ch := make(chan []byte, sendBuffer)

	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	go h.writePump(conn, ch)
}

// writePump serializes writes for one subscriber.
func (h *Hub) writePump(conn *websocket.Conn, ch chan []byte) {
	defer func() {
		h.unregister(conn)
		conn.Close()
	}()

	for msg := range ch {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("stream write failed", slog.String("error", err.Error()))
			return
		}
	}
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
}

// Prime writes the current quote board to a connection before it is
// registered, so new subscribers don't wait a full tick for data. Must
// be called before Register; after registration the write pump owns
// the connection.
func (h *Hub) Prime(conn *websocket.Conn, quotes []domain.Instrument) error {
	msg, err := json.Marshal(buildFrame(quotes))
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, msg)
}

// SubscriberCount returns the number of connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func buildFrame(quotes []domain.Instrument) quoteFrame {
	frame := quoteFrame{
		Type:   "quotes",
		Quotes: make([]quoteEntry, len(quotes)),
		At:     time.Now().UTC().Format(time.RFC3339),
	}
	for i, q := range quotes {
		frame.Quotes[i] = quoteEntry{
			Symbol:        q.Symbol,
			Name:          q.Name,
			Price:         q.Price.InexactFloat64(),
			Change:        q.Change.InexactFloat64(),
			ChangePercent: q.ChangePercent.InexactFloat64(),
		}
	}
	return frame
}

// OnTick broadcasts the quote snapshot to all subscribers. Clients
// whose buffers are full are disconnected.
func (h *Hub) OnTick(quotes []domain.Instrument) {
	msg, err := json.Marshal(buildFrame(quotes))
	if err != nil {
		h.logger.Error("marshal quote frame", slog.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	var stale []*websocket.Conn
	for conn, ch := range h.clients {
		select {
		case ch <- msg:
		default:
			stale = append(stale, conn)
		}
	}
	for _, conn := range stale {
		if ch, ok := h.clients[conn]; ok {
			delete(h.clients, conn)
			close(ch)
		}
	}
	h.mu.Unlock()
}
