package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Sathwik84/charge-ease-find/internal/models"
)

const (
	writeTimeout = 5 * time.Second
	sendBuffer   = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// SelectionEvent is pushed to observers whenever the selected station
// changes. Station is null when the selection was cleared.
type SelectionEvent struct {
	Type    string          `json:"type"`
	Station *models.Station `json:"station"`
}

// Hub broadcasts selection changes to any number of connected observers
// (station list, map renderer).
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHub builds the hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// HandleWS upgrades the request and registers the observer until its
// connection drops.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("selection observer connected")

	go h.writePump(c)
	h.readPump(c)
}

// SelectionChanged implements service.SelectionObserver.
func (h *Hub) SelectionChanged(station *models.Station) {
	payload, err := json.Marshal(SelectionEvent{Type: "selection", Station: station})
	if err != nil {
		h.logger.Warn("failed to encode selection event", zap.Error(err))
		return
	}

	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("dropping selection event, observer buffer full")
		}
	}
	h.mu.Unlock()
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(512)
	for {
		// observers only listen; reads just detect the close
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.send)
	_ = c.conn.Close()
	h.logger.Info("selection observer disconnected")
}
