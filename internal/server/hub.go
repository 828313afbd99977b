package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/avescod/crossarb/internal/logger"
)

const (
	// writeWait is the maximum time to wait for a write to complete.
	writeWait = 10 * time.Second

	// pingPeriod sends pings at this interval to keep idle connections open.
	pingPeriod = 30 * time.Second

	// sendBufferSize is the channel buffer for outgoing messages per client.
	sendBufferSize = 256
)

// Envelope is the JSON wrapper for every message pushed to dashboard clients.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// client represents a single WebSocket connection.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub manages connected dashboard clients and fans events out to all of
// them. Slow clients get messages dropped, never the whole stream blocked.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex
	logger     logger.LoggerInterface
	startedAt  time.Time
}

// NewHub creates a hub. Run must be started for Broadcast to have effect.
func NewHub(log logger.LoggerInterface) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		logger:     log,
		startedAt:  time.Now().UTC(),
	}
}

// Run is the hub's event loop. It exits when the context is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return ctx.Err()

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info(ctx, "ws client connected", "totalClients", total)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info(ctx, "ws client disconnected", "totalClients", total)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Send buffer full; the client is too slow to keep up.
					h.logger.Warn(ctx, "dropping message for slow ws client")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast marshals an envelope and queues it for all connected clients.
// Marshal failures are logged and swallowed; one bad payload must not take
// down the event stream.
func (h *Hub) Broadcast(eventType string, payload any) {
	data, err := json.Marshal(Envelope{Type: eventType, Payload: payload})
	if err != nil {
		h.logger.Error(context.Background(), "failed to marshal ws event",
			"type", eventType, "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// HandleWS upgrades an HTTP request and registers the client.
// GET /ws
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The dashboard may be served from another origin during development.
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error(r.Context(), "ws accept failed", "error", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register <- c

	go c.writePump(h)
	go c.readPump(h)
}

// writePump pumps queued messages and periodic pings to the connection.
func (c *client) writePump(h *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// readPump drains inbound frames until the client disconnects. The stream is
// push-only; client frames are discarded.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
	}()

	for {
		if _, _, err := c.conn.Read(context.Background()); err != nil {
			return
		}
	}
}
