/*
Package api
File: hub.go
Description:
    The WebSocket Hub pushes change notifications to every connected client
    (saved or deleted loadouts, session settings edits, catalog reloads) so
    open editors can refresh.

    Architecture:
    - Hub: owns the client registry; only Run touches it.
    - Client: one browser connection with its own buffered send queue.
    - ServeWs: upgrades a GET request and starts the client's pumps.

    Run exits when its context is cancelled, closing every client queue.
*/

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event types pushed over the socket.
const (
	EventLoadoutSaved           = "loadout_saved"
	EventLoadoutDeleted         = "loadout_deleted"
	EventSessionSettingsUpdated = "session_settings_updated"
	EventCatalogReloaded        = "catalog_reloaded"
	EventDefaultsReloaded       = "defaults_reloaded"
)

const (
	writeWait      = 10 * time.Second
	sendQueueSize  = 256
	broadcastQueue = 64
)

// Message is the JSON envelope of every real-time event.
type Message struct {
	Type    string `json:"type"`    // One of the Event* constants
	Payload any    `json:"payload"` // Event body
	Sender  string `json:"sender"`  // "system" or the user who caused the event
}

// Client is one connected browser tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *zap.Logger
}

// NewHub creates a Hub. Call Run to start delivering messages.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, broadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub's event loop. It blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.logger.Info("websocket hub stopped")
			return nil

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Debug("websocket client registered", zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than stall everyone
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish queues an event for every connected client. It never blocks: when
// the queue is full or the hub has stopped the event is dropped.
func (h *Hub) Publish(eventType, sender string, payload any) {
	data, err := json.Marshal(Message{Type: eventType, Payload: payload, Sender: sender})
	if err != nil {
		h.logger.Error("marshal websocket event", zap.String("type", eventType), zap.Error(err))
		return
	}
	select {
	case <-h.done:
	case h.broadcast <- data:
	default:
		h.logger.Warn("websocket broadcast queue full, event dropped", zap.String("type", eventType))
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendQueueSize)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains (and ignores) inbound frames so close frames are noticed.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump writes queued messages until the hub closes the queue.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
