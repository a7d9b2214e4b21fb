package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/amterp/teams/internal/engine"
	"github.com/amterp/teams/internal/model"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// Message types pushed to clients.
const (
	MessageState         = "state"
	MessageNamesReloaded = "names_reloaded"
)

// StateRenderer turns a session at a revision into the payload sent to clients.
type StateRenderer func(s model.Session, revision uint64) any

// WebSocketHub manages WebSocket connections and broadcasts session changes.
type WebSocketHub struct {
	mu      sync.RWMutex
	clients map[*WebSocketClient]bool
	closed  bool

	render  StateRenderer
	current func() (model.Session, uint64)
	logger  *zap.Logger

	// lastRevision drops changes delivered out of order by concurrent dispatches.
	revMu        sync.Mutex
	lastRevision uint64
}

// WebSocketClient represents a connected WebSocket client.
type WebSocketClient struct {
	hub  *WebSocketHub
	conn *websocket.Conn
	send chan []byte
}

// WebSocketMessage is the JSON message sent to clients.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NewWebSocketHub creates a new WebSocket hub. current supplies the state
// sent to a client right after it connects.
func NewWebSocketHub(render StateRenderer, current func() (model.Session, uint64), logger *zap.Logger) *WebSocketHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHub{
		clients: make(map[*WebSocketClient]bool),
		render:  render,
		current: current,
		logger:  logger,
	}
}

// OnChange implements engine.Subscriber.
func (h *WebSocketHub) OnChange(change engine.Change) {
	h.revMu.Lock()
	if change.Revision <= h.lastRevision {
		h.revMu.Unlock()
		return
	}
	h.lastRevision = change.Revision
	h.revMu.Unlock()

	data, err := h.encode(MessageState, h.render(change.State, change.Revision))
	if err != nil {
		h.logger.Warn("failed to marshal state", zap.Error(err))
		return
	}
	h.broadcast(data)
}

// OnNamesChange implements NamesSubscriber.
func (h *WebSocketHub) OnNamesChange(change NamesChange) {
	data, err := h.encode(MessageNamesReloaded, change)
	if err != nil {
		h.logger.Warn("failed to marshal names change", zap.Error(err))
		return
	}
	h.broadcast(data)
}

func (h *WebSocketHub) encode(msgType string, payload any) ([]byte, error) {
	return json.Marshal(WebSocketMessage{Type: msgType, Data: payload})
}

// broadcast sends a message to all connected clients.
func (h *WebSocketHub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*WebSocketClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.trySend(client, data)
	}
}

// trySend attempts to send data to a client, handling the case where
// the client's channel was closed between snapshot and send.
func (h *WebSocketHub) trySend(client *WebSocketClient, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed by removeClient - client already cleaned up
		}
	}()

	select {
	case client.send <- data:
	default:
		// Client buffer full, close it
		h.removeClient(client)
	}
}

func (h *WebSocketHub) addClient(client *WebSocketClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[client] = true
	return true
}

// register adds client and queues the current state for it. The client is
// added first so no change lands between the snapshot and registration;
// clients order messages by revision.
func (h *WebSocketHub) register(client *WebSocketClient) bool {
	if !h.addClient(client) {
		return false
	}
	s, rev := h.current()
	data, err := h.encode(MessageState, h.render(s, rev))
	if err != nil {
		h.logger.Warn("failed to marshal state", zap.Error(err))
		return true
	}
	h.trySend(client, data)
	return true
}

func (h *WebSocketHub) removeClient(client *WebSocketClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// Close disconnects every client and refuses new ones.
func (h *WebSocketHub) Close() {
	h.mu.Lock()
	h.closed = true
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// ServeWS handles WebSocket connection requests.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &WebSocketClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	if !h.register(client) {
		conn.Close()
		return
	}

	// Start read/write goroutines
	go client.writePump()
	go client.readPump()
}

// readPump reads messages from the WebSocket connection.
// We don't expect client messages, but we need to read to detect disconnects.
func (c *WebSocketClient) readPump() {
	defer func() {
		// Only call removeClient here - closing send channel signals writePump to exit
		// writePump is responsible for closing the connection
		c.hub.removeClient(c)
	}()

	c.conn.SetReadLimit(512) // Small limit since we don't expect large messages
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", zap.Error(err))
			}
			break
		}
	}
}

// writePump writes messages to the WebSocket connection.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(30 * time.Second) // Ping interval
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Send each message as its own WebSocket frame (not batched)
			// This ensures the frontend receives valid JSON for each message
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
