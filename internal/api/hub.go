package api

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Conn is one websocket player. Writes are serialized.
type Conn struct {
	ID string
	ws *websocket.Conn

	mu     sync.Mutex // protects ws writes and closed
	closed bool
}

// NewConn wraps a websocket with a fresh connection ID.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ID: uuid.NewString(),
		ws: ws,
	}
}

// Send serializes msg to JSON and writes it. Sends after Close are dropped.
func (c *Conn) Send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.ws.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close sends a close frame with the given reason and closes the socket. Idempotent.
func (c *Conn) Close(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	//nolint:errcheck // Best-effort close frame
	c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	c.ws.Close()
}

// Hub tracks live websocket games.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*Conn)}
}

// TryAdd registers a connection unless the hub already holds limit of them.
// A limit of zero means unlimited.
func (h *Hub) TryAdd(c *Conn, limit int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if limit > 0 && len(h.conns) >= limit {
		return false
	}
	h.conns[c.ID] = c
	return true
}

// Remove unregisters a connection.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// CloseAll closes every live connection.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	list := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		list = append(list, c)
	}
	h.mu.RUnlock()

	for _, c := range list {
		c.Close(websocket.CloseGoingAway, "server shutting down")
	}
}
