// Package ws fans session events out to websocket subscribers.
package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rssebastian/maze-game/service/i"
)

const writeTimeout = 3 * time.Second

var _ i.Notifier = &Hub{}

// Hub tracks websocket connections per session.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]map[*websocket.Conn]struct{})}
}

func (h *Hub) Add(sessionID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[sessionID]
	if !ok {
		conns = make(map[*websocket.Conn]struct{})
		h.clients[sessionID] = conns
	}
	conns[conn] = struct{}{}
}

func (h *Hub) Remove(sessionID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(sessionID, conn)
}

// Subscribers returns how many connections listen to a session.
func (h *Hub) Subscribers(sessionID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[sessionID])
}

// Broadcast writes message to every subscriber of the session, dropping
// connections that fail.
func (h *Hub) Broadcast(sessionID uuid.UUID, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[sessionID] {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			h.remove(sessionID, conn)
		}
	}
}

func (h *Hub) remove(sessionID uuid.UUID, conn *websocket.Conn) {
	conns, ok := h.clients[sessionID]
	if !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, sessionID)
	}
}
