package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of active clients and routes messages to them.
// A user may hold several connections (multiple tabs), so clients are
// grouped per user ID.
type Hub struct {
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			log.Printf("🔌 Client connected: user %s", client.UserID)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.UserID)
					}
					log.Printf("🔌 Client disconnected: user %s", client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to every connection of one user. Returns
// false when the user has no live connection.
func (h *Hub) SendToUser(userID string, message interface{}) bool {
	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return false
	}

	h.mu.RLock()
	conns := h.clients[userID]
	delivered := false
	for client := range conns {
		select {
		case client.send <- jsonMsg:
			delivered = true
		default:
			// Buffer full or client dead
		}
	}
	h.mu.RUnlock()
	return delivered
}

// SendToUsers fans a message out to a set of users.
func (h *Hub) SendToUsers(userIDs []string, message interface{}) {
	for _, id := range userIDs {
		h.SendToUser(id, message)
	}
}
