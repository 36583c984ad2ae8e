package realtime

import (
	"log"
	"sync"

	"github.com/rhamilton21/rememora-web/internal/models"
)

// Event kinds pushed over the realtime channel
const (
	EventNotificationCreated = "notification_created"
	EventNotificationUpdated = "notification_updated"
)

// Event is the wire shape sent to connected clients
type Event struct {
	Kind         string               `json:"kind"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// Hub tracks open WebSocket connections per user and fans events out to
// them. Delivery is best-effort: a client with a full send buffer is dropped
// and expected to reconnect and refetch.
type Hub struct {
	clients    map[uint]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister events. Call in a goroutine at startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("Realtime client connected: user %d", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					close(client.Send)
					delete(conns, client)
					if len(conns) == 0 {
						delete(h.clients, client.UserID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("Realtime client disconnected: user %d", client.UserID)
		}
	}
}

// PushToUser sends an event to every open connection of a user
func (h *Hub) PushToUser(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.Send <- event:
		default:
			// Slow consumer; drop the connection rather than block the hub.
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// ConnectedUserCount returns the number of users with at least one connection
func (h *Hub) ConnectedUserCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) hasClient(client *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[client.UserID][client]
}
