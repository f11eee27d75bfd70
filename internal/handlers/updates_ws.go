package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/fleetsrp/fleetsrp/internal/database"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ClaimUpdate is one live status-change message pushed to subscribers.
type ClaimUpdate struct {
	ClaimCode string  `json:"claim_code"`
	EventID   uint    `json:"event_id"`
	Status    string  `json:"status"`
	Payout    float64 `json:"payout"`
	Ship      string  `json:"ship"`
}

// wsClient pairs a connection with its write lock. The websocket library
// allows at most one concurrent writer per connection, and broadcasts run
// on whichever request goroutine committed the transition.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// writeJSON delivers one message under the client's write lock.
func (c *wsClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteJSON(v)
}

// UpdatesHub broadcasts claim status transitions to connected reviewer
// dashboards. Slow or broken clients are dropped rather than blocking the
// broadcast.
type UpdatesHub struct {
	mu      sync.RWMutex
	clients map[string]*wsClient
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is JWT-gated; cross-origin browser dashboards are expected.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewUpdatesHub creates an empty hub
func NewUpdatesHub() *UpdatesHub {
	return &UpdatesHub{
		clients: make(map[string]*wsClient),
	}
}

// BroadcastClaim pushes a claim's current state to all subscribers. Safe to
// call from concurrent request goroutines; writes to each connection are
// serialized by the client's write lock.
func (hub *UpdatesHub) BroadcastClaim(claim *database.Claim) {
	update := ClaimUpdate{
		ClaimCode: claim.Code,
		EventID:   claim.EventID,
		Status:    string(claim.Status),
		Payout:    claim.PayoutAmount,
		Ship:      claim.ShipName,
	}

	hub.mu.RLock()
	clients := make(map[string]*wsClient, len(hub.clients))
	for id, client := range hub.clients {
		clients[id] = client
	}
	hub.mu.RUnlock()

	for id, client := range clients {
		if err := client.writeJSON(update); err != nil {
			log.Printf("UpdatesHub: dropping client %s: %v", id, err)
			hub.remove(id)
		}
	}
}

// ClientCount returns the number of connected subscribers
func (hub *UpdatesHub) ClientCount() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients)
}

func (hub *UpdatesHub) add(id string, conn *websocket.Conn) {
	hub.mu.Lock()
	hub.clients[id] = &wsClient{conn: conn}
	hub.mu.Unlock()
}

func (hub *UpdatesHub) remove(id string) {
	hub.mu.Lock()
	if client, ok := hub.clients[id]; ok {
		client.conn.Close()
		delete(hub.clients, id)
	}
	hub.mu.Unlock()
}

// handleUpdatesWS handles GET /ws/updates
func (h *APIHandler) handleUpdatesWS(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("UpdatesHub: upgrade failed: %v", err)
		return
	}

	id := uuid.NewString()
	h.hub.add(id, conn)
	log.Printf("UpdatesHub: client %s connected (%d total)", id, h.hub.ClientCount())

	// Reader loop only drains control frames; the feed is one-way.
	go func() {
		defer h.hub.remove(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
