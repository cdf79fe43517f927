package websocket

import "sync"

// Hub tracks live connections and their room membership for fan-out.
// It is constructed once at startup and handed to the handler; match state
// lives in the registry, never here.
type Hub struct {
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client]; !exists {
		return
	}
	delete(h.clients, client)

	if code := client.RoomCode(); code != "" {
		if room, ok := h.rooms[code]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, code)
			}
		}
	}

	client.closeSend()
}

func (h *Hub) JoinRoom(roomCode string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[roomCode] == nil {
		h.rooms[roomCode] = make(map[*Client]bool)
	}
	h.rooms[roomCode][client] = true
}

// BroadcastToRoom sends one message per member, built by msgFunc so payloads
// can differ per receiver. A zero-typed message skips that receiver.
func (h *Hub) BroadcastToRoom(roomCode string, msgFunc func(*Client) OutgoingMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[roomCode]
	if !ok {
		return
	}

	for client := range room {
		msg := msgFunc(client)
		if msg.Type != "" {
			client.SendJSON(msg)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
