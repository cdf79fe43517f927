package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests and spins up one client actor per socket.
type Handler struct {
	Hub      *Hub
	Deps     *Deps
	Upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, deps *Deps) *Handler {
	return &Handler{
		Hub:  hub,
		Deps: deps,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	clientID := uuid.NewString()
	client := NewClient(clientID, conn, h.Hub, h.Deps)

	h.Hub.Register(client)
	log.Printf("[WS] Client connected: %s (total: %d)", clientID, h.Hub.ClientCount())

	go client.ReadLoop()
	go client.WriteLoop()
}
