package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dawgdevv/4-rows-game/internal/domain"
	"github.com/dawgdevv/4-rows-game/internal/service/match"
)

const (
	writeTimeout = 10 * time.Second
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second

	sendBufferSize = 256
)

// StatsRecorder receives concluded games for durable win/loss aggregates.
type StatsRecorder interface {
	RecordGame(res match.Result) error
}

// EventPublisher receives concluded games for the analytics event stream.
type EventPublisher interface {
	PublishGameCompleted(res match.Result)
}

// Deps are the collaborators a connection session operates against. Stats
// and Events may be nil; reporting is strictly best-effort.
type Deps struct {
	Registry *match.Registry
	Stats    StatsRecorder
	Events   EventPublisher
	BotDelay time.Duration
}

// Client is the per-socket actor: it owns one transport connection, maps
// inbound messages to match/registry operations and fans resulting events
// back out. It is bound to at most one match at a time, tracked by roomCode.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub

	deps *Deps

	mu       sync.Mutex
	roomCode string
	name     string
	closed   bool
}

func NewClient(id string, conn *websocket.Conn, hub *Hub, deps *Deps) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, sendBufferSize),
		Hub:  hub,
		deps: deps,
	}
}

// ReadLoop pumps inbound frames until the connection dies, then runs the
// disconnect path exactly once.
func (c *Client) ReadLoop() {
	defer func() {
		c.handleDisconnect()
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(readTimeout))

	for {
		_, rawMessage, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Client %s disconnected unexpectedly: %v", c.ID, err)
			}
			return
		}

		// Any inbound traffic, pongs included, proves the peer alive.
		c.Conn.SetReadDeadline(time.Now().Add(readTimeout))

		c.handleMessage(rawMessage)
	}
}

// WriteLoop serializes all socket writes and emits the keepalive ping.
func (c *Client) WriteLoop() {
	ticker := time.NewTicker(pingInterval)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Client %s write error: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.SendJSON(NewMessage(TypePing, nil))
		}
	}
}

func (c *Client) handleMessage(rawMessage []byte) {
	var msg IncomingMessage
	if err := json.Unmarshal(rawMessage, &msg); err != nil {
		c.SendJSON(NewError(domain.ErrMalformedMessage))
		return
	}

	switch msg.Type {
	case TypePong:
		// Keepalive answer; the read deadline was already refreshed.

	case TypePing:
		c.SendJSON(NewMessage(TypePong, nil))

	case TypeCreateRoom:
		c.handleCreateRoom(msg.PlayerName)

	case TypeCreateBotGame:
		c.handleCreateBotGame(msg.PlayerName)

	case TypeJoinRoom:
		c.handleJoinRoom(msg.RoomCode, msg.PlayerName)

	case TypeMove:
		if msg.Column == nil {
			c.SendJSON(NewError(domain.ErrMalformedMessage))
			return
		}
		c.handleMove(*msg.Column)

	case TypeRematchRequest:
		c.handleRematch()

	default:
		c.SendJSON(NewError(domain.ErrMalformedMessage))
	}
}

func (c *Client) handleCreateRoom(playerName string) {
	if c.RoomCode() != "" {
		c.SendJSON(NewError(domain.ErrAlreadyInRoom))
		return
	}

	room, err := c.deps.Registry.CreateRoom(c.ID, displayName(playerName, 1))
	if err != nil {
		c.SendJSON(NewError(err))
		return
	}

	c.setRoom(room.Code, displayName(playerName, 1))
	c.Hub.JoinRoom(room.Code, c)

	log.Printf("[WS] Client %s created room %s", c.ID, room.Code)

	c.SendJSON(NewMessage(TypeRoomCreated, RoomCreatedPayload{RoomCode: room.Code}))
}

func (c *Client) handleCreateBotGame(playerName string) {
	if c.RoomCode() != "" {
		c.SendJSON(NewError(domain.ErrAlreadyInRoom))
		return
	}

	room := c.deps.Registry.CreateBotMatch(c.ID, displayName(playerName, 1))

	c.setRoom(room.Code, displayName(playerName, 1))
	c.Hub.JoinRoom(room.Code, c)

	log.Printf("[WS] Client %s started bot match %s", c.ID, room.Code)

	info := room.StartInfo()
	c.SendJSON(NewMessage(TypeGameStart, GameStartPayload{
		RoomCode:     info.RoomCode,
		PlayerNumber: 1,
		Player1Name:  info.Player1Name,
		Player2Name:  info.Player2Name,
		CurrentTurn:  info.CurrentTurn,
	}))
}

func (c *Client) handleJoinRoom(code, playerName string) {
	if code == "" {
		c.SendJSON(NewError(domain.ErrMalformedMessage))
		return
	}
	if c.RoomCode() != "" {
		c.SendJSON(NewError(domain.ErrAlreadyInRoom))
		return
	}

	room, playerNum, err := c.deps.Registry.JoinRoom(code, c.ID, displayName(playerName, 2))
	if err != nil {
		c.SendJSON(NewError(err))
		return
	}

	c.setRoom(code, displayName(playerName, 2))
	c.Hub.JoinRoom(code, c)

	log.Printf("[WS] Client %s joined room %s as player %d", c.ID, code, playerNum)

	c.SendJSON(NewMessage(TypeRoomJoined, RoomJoinedPayload{
		RoomCode:     code,
		PlayerNumber: playerNum,
		Message:      "joined, game starting",
	}))

	info := room.StartInfo()
	c.Hub.BroadcastToRoom(code, func(member *Client) OutgoingMessage {
		num, ok := room.PlayerNumberOf(member.ID)
		if !ok {
			return OutgoingMessage{}
		}
		return NewMessage(TypeGameStart, GameStartPayload{
			RoomCode:     info.RoomCode,
			PlayerNumber: num,
			Player1Name:  info.Player1Name,
			Player2Name:  info.Player2Name,
			CurrentTurn:  info.CurrentTurn,
		})
	})
}

func (c *Client) handleMove(column int) {
	room, playerNum, err := c.boundMatch()
	if err != nil {
		c.SendJSON(NewError(err))
		return
	}

	outcome, err := room.SubmitMove(playerNum, column)
	if err != nil {
		c.SendJSON(NewError(err))
		return
	}

	c.broadcastOutcome(room, outcome)
}

// broadcastOutcome fans out an accepted move and, on a terminal move, the
// game_over event plus durable reporting. Used by both human and bot moves.
func (c *Client) broadcastOutcome(room *match.Match, outcome match.MoveOutcome) {
	result := MoveResultPayload{
		Column:       outcome.Column,
		Row:          outcome.Row,
		PlayerNumber: outcome.Player,
		NextPlayer:   outcome.NextPlayer,
		Valid:        true,
	}
	c.Hub.BroadcastToRoom(room.Code, func(*Client) OutgoingMessage {
		return NewMessage(TypeMoveResult, result)
	})

	if outcome.Terminal {
		gameOver := GameOverPayload{
			Winner:       outcome.Winner,
			WinningCells: outcome.WinningCells,
			IsDraw:       outcome.Draw,
		}
		c.Hub.BroadcastToRoom(room.Code, func(*Client) OutgoingMessage {
			return NewMessage(TypeGameOver, gameOver)
		})
		c.reportResult(room, outcome)
		return
	}

	if outcome.BotTurnNext {
		c.scheduleBotMove(room)
	}
}

// scheduleBotMove runs the bot's reply after a short artificial delay so the
// exchange reads as turn-taking. SubmitBotMove re-validates under the match
// lock, so a disconnect or rematch racing the timer makes it a no-op.
func (c *Client) scheduleBotMove(room *match.Match) {
	time.AfterFunc(c.deps.BotDelay, func() {
		outcome, ok := room.SubmitBotMove()
		if !ok {
			return
		}
		c.broadcastOutcome(room, outcome)
	})
}

// reportResult pushes the concluded game to the stats store and the event
// stream. Both run off the hot path; a failure is logged, never surfaced.
func (c *Client) reportResult(room *match.Match, outcome match.MoveOutcome) {
	reason := "connect_four"
	if outcome.Draw {
		reason = "draw"
	}
	res := room.Result(reason)

	go func() {
		if c.deps.Stats != nil {
			if err := c.deps.Stats.RecordGame(res); err != nil {
				log.Printf("[STATS] Error recording game %s: %v", res.RoomCode, err)
			}
		}
		if c.deps.Events != nil {
			c.deps.Events.PublishGameCompleted(res)
		}
	}()
}

func (c *Client) handleRematch() {
	room, playerNum, err := c.boundMatch()
	if err != nil {
		c.SendJSON(NewError(err))
		return
	}

	outcome, err := room.RequestRematch(playerNum)
	if err != nil {
		c.SendJSON(NewError(err))
		return
	}

	if !outcome.Accepted {
		log.Printf("[REMATCH] Player %d requested rematch in room %s, waiting for opponent", playerNum, room.Code)
		c.Hub.BroadcastToRoom(room.Code, func(member *Client) OutgoingMessage {
			if member.ID == c.ID {
				return NewMessage(TypeRematchWaiting, RematchWaitingPayload{
					Message:     "Waiting for opponent to accept rematch...",
					IsInitiator: true,
				})
			}
			return NewMessage(TypeRematchWaiting, RematchWaitingPayload{
				Message:     "Opponent requested a rematch!",
				IsInitiator: false,
			})
		})
		return
	}

	log.Printf("[REMATCH] Room %s resetting for a new game", room.Code)

	c.Hub.BroadcastToRoom(room.Code, func(*Client) OutgoingMessage {
		return NewMessage(TypeRematchAccepted, RematchAcceptedPayload{
			Message: "Rematch accepted! Starting new game...",
		})
	})

	info := room.StartInfo()
	c.Hub.BroadcastToRoom(room.Code, func(member *Client) OutgoingMessage {
		num, ok := room.PlayerNumberOf(member.ID)
		if !ok {
			return OutgoingMessage{}
		}
		return NewMessage(TypeGameStart, GameStartPayload{
			RoomCode:     info.RoomCode,
			PlayerNumber: num,
			Player1Name:  info.Player1Name,
			Player2Name:  info.Player2Name,
			CurrentTurn:  info.CurrentTurn,
		})
	})
}

// handleDisconnect runs when the socket drops: the bound match is abandoned,
// the surviving side told, and the room destroyed. Abandonment is terminal,
// so the vacated slot can never be re-joined.
func (c *Client) handleDisconnect() {
	roomCode := c.RoomCode()
	if roomCode == "" {
		return
	}

	room, exists := c.deps.Registry.Find(roomCode)
	if !exists {
		return
	}

	playerNum, ok := room.PlayerNumberOf(c.ID)
	if !ok {
		return
	}

	opponentID := room.Leave(playerNum)
	log.Printf("[WS] Client %s left room %s, match abandoned", c.ID, roomCode)

	if opponentID != "" {
		c.Hub.BroadcastToRoom(roomCode, func(member *Client) OutgoingMessage {
			if member.ID == opponentID {
				return NewMessage(TypeOpponentLeft, nil)
			}
			return OutgoingMessage{}
		})
	}

	c.deps.Registry.Remove(roomCode)
}

// boundMatch resolves the client's current match and slot.
func (c *Client) boundMatch() (*match.Match, int, error) {
	roomCode := c.RoomCode()
	if roomCode == "" {
		return nil, 0, domain.ErrRoomNotFound
	}

	room, exists := c.deps.Registry.Find(roomCode)
	if !exists {
		return nil, 0, domain.ErrRoomNotFound
	}

	playerNum, ok := room.PlayerNumberOf(c.ID)
	if !ok {
		return nil, 0, domain.ErrRoomNotFound
	}

	return room, playerNum, nil
}

// SendJSON queues one outbound frame. Sends never block a match operation:
// a full buffer drops the frame and the read deadline reaps the dead peer.
// The closed check is taken under the client mutex, the same mutex closeSend
// holds, so a keepalive tick racing the disconnect teardown drops the frame
// instead of sending on a closed channel.
func (c *Client) SendJSON(msg OutgoingMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] Failed to marshal %s message: %v", msg.Type, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.Send <- data:
	default:
		log.Printf("[WS] Client %s send buffer full, dropping %s", c.ID, msg.Type)
	}
}

// closeSend marks the client dead and closes the send channel exactly once.
// Every later SendJSON is a silent no-op.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

func (c *Client) setRoom(code, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = code
	c.name = name
}

func (c *Client) RoomCode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomCode
}

func displayName(name string, playerNum int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("Player %d", playerNum)
}
