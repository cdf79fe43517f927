package websocket

import (
	"errors"

	"github.com/dawgdevv/4-rows-game/internal/domain"
)

type MessageType string

const (
	TypeCreateRoom      MessageType = "create_room"
	TypeCreateBotGame   MessageType = "create_bot_game"
	TypeRoomCreated     MessageType = "room_created"
	TypeJoinRoom        MessageType = "join_room"
	TypeRoomJoined      MessageType = "room_joined"
	TypeGameStart       MessageType = "game_start"
	TypeMove            MessageType = "move"
	TypeMoveResult      MessageType = "move_result"
	TypeGameOver        MessageType = "game_over"
	TypeRematchRequest  MessageType = "rematch_request"
	TypeRematchWaiting  MessageType = "rematch_waiting"
	TypeRematchAccepted MessageType = "rematch_accepted"
	TypeOpponentLeft    MessageType = "opponent_left"
	TypeError           MessageType = "error"
	TypePing            MessageType = "ping"
	TypePong            MessageType = "pong"
)

// IncomingMessage is the single inbound frame shape; unused fields stay zero.
type IncomingMessage struct {
	Type       MessageType `json:"type"`
	RoomCode   string      `json:"room_code,omitempty"`
	Column     *int        `json:"column,omitempty"`
	PlayerName string      `json:"player_name,omitempty"`
}

type OutgoingMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
}

type RoomJoinedPayload struct {
	RoomCode     string `json:"room_code"`
	PlayerNumber int    `json:"player_number"`
	Message      string `json:"message"`
}

type GameStartPayload struct {
	RoomCode     string `json:"room_code"`
	PlayerNumber int    `json:"player_number"`
	Player1Name  string `json:"player1_name"`
	Player2Name  string `json:"player2_name"`
	CurrentTurn  int    `json:"current_turn"`
}

type MoveResultPayload struct {
	Column       int  `json:"column"`
	Row          int  `json:"row"`
	PlayerNumber int  `json:"player_number"`
	NextPlayer   int  `json:"next_player"`
	Valid        bool `json:"valid"`
}

type GameOverPayload struct {
	Winner       int           `json:"winner"` // 1, 2, or 0 on a draw
	WinningCells []domain.Cell `json:"winning_cells,omitempty"`
	IsDraw       bool          `json:"is_draw"`
}

type RematchWaitingPayload struct {
	Message     string `json:"message"`
	IsInitiator bool   `json:"is_initiator"`
}

type RematchAcceptedPayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewMessage(msgType MessageType, payload interface{}) OutgoingMessage {
	return OutgoingMessage{Type: msgType, Payload: payload}
}

// NewError builds the error frame for a rejected operation, with a machine
// code from the error taxonomy plus a human message.
func NewError(err error) OutgoingMessage {
	return OutgoingMessage{
		Type: TypeError,
		Payload: ErrorPayload{
			Code:    errorCode(err),
			Message: err.Error(),
		},
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, domain.ErrRoomFull):
		return "room_full"
	case errors.Is(err, domain.ErrAlreadyInRoom):
		return "already_in_room"
	case errors.Is(err, domain.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, domain.ErrGameNotInProgress):
		return "game_not_in_progress"
	case errors.Is(err, domain.ErrColumnFull):
		return "column_full"
	case errors.Is(err, domain.ErrInvalidColumn):
		return "column_full"
	case errors.Is(err, domain.ErrMalformedMessage):
		return "malformed_message"
	default:
		return "internal_fault"
	}
}
