package domain

type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// BotName is the display name bound to the synthetic second slot in bot matches.
const BotName = "BOT"

// Opponent returns the other side.
func Opponent(p PlayerID) PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// Cell is one board coordinate, row 0 at the top.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// basic errors that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrRoomNotFound      Error = "room not found"
	ErrRoomFull          Error = "room is full"
	ErrAlreadyInRoom     Error = "already in a room"
	ErrNotYourTurn       Error = "not your turn"
	ErrGameNotInProgress Error = "game is not in progress"
	ErrColumnFull        Error = "column is full"
	ErrInvalidColumn     Error = "column out of range"
	ErrMalformedMessage  Error = "malformed message"
	ErrInternalFault     Error = "internal fault"
)
