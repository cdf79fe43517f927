package match

import (
	"sync"
	"time"

	"github.com/dawgdevv/4-rows-game/internal/domain"
	"github.com/dawgdevv/4-rows-game/internal/service/bot"
)

type Mode string

const (
	ModePvP Mode = "pvp"
	ModeBot Mode = "bot"
)

// Status is the match-level lifecycle state, a superset of the board game's
// own status.
type Status string

const (
	StatusWaiting   Status = "waiting_for_opponent"
	StatusPlaying   Status = "playing"
	StatusWon       Status = "won"
	StatusDraw      Status = "draw"
	StatusAbandoned Status = "abandoned"
)

// Slot binds a player number to one live connection. Slot 2 of a bot match is
// synthetic: occupied, named, but with no connection behind it.
type Slot struct {
	ClientID string
	Name     string
	Occupied bool
}

// Match is one game instance between two sides. Every state-mutating
// operation takes the match mutex, so two sockets racing to submit a move
// (or a human disconnect racing a scheduled bot turn) serialize here. That
// exclusion is the load-bearing correctness property of the whole server.
type Match struct {
	Code string
	Mode Mode

	mu              sync.Mutex
	game            *domain.Game
	status          Status
	slots           [2]Slot
	rematchRequests [2]bool
	createdAt       time.Time
	startedAt       time.Time
	lastActivity    time.Time
}

// MoveOutcome carries everything the transport needs to broadcast a
// move_result and, on a terminal move, a game_over.
type MoveOutcome struct {
	Column       int
	Row          int
	Player       int
	NextPlayer   int
	Terminal     bool
	Winner       int
	WinningCells []domain.Cell
	Draw         bool
	BotTurnNext  bool
}

// RematchOutcome reports whether the negotiation completed. When Accepted is
// false the requester waits for the other side.
type RematchOutcome struct {
	Accepted  bool
	Requester int
}

// StartInfo is the state both sides need when a game (re)starts.
type StartInfo struct {
	RoomCode    string
	Player1Name string
	Player2Name string
	CurrentTurn int
}

// Result summarizes a concluded game for the stats store and event stream.
type Result struct {
	RoomCode        string
	Player1Name     string
	Player2Name     string
	Winner          int
	Draw            bool
	Reason          string
	IsBotGame       bool
	TotalMoves      int
	DurationSeconds int64
}

func NewPvPMatch(code, creatorID, creatorName string) *Match {
	now := time.Now()
	m := &Match{
		Code:         code,
		Mode:         ModePvP,
		status:       StatusWaiting,
		createdAt:    now,
		lastActivity: now,
	}
	m.slots[0] = Slot{ClientID: creatorID, Name: creatorName, Occupied: true}
	return m
}

func NewBotMatch(code, creatorID, creatorName string) *Match {
	now := time.Now()
	m := &Match{
		Code:         code,
		Mode:         ModeBot,
		status:       StatusPlaying,
		game:         domain.NewGame(),
		createdAt:    now,
		startedAt:    now,
		lastActivity: now,
	}
	m.slots[0] = Slot{ClientID: creatorID, Name: creatorName, Occupied: true}
	m.slots[1] = Slot{Name: domain.BotName, Occupied: true}
	return m
}

// Join fills slot 2 and starts the game. Fails with ErrRoomFull when the
// match is past the waiting state or the slot is already taken.
func (m *Match) Join(clientID, name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusWaiting || m.slots[1].Occupied {
		return 0, domain.ErrRoomFull
	}

	m.slots[1] = Slot{ClientID: clientID, Name: name, Occupied: true}
	m.game = domain.NewGame()
	m.status = StatusPlaying
	m.startedAt = time.Now()
	m.lastActivity = m.startedAt
	return 2, nil
}

// SubmitMove validates and applies one human move.
func (m *Match) SubmitMove(player int, column int) (MoveOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyMoveLocked(domain.PlayerID(player), column)
}

// SubmitBotMove runs the bot's turn. It re-checks under the lock that the
// match is still playing and it is actually the bot to move, so a timer
// firing after a disconnect or rematch reset is a silent no-op.
func (m *Match) SubmitBotMove() (MoveOutcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Mode != ModeBot || m.status != StatusPlaying || m.game.CurrentPlayer != domain.Player2 {
		return MoveOutcome{}, false
	}

	column := bot.ChooseColumn(m.game.Board, domain.Player2)
	if column < 0 {
		return MoveOutcome{}, false
	}

	outcome, err := m.applyMoveLocked(domain.Player2, column)
	if err != nil {
		return MoveOutcome{}, false
	}
	return outcome, true
}

func (m *Match) applyMoveLocked(player domain.PlayerID, column int) (MoveOutcome, error) {
	if m.status != StatusPlaying {
		return MoveOutcome{}, domain.ErrGameNotInProgress
	}

	row, err := m.game.MakeMove(player, column)
	if err != nil {
		return MoveOutcome{}, err
	}

	m.lastActivity = time.Now()

	outcome := MoveOutcome{
		Column:     column,
		Row:        row,
		Player:     int(player),
		NextPlayer: int(m.game.CurrentPlayer),
	}

	switch m.game.Status {
	case domain.StatusWon:
		m.status = StatusWon
		outcome.Terminal = true
		outcome.Winner = int(m.game.Winner)
		outcome.WinningCells = m.game.WinningCells
	case domain.StatusDraw:
		m.status = StatusDraw
		outcome.Terminal = true
		outcome.Draw = true
	default:
		outcome.BotTurnNext = m.Mode == ModeBot && m.game.CurrentPlayer == domain.Player2
	}

	return outcome, nil
}

// RequestRematch records one side's request. The game resets once both sides
// have asked; against the bot the sole human's request is enough.
func (m *Match) RequestRematch(player int) (RematchOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusWon && m.status != StatusDraw {
		return RematchOutcome{}, domain.ErrGameNotInProgress
	}
	if player != 1 && player != 2 {
		return RematchOutcome{}, domain.ErrMalformedMessage
	}

	m.rematchRequests[player-1] = true
	m.lastActivity = time.Now()

	if m.Mode == ModeBot || (m.rematchRequests[0] && m.rematchRequests[1]) {
		m.game = domain.NewGame()
		m.status = StatusPlaying
		m.rematchRequests = [2]bool{}
		m.startedAt = time.Now()
		return RematchOutcome{Accepted: true, Requester: player}, nil
	}

	return RematchOutcome{Accepted: false, Requester: player}, nil
}

// Leave marks the match abandoned and returns the client ID of the remaining
// human side, if any. Abandonment is terminal: the vacated slot is never
// offered to a new join.
func (m *Match) Leave(player int) (opponentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = StatusAbandoned
	m.lastActivity = time.Now()

	if player != 1 && player != 2 {
		return ""
	}

	if other := m.slots[2-player]; other.Occupied {
		return other.ClientID
	}
	return ""
}

// PlayerNumberOf resolves a connection to its slot.
func (m *Match) PlayerNumberOf(clientID string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, slot := range m.slots {
		if slot.Occupied && slot.ClientID == clientID {
			return i + 1, true
		}
	}
	return 0, false
}

func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Match) IsBot() bool {
	return m.Mode == ModeBot
}

func (m *Match) StartInfo() StartInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	turn := 0
	if m.game != nil {
		turn = int(m.game.CurrentPlayer)
	}
	return StartInfo{
		RoomCode:    m.Code,
		Player1Name: m.slots[0].Name,
		Player2Name: m.slots[1].Name,
		CurrentTurn: turn,
	}
}

// Result snapshots the concluded game for persistence and eventing.
func (m *Match) Result(reason string) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := Result{
		RoomCode:    m.Code,
		Player1Name: m.slots[0].Name,
		Player2Name: m.slots[1].Name,
		Reason:      reason,
		IsBotGame:   m.Mode == ModeBot,
	}
	if m.game != nil {
		res.Winner = int(m.game.Winner)
		res.Draw = m.game.Status == domain.StatusDraw
		res.TotalMoves = m.game.MoveCount
	}
	if !m.startedAt.IsZero() {
		res.DurationSeconds = int64(time.Since(m.startedAt).Seconds())
	}
	return res
}

// IdleFor reports how long ago the match last saw activity.
func (m *Match) IdleFor(now time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return now.Sub(m.lastActivity)
}
