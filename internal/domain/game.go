package domain

// Game holds the board and turn state of one in-progress board game.
// It is pure state plus rules; serialization of access is the caller's job.
type Game struct {
	Board         [][]PlayerID
	CurrentPlayer PlayerID
	Status        GameStatus
	Winner        PlayerID
	WinningCells  []Cell
	MoveCount     int
}

func NewGame() *Game {
	return &Game{
		Board:         NewBoard(),
		CurrentPlayer: Player1,
		Status:        StatusActive,
		Winner:        Empty,
	}
}

// MakeMove validates and applies one drop. Validation performs no mutation,
// so a rejected move leaves the game untouched. The win check runs before the
// draw check: a move that completes four-in-a-row on a full board is a win.
// The turn does not advance once the game has ended.
func (g *Game) MakeMove(player PlayerID, column int) (int, error) {
	if g.Status != StatusActive {
		return -1, ErrGameNotInProgress
	}

	if player != g.CurrentPlayer {
		return -1, ErrNotYourTurn
	}

	row, err := DropDisk(g.Board, column, player)
	if err != nil {
		return -1, err
	}

	g.MoveCount++

	if cells, won := CheckWin(g.Board, row, column, player); won {
		g.Status = StatusWon
		g.Winner = player
		g.WinningCells = cells
		return row, nil
	}

	if IsBoardFull(g.Board) {
		g.Status = StatusDraw
		return row, nil
	}

	g.CurrentPlayer = Opponent(g.CurrentPlayer)
	return row, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}
