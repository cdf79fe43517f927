package bot

import (
	"math/rand"

	"github.com/dawgdevv/4-rows-game/internal/domain"
)

// columnPreference ranks columns by positional value, center first.
var columnPreference = [domain.Columns]int{3, 2, 4, 1, 5, 0, 6}

// ChooseColumn picks the bot's next column: win now if possible, otherwise
// block the opponent's immediate win, otherwise take the best open column by
// center preference. Deterministic for a given board; no state between calls.
// Returns -1 when no column has room.
func ChooseColumn(board [][]domain.PlayerID, botPlayer domain.PlayerID) int {
	validColumns := domain.GetValidMoves(board)
	if len(validColumns) == 0 {
		return -1
	}

	opponent := domain.Opponent(botPlayer)

	for _, col := range validColumns {
		testBoard, row, err := domain.SimulateMove(board, col, botPlayer)
		if err != nil {
			continue
		}
		if _, won := domain.CheckWin(testBoard, row, col, botPlayer); won {
			return col
		}
	}

	for _, col := range validColumns {
		testBoard, row, err := domain.SimulateMove(board, col, opponent)
		if err != nil {
			continue
		}
		if _, won := domain.CheckWin(testBoard, row, col, opponent); won {
			return col
		}
	}

	for _, col := range columnPreference {
		if domain.IsValidMove(board, col) {
			return col
		}
	}

	// Unreachable given the preference order covers every column.
	return validColumns[rand.Intn(len(validColumns))]
}
