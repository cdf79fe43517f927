package domain

// winDirections, in tie-break priority order: horizontal (rightward),
// vertical (upward), diagonal up-right, diagonal down-right.
var winDirections = [4][2]int{
	{0, 1},
	{-1, 0},
	{-1, 1},
	{1, 1},
}

// CheckWin examines only the lines passing through the last-placed cell.
// For each direction it walks backward to the start of the contiguous run of
// the player's disks, then counts forward; a run of 4 or more wins. Exactly
// the first 4 cells of the run, from the run start in scan direction, are
// reported even when the run is longer.
func CheckWin(board [][]PlayerID, row, column int, player PlayerID) ([]Cell, bool) {
	for _, d := range winDirections {
		dr, dc := d[0], d[1]

		// Walk back to the start of the run through (row, column).
		startRow, startCol := row, column
		for inBounds(startRow-dr, startCol-dc) && board[startRow-dr][startCol-dc] == player {
			startRow -= dr
			startCol -= dc
		}

		// Count the run forward from its start.
		length := 0
		r, c := startRow, startCol
		for inBounds(r, c) && board[r][c] == player {
			length++
			r += dr
			c += dc
		}

		if length >= ToWin {
			cells := make([]Cell, ToWin)
			for i := 0; i < ToWin; i++ {
				cells[i] = Cell{Row: startRow + dr*i, Col: startCol + dc*i}
			}
			return cells, true
		}
	}
	return nil, false
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Columns
}
