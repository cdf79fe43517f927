package domain

func NewBoard() [][]PlayerID {
	board := make([][]PlayerID, Rows)
	for i := range board {
		board[i] = make([]PlayerID, Columns)
	}
	return board
}

func IsValidMove(board [][]PlayerID, column int) bool {
	if column < 0 || column >= Columns {
		return false
	}

	// board[0] is the top row (0 -> top, 5 -> bottom)
	return board[0][column] == Empty
}

// LowestEmptyRow scans a column from the bottom and returns the row a disk
// would settle in. Fails with ErrColumnFull when no empty cell exists.
func LowestEmptyRow(board [][]PlayerID, column int) (int, error) {
	if column < 0 || column >= Columns {
		return -1, ErrInvalidColumn
	}
	for row := Rows - 1; row >= 0; row-- {
		if board[row][column] == Empty {
			return row, nil
		}
	}
	return -1, ErrColumnFull
}

// DropDisk commits a disk into the lowest empty cell of the column and
// returns the row it settled in.
func DropDisk(board [][]PlayerID, column int, player PlayerID) (int, error) {
	row, err := LowestEmptyRow(board, column)
	if err != nil {
		return -1, err
	}
	board[row][column] = player
	return row, nil
}

// IsBoardFull reports a draw position: the gravity invariant means the board
// is full exactly when the top row has no empty cell.
func IsBoardFull(board [][]PlayerID) bool {
	for c := 0; c < Columns; c++ {
		if board[0][c] == Empty {
			return false
		}
	}
	return true
}

// this creates a deep copy of the board
func CopyBoard(board [][]PlayerID) [][]PlayerID {
	newBoard := make([][]PlayerID, len(board))
	for i := range board {
		newBoard[i] = make([]PlayerID, len(board[i]))
		copy(newBoard[i], board[i])
	}
	return newBoard
}

// GetValidMoves lists the columns that still have room, ascending.
func GetValidMoves(board [][]PlayerID) []int {
	validMoves := []int{}
	for col := 0; col < Columns; col++ {
		if board[0][col] == Empty {
			validMoves = append(validMoves, col)
		}
	}
	return validMoves
}

// SimulateMove drops a disk on a copy of the board and returns the copy.
func SimulateMove(board [][]PlayerID, column int, player PlayerID) ([][]PlayerID, int, error) {
	newBoard := CopyBoard(board)
	row, err := DropDisk(newBoard, column, player)
	if err != nil {
		return nil, -1, err
	}
	return newBoard, row, nil
}
