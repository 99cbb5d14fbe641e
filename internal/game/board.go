package game

import (
	"fmt"
	"strings"
)

// BoardSize is the number of cells on the board.
const BoardSize = 9

// winningLines are the 3 rows, 3 columns and 2 diagonals.
var winningLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board holds the nine cells, row-major: row = index/3, col = index%3.
type Board struct {
	cells [BoardSize]Mark
}

// Cells returns a copy of the grid.
func (b Board) Cells() [BoardSize]Mark {
	return b.cells
}

// Cell returns the mark at index.
func (b Board) Cell(index int) (Mark, error) {
	if !validIndex(index) {
		return MarkEmpty, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	return b.cells[index], nil
}

// SetCell writes mark at index. It does not check whether the cell is
// already taken; Game owns that rule.
func (b *Board) SetCell(index int, mark Mark) error {
	if !validIndex(index) {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	if !mark.Valid() {
		return fmt.Errorf("%w: cannot set %q", ErrInvalidMark, mark)
	}
	b.cells[index] = mark
	return nil
}

// CheckWin reports whether any line is entirely mark.
func (b Board) CheckWin(mark Mark) bool {
	if !mark.Valid() {
		return false
	}
	for _, line := range winningLines {
		if b.cells[line[0]] == mark && b.cells[line[1]] == mark && b.cells[line[2]] == mark {
			return true
		}
	}
	return false
}

// IsDraw reports whether every cell is taken. It ignores wins.
func (b Board) IsDraw() bool {
	return b.Filled() == BoardSize
}

// Filled returns the number of non-empty cells.
func (b Board) Filled() int {
	n := 0
	for _, cell := range b.cells {
		if cell != MarkEmpty {
			n++
		}
	}
	return n
}

// Reset empties every cell.
func (b *Board) Reset() {
	b.cells = [BoardSize]Mark{}
}

// String renders the board as three rows; empty cells show their 1-based number.
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			i := row*3 + col
			label := b.cells[i].String()
			if label == "" {
				label = fmt.Sprint(i + 1)
			}
			if col > 0 {
				sb.WriteString("|")
			}
			sb.WriteString(" " + label + " ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func validIndex(index int) bool {
	return index >= 0 && index < BoardSize
}
