package game

import (
	"errors"
	"testing"
)

// boardFrom builds a board from nine characters: X, O or '.' for empty.
func boardFrom(t *testing.T, layout string) Board {
	t.Helper()
	if len(layout) != BoardSize {
		t.Fatalf("layout %q must have %d cells", layout, BoardSize)
	}
	var b Board
	for i, c := range layout {
		switch c {
		case 'X':
			_ = b.SetCell(i, MarkX)
		case 'O':
			_ = b.SetCell(i, MarkO)
		}
	}
	return b
}

func TestBoardCheckWin(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		mark   Mark
		want   bool
	}{
		{name: "Empty board X", layout: ".........", mark: MarkX, want: false},
		{name: "Empty board O", layout: ".........", mark: MarkO, want: false},
		{name: "Empty board empty mark", layout: ".........", mark: MarkEmpty, want: false},
		{name: "X first row", layout: "XXXOO....", mark: MarkX, want: true},
		{name: "X first row checked for O", layout: "XXXOO....", mark: MarkO, want: false},
		{name: "O middle row", layout: "X.XOOOX..", mark: MarkO, want: true},
		{name: "X last row", layout: "OO....XXX", mark: MarkX, want: true},
		{name: "O first column", layout: "OX.OX.O..", mark: MarkO, want: true},
		{name: "X second column", layout: "OX..XO.X.", mark: MarkX, want: true},
		{name: "O third column", layout: "X.OX.O..O", mark: MarkO, want: true},
		{name: "X main diagonal", layout: "XO..XO..X", mark: MarkX, want: true},
		{name: "O anti-diagonal", layout: "X.O.O.OX.", mark: MarkO, want: true},
		{name: "Two in a row is not a win", layout: "XX.OO....", mark: MarkX, want: false},
		{name: "Full board without a line", layout: "XOXXOOOXX", mark: MarkX, want: false},
		{name: "Full board without a line for O", layout: "XOXXOOOXX", mark: MarkO, want: false},
		{name: "Full board with a line", layout: "XXXOOXOXO", mark: MarkX, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, tt.layout)
			if got := b.CheckWin(tt.mark); got != tt.want {
				t.Errorf("CheckWin(%q) on %s got = %v, want %v", tt.mark, tt.layout, got, tt.want)
			}
		})
	}
}

func TestBoardCheckWinEveryLine(t *testing.T) {
	for _, line := range winningLines {
		for _, mark := range []Mark{MarkX, MarkO} {
			var b Board
			for _, i := range line {
				if err := b.SetCell(i, mark); err != nil {
					t.Fatalf("SetCell(%d) failed: %v", i, err)
				}
			}
			if !b.CheckWin(mark) {
				t.Errorf("line %v not detected for %s", line, mark)
			}
			other := MarkO
			if mark == MarkO {
				other = MarkX
			}
			if b.CheckWin(other) {
				t.Errorf("line %v of %s reported as a win for the opponent", line, mark)
			}
		}
	}
}

func TestBoardIsDraw(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   bool
	}{
		{name: "Empty board is not a draw", layout: ".........", want: false},
		{name: "Partial board is not a draw", layout: "XO..X....", want: false},
		{name: "One cell left is not a draw", layout: "XOXXOOOX.", want: false},
		{name: "Full board is a draw", layout: "XOXXOOOXX", want: true},
		{name: "Full board with a win is still full", layout: "XXXOOXOXO", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, tt.layout)
			if got := b.IsDraw(); got != tt.want {
				t.Errorf("IsDraw() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoardSetCell(t *testing.T) {
	var b Board

	for _, index := range []int{-1, 9, 42} {
		if err := b.SetCell(index, MarkX); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("SetCell(%d) got err = %v, want ErrInvalidIndex", index, err)
		}
	}

	if err := b.SetCell(4, MarkEmpty); !errors.Is(err, ErrInvalidMark) {
		t.Errorf("SetCell with empty mark got err = %v, want ErrInvalidMark", err)
	}

	if err := b.SetCell(4, MarkO); err != nil {
		t.Fatalf("SetCell(4) failed: %v", err)
	}
	if got, _ := b.Cell(4); got != MarkO {
		t.Errorf("Cell(4) got = %v, want O", got)
	}
	if b.Filled() != 1 {
		t.Errorf("Filled() got = %d, want 1", b.Filled())
	}
}

func TestBoardCellsIsACopy(t *testing.T) {
	var b Board
	cells := b.Cells()
	cells[0] = MarkX

	if got, _ := b.Cell(0); got != MarkEmpty {
		t.Errorf("mutating Cells() leaked into the board: got %v", got)
	}
}

func TestBoardReset(t *testing.T) {
	b := boardFrom(t, "XOXXOOOXX")
	b.Reset()

	if b.Filled() != 0 {
		t.Errorf("Filled() after Reset got = %d, want 0", b.Filled())
	}
	if b.IsDraw() {
		t.Error("IsDraw() after Reset should be false")
	}
	if b.CheckWin(MarkX) || b.CheckWin(MarkO) {
		t.Error("CheckWin() after Reset should be false")
	}
}

func TestBoardString(t *testing.T) {
	b := boardFrom(t, "X...O...X")
	want := " X | 2 | 3 \n" +
		"---+---+---\n" +
		" 4 | O | 6 \n" +
		"---+---+---\n" +
		" 7 | 8 | X \n"

	if got := b.String(); got != want {
		t.Errorf("String() got =\n%s\nwant =\n%s", got, want)
	}
}
