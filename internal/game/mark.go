package game

import (
	"errors"
	"fmt"
)

// Mark is the content of a single cell: empty, X or O.
type Mark uint8

const (
	MarkEmpty Mark = iota
	MarkX
	MarkO
)

var (
	ErrInvalidIndex  = errors.New("invalid cell index")
	ErrInvalidMark   = errors.New("invalid mark")
	ErrEmptyName     = errors.New("player name is empty")
	ErrDuplicateMark = errors.New("players must use different marks")
)

func (m Mark) String() string {
	switch m {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return ""
	}
}

// Valid reports whether m is a mark a player can place.
func (m Mark) Valid() bool {
	return m == MarkX || m == MarkO
}

func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*m = MarkEmpty
	case "X", "x":
		*m = MarkX
	case "O", "o":
		*m = MarkO
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMark, text)
	}
	return nil
}
