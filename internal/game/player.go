package game

import (
	"fmt"
	"strings"
)

// Seat identifies one of the two players of a game.
type Seat int

const (
	SeatOne Seat = iota
	SeatTwo
)

// Other returns the opposite seat.
func (s Seat) Other() Seat {
	if s == SeatOne {
		return SeatTwo
	}
	return SeatOne
}

// Player is an immutable name and mark pair.
type Player struct {
	name string
	mark Mark
}

// NewPlayer validates and builds a player.
func NewPlayer(name string, mark Mark) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, ErrEmptyName
	}
	if !mark.Valid() {
		return Player{}, fmt.Errorf("%w: player %s", ErrInvalidMark, name)
	}
	return Player{name: name, mark: mark}, nil
}

func (p Player) Name() string { return p.name }

func (p Player) Mark() Mark { return p.mark }
