package game

import "fmt"

// Status is the lifecycle state of a game.
type Status int

const (
	StatusInProgress Status = iota
	StatusOver
)

func (s Status) String() string {
	if s == StatusOver {
		return "over"
	}
	return "in_progress"
}

// OutcomeKind classifies the result of a game.
type OutcomeKind int

const (
	OutcomeInProgress OutcomeKind = iota
	OutcomeWin
	OutcomeDraw
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeWin:
		return "win"
	case OutcomeDraw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Outcome is the state of play after a move. Winner is only meaningful
// when Kind is OutcomeWin.
type Outcome struct {
	Kind   OutcomeKind
	Winner Seat
}

// Rejection explains why a move was ignored.
type Rejection int

const (
	RejectNone Rejection = iota
	RejectGameOver
	RejectOccupied
)

func (r Rejection) String() string {
	switch r {
	case RejectGameOver:
		return "game_over"
	case RejectOccupied:
		return "occupied"
	default:
		return ""
	}
}

// MoveResult reports what MakeMove did. Rejected moves leave the game untouched.
type MoveResult struct {
	Accepted  bool
	Rejection Rejection
	Outcome   Outcome
}

// Option configures a Game.
type Option func(*Game)

// WithNotifier routes state changes to n.
func WithNotifier(n Notifier) Option {
	return func(g *Game) {
		if n != nil {
			g.notifier = n
		}
	}
}

// Game is the two-player state machine. It is not safe for concurrent use;
// callers serialise access to a single game.
type Game struct {
	board    Board
	players  [2]Player
	current  Seat
	status   Status
	outcome  Outcome
	moves    int
	notifier Notifier
}

// New creates a game where first moves first.
func New(first, second Player, opts ...Option) (*Game, error) {
	for _, p := range []Player{first, second} {
		if p.name == "" {
			return nil, ErrEmptyName
		}
		if !p.mark.Valid() {
			return nil, fmt.Errorf("%w: player %s", ErrInvalidMark, p.name)
		}
	}
	if first.mark == second.mark {
		return nil, fmt.Errorf("%w: both players use %s", ErrDuplicateMark, first.mark)
	}

	g := &Game{
		players:  [2]Player{first, second},
		current:  SeatOne,
		status:   StatusInProgress,
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewStandard creates a game with X for the first name and O for the second.
func NewStandard(firstName, secondName string, opts ...Option) (*Game, error) {
	first, err := NewPlayer(firstName, MarkX)
	if err != nil {
		return nil, fmt.Errorf("first player: %w", err)
	}
	second, err := NewPlayer(secondName, MarkO)
	if err != nil {
		return nil, fmt.Errorf("second player: %w", err)
	}
	return New(first, second, opts...)
}

// MakeMove places the current player's mark at index.
//
// An out-of-range index is an error. A move after the game is over or on
// an occupied cell is silently ignored and reported through the result.
func (g *Game) MakeMove(index int) (MoveResult, error) {
	cell, err := g.board.Cell(index)
	if err != nil {
		return MoveResult{}, err
	}
	if g.status == StatusOver {
		return MoveResult{Rejection: RejectGameOver, Outcome: g.outcome}, nil
	}
	if cell != MarkEmpty {
		return MoveResult{Rejection: RejectOccupied, Outcome: g.outcome}, nil
	}

	mark := g.players[g.current].mark
	if err := g.board.SetCell(index, mark); err != nil {
		return MoveResult{}, err
	}
	g.moves++
	g.notifier.CellMarked(index, mark)
	g.evaluate()

	return MoveResult{Accepted: true, Outcome: g.outcome}, nil
}

// evaluate checks for a win before a draw, so a final move that both fills
// the board and completes a line is a win.
func (g *Game) evaluate() {
	switch {
	case g.board.CheckWin(g.players[g.current].mark):
		g.finish(Outcome{Kind: OutcomeWin, Winner: g.current})
	case g.board.IsDraw():
		g.finish(Outcome{Kind: OutcomeDraw})
	default:
		g.SwitchPlayer()
	}
}

func (g *Game) finish(o Outcome) {
	g.outcome = o
	g.status = StatusOver
	g.notifier.GameOver(o, g.Announcement(o))
}

// SwitchPlayer hands the turn to the other seat.
func (g *Game) SwitchPlayer() {
	g.current = g.current.Other()
}

// Reset clears the board and gives the first turn back to seat one.
func (g *Game) Reset() {
	g.board.Reset()
	g.status = StatusInProgress
	g.outcome = Outcome{}
	g.current = SeatOne
	g.moves = 0
	g.notifier.BoardReset()
}

// Announcement returns "<name> wins", "draw" or an empty string.
func (g *Game) Announcement(o Outcome) string {
	switch o.Kind {
	case OutcomeWin:
		return g.players[o.Winner].name + " wins"
	case OutcomeDraw:
		return "draw"
	default:
		return ""
	}
}

func (g *Game) Board() Board { return g.board }

func (g *Game) Current() Player { return g.players[g.current] }

func (g *Game) CurrentSeat() Seat { return g.current }

func (g *Game) Player(s Seat) Player { return g.players[s] }

func (g *Game) Players() [2]Player { return g.players }

func (g *Game) Status() Status { return g.status }

func (g *Game) Over() bool { return g.status == StatusOver }

func (g *Game) Outcome() Outcome { return g.outcome }

// Moves returns the number of accepted moves since the last reset.
func (g *Game) Moves() int { return g.moves }
