// Package console plays a game in a terminal, both players sharing the keyboard.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ctchen222/hotseat/internal/game"
)

// Renderer is a game.Notifier that writes to a terminal.
type Renderer struct {
	out io.Writer
}

var _ game.Notifier = (*Renderer)(nil)

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) CellMarked(index int, mark game.Mark) {
	fmt.Fprintf(r.out, "%s takes %d\n", mark, index+1)
}

func (r *Renderer) GameOver(_ game.Outcome, announcement string) {
	fmt.Fprintf(r.out, "\n*** %s! ***\n", announcement)
}

func (r *Renderer) BoardReset() {
	fmt.Fprintln(r.out, "board cleared")
}

// Play reads commands from in until q, end of input or ctx is done.
// Cells are numbered 1 to 9; r resets the board.
func Play(ctx context.Context, g *game.Game, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%s\n%s", g.Board(), prompt(g))
		if !scanner.Scan() {
			break
		}

		switch cmd := strings.ToLower(strings.TrimSpace(scanner.Text())); cmd {
		case "":
		case "q", "quit":
			fmt.Fprintln(out, "bye")
			return nil
		case "r", "reset":
			g.Reset()
		default:
			move(g, cmd, out)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// mover is the part of *game.Game that move needs.
type mover interface {
	MakeMove(index int) (game.MoveResult, error)
}

func move(g mover, cmd string, out io.Writer) {
	n, err := strconv.Atoi(cmd)
	if err != nil {
		fmt.Fprintf(out, "unknown command %q\n", cmd)
		return
	}

	res, err := g.MakeMove(n - 1)
	if errors.Is(err, game.ErrInvalidIndex) {
		fmt.Fprintln(out, "pick a cell between 1 and 9")
		return
	}
	if err != nil {
		fmt.Fprintf(out, "move failed: %v\n", err)
		return
	}

	switch res.Rejection {
	case game.RejectOccupied:
		fmt.Fprintf(out, "cell %d is taken\n", n)
	case game.RejectGameOver:
		fmt.Fprintln(out, "the game is over")
	}
}

func prompt(g *game.Game) string {
	if g.Over() {
		return "r to play again, q to quit: "
	}
	p := g.Current()
	return fmt.Sprintf("%s (%s), pick a cell 1-9 (r reset, q quit): ", p.Name(), p.Mark())
}
