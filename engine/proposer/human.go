package proposer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"othello-local/othello"
)

var (
	// ErrUndo is returned when the human asks to take back a move.
	ErrUndo = errors.New("undo requested")
	// ErrQuit is returned when the human leaves or input ends.
	ErrQuit = errors.New("quit requested")
)

// Human reads moves from a line-oriented input such as a terminal. Each line is
// a square in notation ("d3") or as "row,col"; "undo" and "quit" are commands.
// Unparseable or illegal lines are reported on out and read again.
type Human struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewHuman returns a Human reading from in and prompting on out.
func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{in: bufio.NewScanner(in), out: out}
}

// ProposeMove implements engine.MoveProposer. It blocks on input; cancellation
// is observed between lines.
func (h *Human) ProposeMove(ctx context.Context, b *othello.Board, player othello.Cell) (othello.Pos, error) {
	for {
		if err := ctx.Err(); err != nil {
			return othello.Pos{}, err
		}
		fmt.Fprintf(h.out, "%s> ", player)
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return othello.Pos{}, errors.Wrap(err, "reading move")
			}
			return othello.Pos{}, ErrQuit
		}
		line := strings.ToLower(strings.TrimSpace(h.in.Text()))
		switch line {
		case "":
			continue
		case "undo", "u":
			return othello.Pos{}, ErrUndo
		case "quit", "q", "exit":
			return othello.Pos{}, ErrQuit
		}
		p, err := othello.ParsePos(line, b.Size())
		if err != nil {
			fmt.Fprintf(h.out, "%v\n", err)
			continue
		}
		if !othello.IsValidMove(b, p.Row, p.Col, player) {
			fmt.Fprintf(h.out, "%s is not a legal move\n", p)
			continue
		}
		return p, nil
	}
}
