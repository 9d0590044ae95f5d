// Package types contains shared data structures for othello-local.
package types

import (
	"encoding/json"

	"github.com/pkg/errors"

	"othello-local/othello"
)

// BoardState is a snapshot of an Othello game handed to the UI and callbacks.
// Board is indexed as Board[y][x] where 0=empty, 1=black, -1=white.
type BoardState struct {
	MoveNumber   int        `json:"move_number"`
	PlayerToMove int        `json:"player_to_move"` // 1=black, -1=white, 0 when finished
	Phase        string     `json:"phase"`          // "playing", "finished"
	Board        [][]int    `json:"board"`
	Black        int        `json:"black"`
	White        int        `json:"white"`
	ValidMoves   []BoardPos `json:"valid_moves"`
	Flipped      []BoardPos `json:"flipped"`
	Passed       int        `json:"passed"` // colour that had to pass on the last transition
	Outcome      string     `json:"outcome"`
	LastMove     BoardPos   `json:"last_move"`
}

// Finished returns true if the game is over.
func (b *BoardState) Finished() bool {
	return b.Phase == "finished"
}

// Height returns the board height.
func (b *BoardState) Height() int {
	return len(b.Board)
}

// Width returns the board width.
func (b *BoardState) Width() int {
	if b.Height() == 0 {
		return 0
	}
	return len(b.Board[0])
}

// IsValid reports whether (x, y) is among the legal moves of the player to move.
func (b *BoardState) IsValid(x, y int) bool {
	for _, p := range b.ValidMoves {
		if p.X == x && p.Y == y {
			return true
		}
	}
	return false
}

// WasFlipped reports whether (x, y) changed colour on the last move.
func (b *BoardState) WasFlipped(x, y int) bool {
	for _, p := range b.Flipped {
		if p.X == x && p.Y == y {
			return true
		}
	}
	return false
}

// Copy returns a deep copy.
func (b *BoardState) Copy() *BoardState {
	c := *b
	c.Board = make([][]int, len(b.Board))
	for i := range b.Board {
		c.Board[i] = make([]int, len(b.Board[i]))
		copy(c.Board[i], b.Board[i])
	}
	c.ValidMoves = append([]BoardPos(nil), b.ValidMoves...)
	c.Flipped = append([]BoardPos(nil), b.Flipped...)
	return &c
}

// BoardPos represents a position on the board.
type BoardPos struct {
	X int
	Y int
}

// FromPos converts a row/column position.
func FromPos(p othello.Pos) BoardPos {
	return BoardPos{X: p.Col, Y: p.Row}
}

// Pos converts back to a row/column position.
func (p BoardPos) Pos() othello.Pos {
	return othello.Pos{Row: p.Y, Col: p.X}
}

// MarshalJSON writes BoardPos as a JSON array [x, y].
func (p BoardPos) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON allows BoardPos to be unmarshaled from a JSON array [x, y].
func (p *BoardPos) UnmarshalJSON(data []byte) error {
	var v []float64
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}
	if len(v) != 2 {
		return errors.Errorf("board position %s: want [x, y]", data)
	}
	p.X = int(v[0])
	p.Y = int(v[1])
	return nil
}

// NewBoardState creates the snapshot of a fresh game of the given size.
func NewBoardState(size int) *BoardState {
	g, err := othello.NewGame(size)
	if err != nil {
		board := make([][]int, size)
		for i := range board {
			board[i] = make([]int, size)
		}
		return &BoardState{Phase: "playing", Board: board, LastMove: BoardPos{-1, -1}}
	}
	return FromGame(g, 0)
}

// FromGame builds a snapshot of g. moveNumber counts plies including passes.
func FromGame(g *othello.Game, moveNumber int) *BoardState {
	b := g.Board()
	black, white := g.Score()
	s := &BoardState{
		MoveNumber:   moveNumber,
		PlayerToMove: int(g.Turn()),
		Phase:        "playing",
		Board:        b.Rows(),
		Black:        black,
		White:        white,
		LastMove:     BoardPos{-1, -1},
	}
	for _, p := range g.ValidMoves() {
		s.ValidMoves = append(s.ValidMoves, FromPos(p))
	}
	if pos, _, ok := g.LastMove(); ok {
		s.LastMove = FromPos(pos)
		for _, p := range g.LastFlipped() {
			s.Flipped = append(s.Flipped, FromPos(p))
		}
	}
	if who, passed := g.Passed(); passed {
		s.Passed = int(who)
	}
	if g.Over() {
		s.Phase = "finished"
		s.Outcome = g.Outcome()
	}
	return s
}
