package othello

import (
	"fmt"

	"github.com/pkg/errors"
)

// State is the turn state of a game.
type State int

const (
	BlackToMove State = iota
	WhiteToMove
	GameOver
)

func (s State) String() string {
	switch s {
	case BlackToMove:
		return "black to move"
	case WhiteToMove:
		return "white to move"
	default:
		return "game over"
	}
}

// Game couples a board with the turn protocol: after a move the opponent plays,
// unless the opponent has no legal move (a pass), in which case the mover plays
// again; when neither side can move the game is over.
type Game struct {
	board    *Board
	state    State
	moves    int
	last     *Pos
	lastBy   Cell
	flipped  []Pos
	passed   bool
	passedBy Cell
}

// NewGame starts a game on a fresh board with Black to move.
func NewGame(size int) (*Game, error) {
	b, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	return NewGameFrom(b, Black)
}

// NewGameFrom resumes play from an arbitrary position. If toMove has no legal
// move but the opponent does, the opponent is to move; if neither can move the
// game is already over. The board is cloned.
func NewGameFrom(b *Board, toMove Cell) (*Game, error) {
	if !toMove.Valid() {
		return nil, errors.WithMessagef(ErrInvalidColor, "%d", toMove)
	}
	g := &Game{board: b.Clone()}
	g.resolve(toMove)
	return g, nil
}

// resolve sets the state for next to move, applying the pass rule.
func (g *Game) resolve(next Cell) {
	g.passed = false
	g.passedBy = Empty
	switch {
	case HasValidMoves(g.board, next):
		g.state = stateFor(next)
	case HasValidMoves(g.board, next.Opponent()):
		g.passed = true
		g.passedBy = next
		g.state = stateFor(next.Opponent())
	default:
		g.state = GameOver
	}
}

func stateFor(c Cell) State {
	if c == White {
		return WhiteToMove
	}
	return BlackToMove
}

// Play places a disc for the player to move. It fails with ErrGameOver once the
// game has ended, and with ErrOutOfBounds or ErrInvalidMove (board untouched)
// when the square cannot be played.
func (g *Game) Play(row, col int) error {
	if g.state == GameOver {
		return ErrGameOver
	}
	player := g.Turn()
	flips, err := PlaceDisc(g.board, row, col, player)
	if err != nil {
		return err
	}
	g.moves++
	g.last = &Pos{Row: row, Col: col}
	g.lastBy = player
	g.flipped = flips
	g.resolve(player.Opponent())
	return nil
}

// PlayAs is Play with an explicit player, rejecting out-of-turn moves with
// ErrNotYourTurn.
func (g *Game) PlayAs(player Cell, row, col int) error {
	if g.state == GameOver {
		return ErrGameOver
	}
	if player != g.Turn() {
		return errors.WithMessagef(ErrNotYourTurn, "%s tried to move, %s", player, g.state)
	}
	return g.Play(row, col)
}

// Turn returns the colour to move, or Empty when the game is over.
func (g *Game) Turn() Cell {
	switch g.state {
	case BlackToMove:
		return Black
	case WhiteToMove:
		return White
	default:
		return Empty
	}
}

// State returns the current turn state.
func (g *Game) State() State {
	return g.state
}

// Over reports whether no further moves are accepted.
func (g *Game) Over() bool {
	return g.state == GameOver
}

// Board returns a copy of the current position.
func (g *Game) Board() *Board {
	return g.board.Clone()
}

// Size returns the board size.
func (g *Game) Size() int {
	return g.board.size
}

// MoveCount returns the number of discs placed since the game was created.
func (g *Game) MoveCount() int {
	return g.moves
}

// LastMove returns the most recent move and who played it.
func (g *Game) LastMove() (Pos, Cell, bool) {
	if g.last == nil {
		return Pos{}, Empty, false
	}
	return *g.last, g.lastBy, true
}

// LastFlipped returns the discs flipped by the most recent move.
func (g *Game) LastFlipped() []Pos {
	out := make([]Pos, len(g.flipped))
	copy(out, g.flipped)
	return out
}

// Passed reports whether the last transition skipped a player, and which one.
func (g *Game) Passed() (Cell, bool) {
	return g.passedBy, g.passed
}

// ValidMoves returns the legal moves of the player to move.
func (g *Game) ValidMoves() []Pos {
	if g.state == GameOver {
		return nil
	}
	return ValidMoves(g.board, g.Turn())
}

// Score returns the current disc counts.
func (g *Game) Score() (black, white int) {
	return CountDiscs(g.board)
}

// Winner returns the winning colour once the game is over (Empty for a draw),
// and false while the game is still running.
func (g *Game) Winner() (Cell, bool) {
	if g.state != GameOver {
		return Empty, false
	}
	return Winner(g.board), true
}

// Outcome describes the final result, e.g. "Black wins 40-24" or "Draw 32-32".
func (g *Game) Outcome() string {
	black, white := CountDiscs(g.board)
	switch Winner(g.board) {
	case Black:
		return fmt.Sprintf("Black wins %d-%d", black, white)
	case White:
		return fmt.Sprintf("White wins %d-%d", white, black)
	default:
		return fmt.Sprintf("Draw %d-%d", black, white)
	}
}
