package othello

import "github.com/pkg/errors"

// directions lists the eight rays walked from a candidate square.
var directions = [8]Pos{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// IsValidMove reports whether player may place a disc at (row, col): the square
// must be empty and at least one ray must cross one or more opposing discs and
// end on one of player's own. Off-board squares are never valid.
func IsValidMove(b *Board, row, col int, player Cell) bool {
	if !player.Valid() || !b.InBounds(row, col) || b.At(row, col) != Empty {
		return false
	}
	for _, d := range directions {
		if rayLength(b, row, col, d, player) > 0 {
			return true
		}
	}
	return false
}

// rayLength returns how many opposing discs a disc at (row, col) would capture
// along d, or 0 when the run is not closed by one of player's discs.
func rayLength(b *Board, row, col int, d Pos, player Cell) int {
	opponent := player.Opponent()
	r, c := row+d.Row, col+d.Col
	n := 0
	for b.InBounds(r, c) {
		switch b.At(r, c) {
		case opponent:
			n++
		case player:
			return n
		default:
			return 0
		}
		r += d.Row
		c += d.Col
	}
	return 0
}

// ValidMoves returns every legal square for player in row-major order.
func ValidMoves(b *Board, player Cell) []Pos {
	var moves []Pos
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if IsValidMove(b, r, c, player) {
				moves = append(moves, Pos{Row: r, Col: c})
			}
		}
	}
	return moves
}

// HasValidMoves reports whether player has at least one legal move. It stops
// at the first one found.
func HasValidMoves(b *Board, player Cell) bool {
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			if IsValidMove(b, r, c, player) {
				return true
			}
		}
	}
	return false
}

// IsTerminal reports whether neither colour can move. Empty squares may remain.
func IsTerminal(b *Board) bool {
	return !HasValidMoves(b, Black) && !HasValidMoves(b, White)
}

// Flips returns the capture set of a move without changing the board. The set
// is empty for illegal moves.
func Flips(b *Board, row, col int, player Cell) []Pos {
	if !player.Valid() || !b.InBounds(row, col) || b.At(row, col) != Empty {
		return nil
	}
	var flips []Pos
	for _, d := range directions {
		n := rayLength(b, row, col, d, player)
		for i := 1; i <= n; i++ {
			flips = append(flips, Pos{Row: row + d.Row*i, Col: col + d.Col*i})
		}
	}
	return flips
}

// PlaceDisc plays player's disc at (row, col) and flips every captured run.
// The move is validated first: an off-board square yields ErrOutOfBounds and
// an illegal one ErrInvalidMove, in both cases without touching the board.
// The flipped squares are returned.
func PlaceDisc(b *Board, row, col int, player Cell) ([]Pos, error) {
	if !player.Valid() {
		return nil, errors.WithMessagef(ErrInvalidColor, "%d", player)
	}
	if !b.InBounds(row, col) {
		return nil, errors.WithMessagef(ErrOutOfBounds, "(%d,%d)", row, col)
	}
	flips := Flips(b, row, col, player)
	if len(flips) == 0 {
		return nil, errors.WithMessagef(ErrInvalidMove, "%s at %s", player, Pos{Row: row, Col: col})
	}
	// Flips were collected against the pre-move board, so rays cannot
	// influence each other.
	b.set(row, col, player)
	for _, p := range flips {
		b.set(p.Row, p.Col, player)
	}
	return flips, nil
}

// CountDiscs returns the number of black and white discs.
func CountDiscs(b *Board) (black, white int) {
	for _, c := range b.cells {
		switch c {
		case Black:
			black++
		case White:
			white++
		}
	}
	return black, white
}

// CountEmpty returns the number of empty squares.
func CountEmpty(b *Board) int {
	black, white := CountDiscs(b)
	return len(b.cells) - black - white
}

// Winner returns the colour with more discs, or Empty on a tie.
func Winner(b *Board) Cell {
	black, white := CountDiscs(b)
	switch {
	case black > white:
		return Black
	case white > black:
		return White
	default:
		return Empty
	}
}
