// Package othello implements the Othello/Reversi rules: board layout, legal-move
// generation, capture resolution, pass handling and scoring.
package othello

import (
	"strings"

	"github.com/pkg/errors"
)

// Cell is the content of a board square. Opponent colours are negations of each
// other, so the opponent of c is always -c.
type Cell int8

const (
	Empty Cell = 0
	Black Cell = 1
	White Cell = -1
)

// DefaultSize is the standard board size.
const DefaultSize = 8

// MinSize and MaxSize bound the supported board sizes. MaxSize keeps column
// notation to a single letter.
const (
	MinSize = 4
	MaxSize = 26
)

// Errors returned by engine operations.
var (
	ErrInvalidSize  = errors.New("invalid board size")
	ErrOutOfBounds  = errors.New("out of bounds")
	ErrInvalidMove  = errors.New("invalid move")
	ErrGameOver     = errors.New("game over")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrInvalidColor = errors.New("invalid color")
)

// Opponent returns the other player's colour. Empty stays Empty.
func (c Cell) Opponent() Cell {
	return -c
}

// Valid reports whether c is a player colour.
func (c Cell) Valid() bool {
	return c == Black || c == White
}

func (c Cell) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "Empty"
	}
}

// Board is a square Othello board stored row-major.
type Board struct {
	size  int
	cells []Cell
}

// ValidSize reports whether size is an even number within [MinSize, MaxSize].
func ValidSize(size int) bool {
	return size >= MinSize && size <= MaxSize && size%2 == 0
}

// NewEmptyBoard returns a board of the given size with no discs.
func NewEmptyBoard(size int) (*Board, error) {
	if !ValidSize(size) {
		return nil, errors.WithMessagef(ErrInvalidSize, "size %d", size)
	}
	return &Board{size: size, cells: make([]Cell, size*size)}, nil
}

// NewBoard returns a board in the standard starting position: White on the
// main diagonal of the centre square, Black on the anti-diagonal.
func NewBoard(size int) (*Board, error) {
	b, err := NewEmptyBoard(size)
	if err != nil {
		return nil, err
	}
	mid := size / 2
	b.set(mid-1, mid-1, White)
	b.set(mid, mid, White)
	b.set(mid-1, mid, Black)
	b.set(mid, mid-1, Black)
	return b, nil
}

// MustNewBoard is like NewBoard but panics on an invalid size.
func MustNewBoard(size int) *Board {
	b, err := NewBoard(size)
	if err != nil {
		panic(err)
	}
	return b
}

// Size returns the board width (and height).
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether (row, col) lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.size && col < b.size
}

// At returns the cell at (row, col). Out-of-bounds coordinates read as Empty.
func (b *Board) At(row, col int) Cell {
	if !b.InBounds(row, col) {
		return Empty
	}
	return b.cells[row*b.size+col]
}

// Set overwrites a single cell without applying any rules. It is meant for
// building positions, not for playing moves.
func (b *Board) Set(row, col int, c Cell) error {
	if !b.InBounds(row, col) {
		return errors.WithMessagef(ErrOutOfBounds, "(%d,%d)", row, col)
	}
	if c != Empty && !c.Valid() {
		return errors.WithMessagef(ErrInvalidColor, "%d", c)
	}
	b.set(row, col, c)
	return nil
}

func (b *Board) set(row, col int, c Cell) {
	b.cells[row*b.size+col] = c
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{size: b.size, cells: cells}
}

// Equal reports whether both boards have the same size and contents.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns the board as a [row][col] matrix of 0, 1 and -1.
func (b *Board) Rows() [][]int {
	rows := make([][]int, b.size)
	for r := range rows {
		rows[r] = make([]int, b.size)
		for c := range rows[r] {
			rows[r][c] = int(b.cells[r*b.size+c])
		}
	}
	return rows
}

// FromRows builds a board from a square matrix of 0, 1 and -1.
func FromRows(rows [][]int) (*Board, error) {
	b, err := NewEmptyBoard(len(rows))
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != b.size {
			return nil, errors.WithMessagef(ErrInvalidSize, "row %d has %d cells", r, len(row))
		}
		for c, v := range row {
			if err := b.Set(r, c, Cell(v)); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// ParseBoard builds a board from lines of 'B', 'W' and '.' (spaces ignored).
// It is mostly useful for describing positions in tests.
func ParseBoard(s string) (*Board, error) {
	var rows [][]int
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		line = strings.ReplaceAll(strings.TrimSpace(line), " ", "")
		if line == "" {
			continue
		}
		row := make([]int, 0, len(line))
		for _, ch := range line {
			switch ch {
			case 'B', 'b', 'X', 'x':
				row = append(row, int(Black))
			case 'W', 'w', 'O', 'o':
				row = append(row, int(White))
			case '.', '-':
				row = append(row, int(Empty))
			default:
				return nil, errors.Errorf("unexpected board character %q", ch)
			}
		}
		rows = append(rows, row)
	}
	return FromRows(rows)
}

// String renders the board as rows of 'B', 'W' and '.'.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			switch b.cells[r*b.size+c] {
			case Black:
				sb.WriteByte('B')
			case White:
				sb.WriteByte('W')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
