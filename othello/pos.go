package othello

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Pos is a board coordinate. Row 0 is the top row, Col 0 the leftmost column.
type Pos struct {
	Row int
	Col int
}

// Action flattens the position into row*size+col, the index used by learned
// policies.
func (p Pos) Action(size int) int {
	return p.Row*size + p.Col
}

// PosFromAction is the inverse of Pos.Action.
func PosFromAction(action, size int) Pos {
	return Pos{Row: action / size, Col: action % size}
}

// String returns the move in Othello notation: column letter then 1-based row.
// (2,3) -> "d3".
func (p Pos) String() string {
	if p.Col < 0 || p.Col >= MaxSize || p.Row < 0 {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col, p.Row+1)
}

// ParsePos accepts "d3" notation or a "row,col" pair of 0-indexed integers.
// The result is checked against size.
func ParsePos(s string, size int) (Pos, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Pos{}, errors.New("empty coordinate")
	}

	var p Pos
	if i := strings.IndexByte(s, ','); i >= 0 {
		row, err := strconv.Atoi(strings.TrimSpace(s[:i]))
		if err != nil {
			return Pos{}, errors.Errorf("invalid row in %q", s)
		}
		col, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
		if err != nil {
			return Pos{}, errors.Errorf("invalid column in %q", s)
		}
		p = Pos{Row: row, Col: col}
	} else {
		if s[0] < 'a' || s[0] > 'z' {
			return Pos{}, errors.Errorf("invalid column in %q", s)
		}
		row, err := strconv.Atoi(s[1:])
		if err != nil {
			return Pos{}, errors.Errorf("invalid row in %q", s)
		}
		p = Pos{Row: row - 1, Col: int(s[0] - 'a')}
	}

	if p.Row < 0 || p.Col < 0 || p.Row >= size || p.Col >= size {
		return Pos{}, errors.WithMessagef(ErrOutOfBounds, "%q", s)
	}
	return p, nil
}
