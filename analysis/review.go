package analysis

import (
	"fmt"
	"strings"

	"othello-local/othello"
)

// Category classifies a square by its strategic role.
type Category int

const (
	Interior Category = iota
	Edge
	CSquare // edge square touching a corner
	XSquare // diagonal neighbour of a corner
	Corner
)

func (c Category) String() string {
	switch c {
	case Corner:
		return "corner"
	case XSquare:
		return "X-square"
	case CSquare:
		return "C-square"
	case Edge:
		return "edge"
	default:
		return "interior"
	}
}

// Categorize returns the category of p on a size x size board.
func Categorize(p othello.Pos, size int) Category {
	last := size - 1
	onEdge := func(v int) bool { return v == 0 || v == last }
	nearEdge := func(v int) bool { return v == 1 || v == last-1 }

	switch {
	case onEdge(p.Row) && onEdge(p.Col):
		return Corner
	case nearEdge(p.Row) && nearEdge(p.Col):
		return XSquare
	case onEdge(p.Row) && nearEdge(p.Col), nearEdge(p.Row) && onEdge(p.Col):
		return CSquare
	case onEdge(p.Row) || onEdge(p.Col):
		return Edge
	}
	return Interior
}

// Corners returns the four corner squares.
func Corners(size int) [4]othello.Pos {
	last := size - 1
	return [4]othello.Pos{{Row: 0, Col: 0}, {Row: 0, Col: last}, {Row: last, Col: 0}, {Row: last, Col: last}}
}

// ReviewMove explains with heuristics why player's move at pos, turning
// before into after, was good or bad.
func ReviewMove(before, after *othello.Board, player othello.Cell, pos othello.Pos) string {
	var sb strings.Builder
	size := before.Size()
	opponent := player.Opponent()

	fmt.Fprintf(&sb, "%s played %s.\n\n", player, pos)

	switch Categorize(pos, size) {
	case Corner:
		sb.WriteString("Corner taken. Corners can never be flipped, so this is almost always right.\n")
	case XSquare:
		sb.WriteString("X-square, diagonal to a corner. This usually hands the corner to the opponent.\n")
	case CSquare:
		sb.WriteString("C-square, next to a corner on the edge. It can open the corner for the opponent.\n")
	case Edge:
		sb.WriteString("Edge square. Edges are hard to flip back and generally stable.\n")
	default:
		sb.WriteString("Interior square. Its stability depends on the discs around it.\n")
	}

	b0, w0 := othello.CountDiscs(before)
	b1, w1 := othello.CountDiscs(after)
	gained := b1 - b0
	if player == othello.White {
		gained = w1 - w0
	}
	fmt.Fprintf(&sb, "\nFlipped %d disc(s).\n", gained-1)
	if gained > 5 && othello.CountEmpty(after) > size*size/4 {
		sb.WriteString("Flipping many discs before the endgame tends to give the opponent more moves.\n")
	}

	movesBefore := len(othello.ValidMoves(before, opponent))
	movesAfter := len(othello.ValidMoves(after, opponent))
	fmt.Fprintf(&sb, "\nOpponent mobility: %d -> %d moves.\n", movesBefore, movesAfter)
	switch {
	case movesAfter > movesBefore:
		sb.WriteString("The opponent got more options.\n")
	case movesAfter < movesBefore:
		sb.WriteString("The opponent's options shrank.\n")
	}

	gaveCorner := false
	for _, c := range Corners(size) {
		if before.At(c.Row, c.Col) == othello.Empty && after.At(c.Row, c.Col) == opponent {
			gaveCorner = true
			fmt.Fprintf(&sb, "\nThe opponent holds corner %s.\n", c)
		}
	}
	if !gaveCorner {
		var access []string
		for _, c := range Corners(size) {
			if othello.IsValidMove(after, c.Row, c.Col, opponent) {
				access = append(access, c.String())
			}
		}
		if len(access) > 0 {
			fmt.Fprintf(&sb, "\nThe opponent can now take corner %s.\n", strings.Join(access, ", "))
		}
	}

	if best, ok := Best(ScoreMoves(before, player)); ok && best.Pos != pos {
		fmt.Fprintf(&sb, "\nThe heatmap preferred %s (%.1f).\n", best.Pos, best.Score)
	}

	sb.WriteString("\nTips:\n")
	sb.WriteString("  1. Take corners whenever you can.\n")
	sb.WriteString("  2. Stay off X-squares unless the corner is already settled.\n")
	sb.WriteString("  3. In the opening and middle game fewer discs is often better.\n")
	sb.WriteString("  4. Keep the opponent's move count low.\n")
	return sb.String()
}
