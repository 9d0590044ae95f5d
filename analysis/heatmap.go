// Package analysis scores candidate moves, reviews played moves and talks to
// a local language model about positions. It only ever reads boards; every
// what-if is played on a clone.
package analysis

import (
	"othello-local/othello"
)

// MoveScore is the heuristic value of one legal move.
type MoveScore struct {
	Pos           othello.Pos
	Score         float64 // 1 (bad) to 10 (good)
	Raw           int
	Flipped       int
	OpponentMoves int
}

var table8 = [8][8]int{
	{100, -20, 10, 5, 5, 10, -20, 100},
	{-20, -40, -5, -5, -5, -5, -40, -20},
	{10, -5, 5, 1, 1, 5, -5, 10},
	{5, -5, 1, 1, 1, 1, -5, 5},
	{5, -5, 1, 1, 1, 1, -5, 5},
	{10, -5, 5, 1, 1, 5, -5, 10},
	{-20, -40, -5, -5, -5, -5, -40, -20},
	{100, -20, 10, 5, 5, 10, -20, 100},
}

// PositionValue returns the static value of a square. Boards other than 8x8
// use values derived from the square's category.
func PositionValue(p othello.Pos, size int) int {
	if size == 8 {
		return table8[p.Row][p.Col]
	}
	switch Categorize(p, size) {
	case Corner:
		return 100
	case XSquare:
		return -40
	case CSquare:
		return -20
	case Edge:
		return 5
	}
	last := size - 1
	if p.Row == 1 || p.Col == 1 || p.Row == last-1 || p.Col == last-1 {
		return -5
	}
	return 1
}

// ScoreMoves rates every legal move of player: positional value, plus two per
// flipped disc, minus three per reply left to the opponent, mapped onto 1-10.
// Results are in row-major order.
func ScoreMoves(b *othello.Board, player othello.Cell) []MoveScore {
	moves := othello.ValidMoves(b, player)
	scores := make([]MoveScore, 0, len(moves))
	for _, m := range moves {
		test := b.Clone()
		flipped, err := othello.PlaceDisc(test, m.Row, m.Col, player)
		if err != nil {
			continue
		}
		opp := len(othello.ValidMoves(test, player.Opponent()))
		raw := PositionValue(m, b.Size()) + 2*len(flipped) - 3*opp
		scores = append(scores, MoveScore{
			Pos:           m,
			Score:         normalize(raw),
			Raw:           raw,
			Flipped:       len(flipped),
			OpponentMoves: opp,
		})
	}
	return scores
}

func normalize(raw int) float64 {
	s := (float64(raw) + 50) / 20
	if s < 1 {
		return 1
	}
	if s > 10 {
		return 10
	}
	return s
}

// Best returns the highest scoring move, first in row-major order on ties.
func Best(scores []MoveScore) (MoveScore, bool) {
	if len(scores) == 0 {
		return MoveScore{}, false
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Raw > best.Raw {
			best = s
		}
	}
	return best, true
}

// Range returns the lowest and highest normalised scores.
func Range(scores []MoveScore) (lo, hi float64) {
	for i, s := range scores {
		if i == 0 || s.Score < lo {
			lo = s.Score
		}
		if i == 0 || s.Score > hi {
			hi = s.Score
		}
	}
	return lo, hi
}

// HeatColor maps score within [lo, hi] onto a red, yellow, green gradient.
func HeatColor(score, lo, hi float64) (r, g, b int32) {
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	n := (score - lo) / span
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	if n < 0.5 {
		return 255, int32(255 * n * 2), 0
	}
	return int32(255 * (1 - (n-0.5)*2)), 255, 0
}
