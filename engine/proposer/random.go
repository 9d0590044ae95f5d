// Package proposer contains the move proposers that can play a side: a random
// player, a learned policy read from a model file, and a line-reading human.
package proposer

import (
	"context"

	"github.com/pkg/errors"
	"lukechampine.com/frand"

	"othello-local/othello"
)

// ErrNoMoves is returned when the player has no legal move to propose.
var ErrNoMoves = errors.New("no legal moves")

// Intn is the random source used by Random.
type Intn interface {
	Intn(n int) int
}

type frandSource struct{}

func (frandSource) Intn(n int) int { return frand.Intn(n) }

// Random picks uniformly among the legal moves.
type Random struct {
	rng Intn
}

// NewRandom returns a Random proposer backed by frand.
func NewRandom() *Random {
	return &Random{rng: frandSource{}}
}

// NewRandomWith returns a Random proposer using rng, for reproducible play.
func NewRandomWith(rng Intn) *Random {
	return &Random{rng: rng}
}

// ProposeMove implements engine.MoveProposer.
func (r *Random) ProposeMove(ctx context.Context, b *othello.Board, player othello.Cell) (othello.Pos, error) {
	if err := ctx.Err(); err != nil {
		return othello.Pos{}, err
	}
	moves := othello.ValidMoves(b, player)
	if len(moves) == 0 {
		return othello.Pos{}, errors.WithMessagef(ErrNoMoves, "%s", player)
	}
	return moves[r.rng.Intn(len(moves))], nil
}
