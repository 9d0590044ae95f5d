package proposer

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"othello-local/othello"
)

// ErrBadModel is returned when a model file does not describe a usable policy.
var ErrBadModel = errors.New("invalid policy model")

// Model is a linear policy over flattened board actions. Features are the board
// seen from the mover's side: +1 own disc, -1 opposing disc, 0 empty.
type Model struct {
	Size    int         `json:"size"`
	Weights [][]float64 `json:"weights"` // [action][cell]
	Bias    []float64   `json:"bias"`    // [action]
}

// Validate checks the model dimensions.
func (m *Model) Validate() error {
	if !othello.ValidSize(m.Size) {
		return errors.WithMessagef(ErrBadModel, "size %d", m.Size)
	}
	n := m.Size * m.Size
	if len(m.Weights) != n {
		return errors.WithMessagef(ErrBadModel, "%d weight rows, want %d", len(m.Weights), n)
	}
	for a, row := range m.Weights {
		if len(row) != n {
			return errors.WithMessagef(ErrBadModel, "action %d has %d weights, want %d", a, len(row), n)
		}
	}
	if m.Bias != nil && len(m.Bias) != n {
		return errors.WithMessagef(ErrBadModel, "%d biases, want %d", len(m.Bias), n)
	}
	return nil
}

// LoadModel reads a model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading model")
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(ErrBadModel, "decoding %s: %v", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Save writes the model as JSON.
func (m *Model) Save(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Scores returns the policy's score for every action.
func (m *Model) Scores(b *othello.Board, player othello.Cell) []float64 {
	n := m.Size * m.Size
	features := make([]float64, n)
	for r := 0; r < m.Size; r++ {
		for c := 0; c < m.Size; c++ {
			features[r*m.Size+c] = float64(b.At(r, c) * player)
		}
	}
	scores := make([]float64, n)
	for a := 0; a < n; a++ {
		var s float64
		if m.Bias != nil {
			s = m.Bias[a]
		}
		for i, w := range m.Weights[a] {
			s += w * features[i]
		}
		scores[a] = s
	}
	return scores
}

// Policy proposes the action with the highest model score. The proposal is
// not filtered for legality.
type Policy struct {
	model *Model
}

// NewPolicy wraps a validated model.
func NewPolicy(m *Model) *Policy {
	return &Policy{model: m}
}

// ProposeMove implements engine.MoveProposer.
func (p *Policy) ProposeMove(ctx context.Context, b *othello.Board, player othello.Cell) (othello.Pos, error) {
	if err := ctx.Err(); err != nil {
		return othello.Pos{}, err
	}
	if b.Size() != p.model.Size {
		return othello.Pos{}, errors.WithMessagef(ErrBadModel, "model is %dx%d, board is %dx%d",
			p.model.Size, p.model.Size, b.Size(), b.Size())
	}
	scores := p.model.Scores(b, player)
	best := 0
	for a, s := range scores {
		if s > scores[best] {
			best = a
		}
	}
	return othello.PosFromAction(best, b.Size()), nil
}
