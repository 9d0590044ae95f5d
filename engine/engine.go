// Package engine defines the interface for game engines.
package engine

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"othello-local/othello"
	"othello-local/types"
)

// GameEngine defines the interface for playing Othello against an opponent.
type GameEngine interface {
	// Connect initializes the game and schedules the opponent if it moves first.
	Connect() error

	// GetBoardState returns a snapshot of the current board.
	GetBoardState() *types.BoardState

	// PlayMove plays the human's disc at column x, row y.
	// Returns an error if the move is illegal.
	PlayMove(x, y int) error

	// IsMyTurn returns true if it's the human player's turn.
	IsMyTurn() bool

	// GetPlayerColor returns the human player's color (1=black, -1=white).
	GetPlayerColor() int

	// OnMove registers a callback for when a move is played (by either player).
	// Passing is automatic: a side without a legal move is reported with
	// x, y = -1, -1. boardState is passed directly to avoid lock contention.
	OnMove(func(x, y, color int, boardState *types.BoardState))

	// Undo takes back moves until it is the human's turn again. A finished
	// game cannot be undone.
	Undo() (*UndoInfo, error)

	// Redo replays the next move of the current line, if any.
	Redo() error

	// OnGameEnd registers a callback for when the game ends.
	OnGameEnd(func(outcome string))

	// Close shuts down the engine.
	Close()
}

// UndoInfo describes the human move removed by Undo.
type UndoInfo struct {
	Before *othello.Board // position the human moved from
	After  *othello.Board // position right after the human's move
	Player othello.Cell
	Pos    othello.Pos
}

// MoveProposer suggests a square for player. Proposals may be illegal; callers
// check them with othello.IsValidMove.
type MoveProposer interface {
	ProposeMove(ctx context.Context, board *othello.Board, player othello.Cell) (othello.Pos, error)
}

// Mode selects who plays the side opposite the human.
type Mode string

const (
	ModeHuman   Mode = "human"   // both sides at the keyboard
	ModeRandom  Mode = "random"  // uniform random opponent
	ModeTrained Mode = "trained" // learned policy opponent
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeRandom, ModeTrained, ModeHuman}

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("unknown mode")

// ParseMode converts a flag or config value into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", errors.WithMessagef(ErrUnknownMode, "%q", s)
}

// ParseColor converts "black"/"white" (or "b"/"w") into 1 or -1.
func ParseColor(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return int(othello.Black), nil
	case "white", "w":
		return int(othello.White), nil
	}
	return 0, errors.WithMessagef(othello.ErrInvalidColor, "%q", s)
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	BoardSize   int    // even, 4 to 26
	Mode        Mode   // opponent kind
	PlayerColor int    // 1=black, -1=white
	ModelPath   string // policy file for ModeTrained
	LoadSGFPath string // optional SGF transcript to start from
	EngineDelay int    // milliseconds the opponent waits before moving
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		BoardSize:   othello.DefaultSize,
		Mode:        ModeRandom,
		PlayerColor: int(othello.Black), // Human plays black
		EngineDelay: 300,
	}
}
