// Package local implements engine.GameEngine in-process: the game runs on an
// othello.Game and the opponent is any engine.MoveProposer.
package local

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"othello-local/engine"
	"othello-local/engine/proposer"
	"othello-local/othello"
	"othello-local/sgf"
	"othello-local/types"
)

var (
	// ErrNothingToUndo is returned when no human move is left to take back.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned when the current line has no next move.
	ErrNothingToRedo = errors.New("nothing to redo")
)

type moveEvent struct {
	x, y, color int
	state       *types.BoardState
}

// Engine implements the GameEngine interface against a local opponent.
type Engine struct {
	config      engine.GameConfig
	opponent    engine.MoveProposer // nil when both sides are human
	fallback    engine.MoveProposer
	playerColor othello.Cell

	start      *othello.Board
	startTurn  othello.Cell
	game       *othello.Game
	tree       *sgf.GameTree
	record     *sgf.GameRecord
	endFired   bool
	generation int // bumped whenever the position is rewound or replaced

	moveCallback func(x, y, color int, boardState *types.BoardState)
	endCallback  func(outcome string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewEngine creates an engine for cfg. opponent may be nil in human mode; in
// the other modes a nil opponent plays randomly.
func NewEngine(cfg engine.GameConfig, opponent engine.MoveProposer) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		config:      cfg,
		opponent:    opponent,
		fallback:    proposer.NewRandom(),
		playerColor: othello.Cell(cfg.PlayerColor),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// NewOpponent builds the proposer for cfg.Mode. Trained mode without a model
// file plays randomly.
func NewOpponent(cfg engine.GameConfig) (engine.MoveProposer, error) {
	switch cfg.Mode {
	case engine.ModeHuman:
		return nil, nil
	case engine.ModeRandom, "":
		return proposer.NewRandom(), nil
	case engine.ModeTrained:
		if cfg.ModelPath == "" {
			log.Warn().Msg("no-model-file-playing-random")
			return proposer.NewRandom(), nil
		}
		m, err := proposer.LoadModel(cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		return proposer.NewPolicy(m), nil
	}
	return nil, errors.WithMessagef(engine.ErrUnknownMode, "%q", cfg.Mode)
}

// Connect sets up the game, replaying cfg.LoadSGFPath when given, and starts
// the opponent if it is to move.
func (e *Engine) Connect() error {
	if !e.playerColor.Valid() {
		return errors.WithMessagef(othello.ErrInvalidColor, "player color %d", e.config.PlayerColor)
	}

	e.mu.Lock()
	var loaded []sgf.Move
	if e.config.LoadSGFPath != "" {
		tr, err := sgf.LoadFile(e.config.LoadSGFPath)
		if err != nil {
			e.mu.Unlock()
			return err
		}
		b, toPlay, err := tr.StartBoard()
		if err != nil {
			e.mu.Unlock()
			return err
		}
		e.config.BoardSize = tr.Info.BoardSize
		e.start, e.startTurn = b, toPlay
		loaded = tr.Moves
	} else {
		b, err := othello.NewBoard(e.config.BoardSize)
		if err != nil {
			e.mu.Unlock()
			return err
		}
		e.start, e.startTurn = b, othello.Black
	}

	game, err := othello.NewGameFrom(e.start, e.startTurn)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.game = game
	e.tree = sgf.NewGameTree()
	e.record = sgf.NewGameRecord(e.config.BoardSize, e.playerName(othello.Black), e.playerName(othello.White))
	if e.config.LoadSGFPath != "" && !e.start.Equal(othello.MustNewBoard(e.config.BoardSize)) {
		e.record.SetSetupPosition(e.start, e.startTurn)
	}
	for i, m := range loaded {
		if err := sgf.ReplayMoves(e.game, []sgf.Move{m}); err != nil {
			e.mu.Unlock()
			return errors.WithMessagef(err, "%s move %d", e.config.LoadSGFPath, i+1)
		}
		e.tree.AddMove(m)
	}

	log.Info().
		Int("size", e.config.BoardSize).
		Str("mode", string(e.config.Mode)).
		Str("human", e.playerColor.String()).
		Int("loaded-moves", len(loaded)).
		Msg("game-started")

	ended, outcome := e.checkEnd()
	startOpponent := !ended && !e.humanTurn()
	gen := e.generation
	e.mu.Unlock()

	if ended {
		e.fireEnd(outcome)
	}
	if startOpponent {
		e.startOpponent(gen)
	}
	return nil
}

func (e *Engine) playerName(c othello.Cell) string {
	if e.config.Mode == engine.ModeHuman {
		return "Player " + c.String()
	}
	if c == e.playerColor {
		return "Player"
	}
	if e.config.Mode == engine.ModeTrained && e.config.ModelPath != "" {
		return "Policy"
	}
	return "Random"
}

// humanTurn reports whether the side to move is at the keyboard.
// Must be called while holding the lock.
func (e *Engine) humanTurn() bool {
	if e.game.Over() {
		return false
	}
	if e.config.Mode == engine.ModeHuman {
		return true
	}
	return e.game.Turn() == e.playerColor
}

// GetBoardState returns a snapshot of the current board.
func (e *Engine) GetBoardState() *types.BoardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// snapshot must be called while holding the lock.
func (e *Engine) snapshot() *types.BoardState {
	return types.FromGame(e.game, e.tree.Depth())
}

// PlayMove plays the human's disc at column x, row y.
func (e *Engine) PlayMove(x, y int) error {
	e.mu.Lock()
	if e.game.Over() {
		e.mu.Unlock()
		return othello.ErrGameOver
	}
	if !e.humanTurn() {
		e.mu.Unlock()
		return othello.ErrNotYourTurn
	}

	player := e.game.Turn()
	pos := othello.Pos{Row: y, Col: x}
	if err := e.game.Play(pos.Row, pos.Col); err != nil {
		e.mu.Unlock()
		return err
	}
	events := e.afterMove(player, pos)
	ended, outcome := e.checkEnd()
	startOpponent := !ended && !e.humanTurn()
	gen := e.generation
	e.mu.Unlock()

	// Notify callbacks outside the lock to prevent deadlock
	e.fireMoves(events)
	if ended {
		e.fireEnd(outcome)
	}
	if startOpponent {
		e.startOpponent(gen)
	}
	return nil
}

// afterMove records a played move and any pass it caused.
// Must be called while holding the lock.
func (e *Engine) afterMove(player othello.Cell, pos othello.Pos) []moveEvent {
	e.tree.AddMove(sgf.Move{Color: player, Pos: pos})
	log.Debug().Str("player", player.String()).Str("pos", pos.String()).Int("flipped", len(e.game.LastFlipped())).Msg("move")

	events := []moveEvent{{x: pos.Col, y: pos.Row, color: int(player), state: e.snapshot()}}
	if who, passed := e.game.Passed(); passed {
		e.tree.AddMove(sgf.PassMove(who))
		log.Info().Str("player", who.String()).Msg("pass")
		events = append(events, moveEvent{x: -1, y: -1, color: int(who), state: e.snapshot()})
	}
	return events
}

// checkEnd marks the end of the game once. Must be called while holding the lock.
func (e *Engine) checkEnd() (bool, string) {
	if !e.game.Over() || e.endFired {
		return false, ""
	}
	e.endFired = true
	black, white := e.game.Score()
	e.record.SetScore(black, white)
	outcome := e.game.Outcome()
	log.Info().Int("black", black).Int("white", white).Str("outcome", outcome).Msg("game-over")
	return true, outcome
}

func (e *Engine) fireMoves(events []moveEvent) {
	if e.moveCallback == nil {
		return
	}
	for _, ev := range events {
		e.moveCallback(ev.x, ev.y, ev.color, ev.state)
	}
}

func (e *Engine) fireEnd(outcome string) {
	if e.endCallback != nil {
		e.endCallback(outcome)
	}
}

func (e *Engine) startOpponent(gen int) {
	e.wg.Add(1)
	go e.runOpponent(gen)
}

// runOpponent plays opponent moves until the human is to move, the game ends
// or the position is rewound.
func (e *Engine) runOpponent(gen int) {
	defer e.wg.Done()
	delay := time.Duration(e.config.EngineDelay) * time.Millisecond

	for {
		if delay > 0 {
			select {
			case <-e.ctx.Done():
				return
			case <-time.After(delay):
			}
		}

		e.mu.Lock()
		if e.ctx.Err() != nil || e.generation != gen || e.game.Over() || e.humanTurn() {
			e.mu.Unlock()
			return
		}
		board := e.game.Board()
		player := e.game.Turn()
		e.mu.Unlock()

		pos := e.propose(board, player)

		e.mu.Lock()
		if e.ctx.Err() != nil || e.generation != gen {
			e.mu.Unlock()
			return
		}
		if err := e.game.Play(pos.Row, pos.Col); err != nil {
			log.Err(err).Str("pos", pos.String()).Msg("opponent-move-failed")
			e.mu.Unlock()
			return
		}
		events := e.afterMove(player, pos)
		ended, outcome := e.checkEnd()
		humanNext := e.humanTurn()
		e.mu.Unlock()

		e.fireMoves(events)
		if ended {
			e.fireEnd(outcome)
			return
		}
		if humanNext {
			return
		}
	}
}

// propose asks the opponent for a move and falls back to a random legal move
// when it fails or proposes an illegal square.
func (e *Engine) propose(board *othello.Board, player othello.Cell) othello.Pos {
	if e.opponent != nil {
		pos, err := e.opponent.ProposeMove(e.ctx, board, player)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("proposer-failed")
		case !othello.IsValidMove(board, pos.Row, pos.Col, player):
			log.Warn().Str("pos", pos.String()).Str("player", player.String()).Msg("rejected-proposal")
		default:
			return pos
		}
	}
	pos, err := e.fallback.ProposeMove(e.ctx, board, player)
	if err != nil {
		log.Err(err).Msg("fallback-failed")
	}
	return pos
}

// IsMyTurn returns true if it's the human player's turn.
func (e *Engine) IsMyTurn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.humanTurn()
}

// GetPlayerColor returns the human player's color (1=black, -1=white). With
// both sides human it is the colour to move.
func (e *Engine) GetPlayerColor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.config.Mode == engine.ModeHuman && e.game != nil && !e.game.Over() {
		return int(e.game.Turn())
	}
	return int(e.playerColor)
}

// OnMove registers a callback for when a move is played.
func (e *Engine) OnMove(callback func(x, y, color int, boardState *types.BoardState)) {
	e.moveCallback = callback
}

// OnGameEnd registers a callback for when the game ends.
func (e *Engine) OnGameEnd(callback func(outcome string)) {
	e.endCallback = callback
}

// replay rebuilds the game from the starting position.
// Must be called while holding the lock.
func (e *Engine) replay(moves []sgf.Move) (*othello.Game, error) {
	g, err := othello.NewGameFrom(e.start, e.startTurn)
	if err != nil {
		return nil, err
	}
	if err := sgf.ReplayMoves(g, moves); err != nil {
		return nil, err
	}
	return g, nil
}

// isHumanMove reports whether m was played from the keyboard.
func (e *Engine) isHumanMove(m sgf.Move) bool {
	if m.Pass {
		return false
	}
	return e.config.Mode == engine.ModeHuman || m.Color == e.playerColor
}

// Undo takes back the last human move together with every reply that
// followed it. The undone line stays in the move tree for Redo. A finished
// game is final and cannot be undone.
func (e *Engine) Undo() (*engine.UndoInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.game.Over() {
		return nil, othello.ErrGameOver
	}
	path := e.tree.PathFromRoot()
	i := len(path) - 1
	for i >= 0 && !e.isHumanMove(path[i]) {
		i--
	}
	if i < 0 {
		return nil, ErrNothingToUndo
	}

	before, err := e.replay(path[:i])
	if err != nil {
		return nil, err
	}
	after, err := e.replay(path[:i+1])
	if err != nil {
		return nil, err
	}
	for n := len(path); n > i; n-- {
		e.tree.Back()
	}

	e.game = before
	e.generation++

	info := &engine.UndoInfo{
		Before: before.Board(),
		After:  after.Board(),
		Player: path[i].Color,
		Pos:    path[i].Pos,
	}
	log.Info().Str("player", info.Player.String()).Str("pos", info.Pos.String()).Msg("undo")
	return info, nil
}

// Redo replays the next human move of the current line and the replies that
// were recorded after it. If no reply was recorded the opponent moves again.
func (e *Engine) Redo() error {
	e.mu.Lock()
	if !e.tree.HasChildren() {
		e.mu.Unlock()
		return ErrNothingToRedo
	}

	for first := true; e.tree.HasChildren() && !e.game.Over(); first = false {
		next := e.tree.Current.Children[0].Move
		if !first && e.humanTurn() && !next.Pass {
			break
		}
		if err := sgf.ReplayMoves(e.game, []sgf.Move{next}); err != nil {
			e.mu.Unlock()
			return err
		}
		e.tree.Forward(0)
	}
	e.generation++
	ended, outcome := e.checkEnd()
	startOpponent := !ended && !e.humanTurn()
	gen := e.generation
	state := e.snapshot()
	e.mu.Unlock()

	log.Info().Int("ply", state.MoveNumber).Msg("redo")
	if ended {
		e.fireEnd(outcome)
	}
	if startOpponent {
		e.startOpponent(gen)
	}
	return nil
}

// Transcript returns the game so far as SGF.
func (e *Engine) Transcript() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record.SetMoves(e.tree.PathFromRoot())
	return e.record.String()
}

// Moves returns the moves played so far, passes included.
func (e *Engine) Moves() []sgf.Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.PathFromRoot()
}

// Board returns a copy of the position together with whose turn it is.
func (e *Engine) Board() (*othello.Board, othello.Cell) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.Board(), e.game.Turn()
}

// Close stops the opponent and waits for it to return.
func (e *Engine) Close() {
	e.cancel()
	e.wg.Wait()
}
