package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"othello-local/engine"
	"othello-local/engine/proposer"
	"othello-local/othello"
	"othello-local/types"
)

// scripted proposes the given squares in order, legal or not.
type scripted struct {
	moves []othello.Pos
	calls int
}

func (s *scripted) ProposeMove(_ context.Context, _ *othello.Board, _ othello.Cell) (othello.Pos, error) {
	p := s.moves[s.calls%len(s.moves)]
	s.calls++
	return p, nil
}

// firstMove always plays the first legal square.
type firstMove struct{}

func (firstMove) ProposeMove(_ context.Context, b *othello.Board, player othello.Cell) (othello.Pos, error) {
	moves := othello.ValidMoves(b, player)
	if len(moves) == 0 {
		return othello.Pos{}, proposer.ErrNoMoves
	}
	return moves[0], nil
}

// gate blocks until released or cancelled.
type gate struct {
	release chan struct{}
}

func (g *gate) ProposeMove(ctx context.Context, b *othello.Board, player othello.Cell) (othello.Pos, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return othello.Pos{}, ctx.Err()
	}
	return firstMove{}.ProposeMove(ctx, b, player)
}

func newTestEngine(t *testing.T, cfg engine.GameConfig, opponent engine.MoveProposer) *Engine {
	t.Helper()
	cfg.EngineDelay = 0
	e := NewEngine(cfg, opponent)
	t.Cleanup(e.Close)
	return e
}

func humanBlack() engine.GameConfig {
	cfg := engine.DefaultConfig()
	cfg.PlayerColor = int(othello.Black)
	return cfg
}

type recorder struct {
	mu    sync.Mutex
	moves [][3]int
	ends  []string
}

func (r *recorder) attach(e *Engine) {
	e.OnMove(func(x, y, color int, _ *types.BoardState) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.moves = append(r.moves, [3]int{x, y, color})
	})
	e.OnGameEnd(func(outcome string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.ends = append(r.ends, outcome)
	})
}

func TestMain(m *testing.M) {
	log.Logger = zerolog.Nop()
	os.Exit(m.Run())
}

func TestConnectHumanFirst(t *testing.T) {
	e := newTestEngine(t, humanBlack(), firstMove{})
	if err := e.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !e.IsMyTurn() {
		t.Fatal("black human should move first")
	}
	if e.GetPlayerColor() != 1 {
		t.Fatalf("player color = %d", e.GetPlayerColor())
	}
	s := e.GetBoardState()
	if s.MoveNumber != 0 || len(s.ValidMoves) != 4 || s.Black != 2 || s.White != 2 {
		t.Fatalf("unexpected initial state %+v", s)
	}
}

func TestPlayMoveTriggersOpponent(t *testing.T) {
	e := newTestEngine(t, humanBlack(), firstMove{})
	var rec recorder
	rec.attach(e)
	if err := e.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := e.PlayMove(3, 2); err != nil {
		t.Fatalf("PlayMove(d3): %v", err)
	}
	e.wg.Wait()

	if !e.IsMyTurn() {
		t.Fatal("turn should come back to the human")
	}
	s := e.GetBoardState()
	if s.MoveNumber != 2 {
		t.Fatalf("move number = %d, want 2", s.MoveNumber)
	}
	// White's first legal reply to d3 is c3.
	if s.LastMove != (types.BoardPos{X: 2, Y: 2}) || s.Board[2][2] != -1 {
		t.Fatalf("last move = %v", s.LastMove)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.moves) != 2 || rec.moves[0] != [3]int{3, 2, 1} || rec.moves[1] != [3]int{2, 2, -1} {
		t.Fatalf("callbacks = %v", rec.moves)
	}
}

func TestOpponentMovesFirstForWhiteHuman(t *testing.T) {
	cfg := humanBlack()
	cfg.PlayerColor = int(othello.White)
	e := newTestEngine(t, cfg, firstMove{})
	if err := e.Connect(); err != nil {
		t.Fatal(err)
	}
	e.wg.Wait()
	if !e.IsMyTurn() {
		t.Fatal("human should be to move after black's opening")
	}
	s := e.GetBoardState()
	if s.Black != 4 || s.White != 1 || s.PlayerToMove != -1 {
		t.Fatalf("state after opening: %+v", s)
	}
}

func TestPlayMoveRejections(t *testing.T) {
	g := &gate{release: make(chan struct{})}
	e := newTestEngine(t, humanBlack(), g)
	if err := e.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := e.PlayMove(0, 0); !errors.Is(err, othello.ErrInvalidMove) {
		t.Fatalf("illegal square err = %v", err)
	}
	if err := e.PlayMove(9, 9); !errors.Is(err, othello.ErrOutOfBounds) {
		t.Fatalf("off-board err = %v", err)
	}
	if err := e.PlayMove(3, 2); err != nil {
		t.Fatal(err)
	}
	if e.IsMyTurn() {
		t.Fatal("opponent should be thinking")
	}
	if err := e.PlayMove(2, 2); !errors.Is(err, othello.ErrNotYourTurn) {
		t.Fatalf("out-of-turn err = %v", err)
	}
	close(g.release)
	e.wg.Wait()
	if !e.IsMyTurn() {
		t.Fatal("human should be to move")
	}
}

func TestIllegalProposalFallsBack(t *testing.T) {
	bad := &scripted{moves: []othello.Pos{{Row: 0, Col: 0}, {Row: 42, Col: 42}}}
	e := newTestEngine(t, humanBlack(), bad)
	if err := e.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := e.PlayMove(3, 2); err != nil {
		t.Fatal(err)
	}
	e.wg.Wait()
	s := e.GetBoardState()
	if s.MoveNumber != 2 || s.Board[0][0] != 0 {
		t.Fatalf("fallback move not applied correctly: %+v", s)
	}
	if bad.calls != 1 {
		t.Fatalf("proposer called %d times", bad.calls)
	}
}

func TestUndoRedo(t *testing.T) {
	e := newTestEngine(t, humanBlack(), firstMove{})
	if err := e.Connect(); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("Undo at start err = %v", err)
	}
	if err := e.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("Redo at start err = %v", err)
	}

	if err := e.PlayMove(3, 2); err != nil {
		t.Fatal(err)
	}
	e.wg.Wait()
	played, _ := e.Board()

	info, err := e.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if info.Player != othello.Black || info.Pos != (othello.Pos{Row: 2, Col: 3}) {
		t.Fatalf("undo info = %+v", info)
	}
	if !info.Before.Equal(othello.MustNewBoard(8)) {
		t.Fatalf("before board:\n%s", info.Before)
	}
	if info.After.At(2, 3) != othello.Black || info.After.At(3, 3) != othello.Black {
		t.Fatalf("after board:\n%s", info.After)
	}
	if !e.IsMyTurn() || e.GetBoardState().MoveNumber != 0 {
		t.Fatal("undo should return to the start with the human to move")
	}

	if err := e.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	e.wg.Wait()
	redone, turn := e.Board()
	if !redone.Equal(played) || turn != othello.Black {
		t.Fatalf("redo board:\n%s\nwant\n%s", redone, played)
	}
	if e.GetBoardState().MoveNumber != 2 {
		t.Fatalf("move number after redo = %d", e.GetBoardState().MoveNumber)
	}
}

func TestUndoThenNewLine(t *testing.T) {
	e := newTestEngine(t, humanBlack(), firstMove{})
	if err := e.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := e.PlayMove(3, 2); err != nil {
		t.Fatal(err)
	}
	e.wg.Wait()
	if _, err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := e.PlayMove(2, 3); err != nil {
		t.Fatalf("PlayMove(c4) after undo: %v", err)
	}
	e.wg.Wait()
	moves := e.Moves()
	if len(moves) != 2 || moves[0].Pos != (othello.Pos{Row: 3, Col: 2}) {
		t.Fatalf("moves = %v", moves)
	}
}

func TestHumanVersusHuman(t *testing.T) {
	cfg := humanBlack()
	cfg.Mode = engine.ModeHuman
	e := newTestEngine(t, cfg, nil)
	if err := e.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := e.PlayMove(3, 2); err != nil {
		t.Fatal(err)
	}
	if !e.IsMyTurn() || e.GetPlayerColor() != -1 {
		t.Fatalf("white should be at the keyboard, color = %d", e.GetPlayerColor())
	}
	if err := e.PlayMove(2, 2); err != nil {
		t.Fatal(err)
	}
	info, err := e.Undo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Player != othello.White {
		t.Fatalf("undo should take back one ply, got %s", info.Player)
	}
	if e.GetPlayerColor() != -1 {
		t.Fatal("white should be to move again")
	}
	if !strings.Contains(e.Transcript(), "PB[Player Black]PW[Player White]") {
		t.Fatalf("transcript header: %s", e.Transcript())
	}
}

func TestFullGameEndsOnce(t *testing.T) {
	cfg := humanBlack()
	cfg.BoardSize = 6
	e := newTestEngine(t, cfg, firstMove{})
	var rec recorder
	rec.attach(e)
	if err := e.Connect(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 64; i++ {
		s := e.GetBoardState()
		if s.Finished() {
			break
		}
		if !e.IsMyTurn() {
			t.Fatalf("stuck: not finished and not human's turn: %+v", s)
		}
		m := s.ValidMoves[len(s.ValidMoves)-1]
		if err := e.PlayMove(m.X, m.Y); err != nil {
			t.Fatalf("PlayMove(%v): %v", m, err)
		}
		e.wg.Wait()
	}
	s := e.GetBoardState()
	if !s.Finished() {
		t.Fatal("game did not finish")
	}
	rec.mu.Lock()
	ends := append([]string(nil), rec.ends...)
	rec.mu.Unlock()
	if len(ends) != 1 || ends[0] != s.Outcome {
		t.Fatalf("end callbacks = %v, outcome %q", ends, s.Outcome)
	}
	if err := e.PlayMove(0, 0); !errors.Is(err, othello.ErrGameOver) {
		t.Fatalf("PlayMove after end err = %v", err)
	}
	if !strings.Contains(e.Transcript(), "RE[") || strings.Contains(e.Transcript(), "RE[?]") {
		t.Fatalf("result not recorded: %s", e.Transcript())
	}
}

func TestFinishedGameIsRecordedOnce(t *testing.T) {
	cfg := humanBlack()
	cfg.Mode = engine.ModeHuman
	cfg.BoardSize = 4
	e := newTestEngine(t, cfg, nil)
	var rec recorder
	rec.attach(e)
	session := engine.NewSession()
	e.OnGameEnd(func(outcome string) {
		rec.mu.Lock()
		rec.ends = append(rec.ends, outcome)
		rec.mu.Unlock()
		s := e.GetBoardState()
		session.Record(s.Black, s.White)
	})
	if err := e.Connect(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 16 && !e.GetBoardState().Finished(); i++ {
		m := e.GetBoardState().ValidMoves[0]
		if err := e.PlayMove(m.X, m.Y); err != nil {
			t.Fatalf("PlayMove(%v): %v", m, err)
		}
	}
	if !e.GetBoardState().Finished() {
		t.Fatal("game did not finish")
	}
	final, _ := e.Board()

	if _, err := e.Undo(); !errors.Is(err, othello.ErrGameOver) {
		t.Fatalf("Undo after end err = %v, want ErrGameOver", err)
	}
	if err := e.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("Redo after end err = %v, want ErrNothingToRedo", err)
	}
	if b, _ := e.Board(); !b.Equal(final) {
		t.Fatalf("finished board changed:\n%s\nwant\n%s", b, final)
	}

	rec.mu.Lock()
	ends := len(rec.ends)
	rec.mu.Unlock()
	if ends != 1 || session.Games() != 1 {
		t.Fatalf("end callbacks = %d, session games = %d, want 1 and 1", ends, session.Games())
	}
}

func TestLoadSGF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opening.sgf")
	if err := os.WriteFile(path, []byte("(;GM[2]FF[4]SZ[8];B[dc];W[cc])"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := humanBlack()
	cfg.LoadSGFPath = path
	e := newTestEngine(t, cfg, firstMove{})
	if err := e.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !e.IsMyTurn() {
		t.Fatal("black should be to move after the loaded moves")
	}
	s := e.GetBoardState()
	if s.MoveNumber != 2 || s.Black != 3 || s.White != 3 {
		t.Fatalf("loaded state %+v", s)
	}
	if !strings.Contains(e.Transcript(), ";B[dc];W[cc])") {
		t.Fatalf("transcript = %s", e.Transcript())
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("undo into loaded moves: %v", err)
	}
}

func TestLoadSGFRejectsIllegalRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sgf")
	os.WriteFile(path, []byte("(;GM[2]SZ[8];B[dc];W[cc];B[ec])"), 0644)
	cfg := humanBlack()
	cfg.LoadSGFPath = path
	e := newTestEngine(t, cfg, firstMove{})
	if err := e.Connect(); !errors.Is(err, othello.ErrInvalidMove) {
		t.Fatalf("Connect err = %v, want ErrInvalidMove", err)
	}
}

func TestConnectRejectsBadConfig(t *testing.T) {
	cfg := humanBlack()
	cfg.BoardSize = 7
	if err := newTestEngine(t, cfg, nil).Connect(); !errors.Is(err, othello.ErrInvalidSize) {
		t.Fatalf("odd size err = %v", err)
	}
	cfg = humanBlack()
	cfg.PlayerColor = 2
	if err := newTestEngine(t, cfg, nil).Connect(); !errors.Is(err, othello.ErrInvalidColor) {
		t.Fatalf("bad colour err = %v", err)
	}
}

func TestCloseStopsOpponent(t *testing.T) {
	e := NewEngine(humanBlack(), &gate{release: make(chan struct{})})
	if err := e.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := e.PlayMove(3, 2); err != nil {
		t.Fatal(err)
	}
	e.Close()
	if e.IsMyTurn() {
		t.Fatal("cancelled opponent should not have moved")
	}
	if e.GetBoardState().MoveNumber != 1 {
		t.Fatal("no opponent move expected after Close")
	}
}

func TestNewOpponent(t *testing.T) {
	cfg := engine.DefaultConfig()
	p, err := NewOpponent(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*proposer.Random); !ok {
		t.Fatalf("random mode built %T", p)
	}

	cfg.Mode = engine.ModeHuman
	if p, err := NewOpponent(cfg); err != nil || p != nil {
		t.Fatalf("human mode = %v, %v", p, err)
	}

	cfg.Mode = engine.ModeTrained
	p, err = NewOpponent(cfg)
	if err != nil {
		t.Fatalf("trained mode without a model: %v", err)
	}
	if _, ok := p.(*proposer.Random); !ok {
		t.Fatalf("trained mode without a model built %T, want random", p)
	}

	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.json")
	if _, err := NewOpponent(cfg); err == nil {
		t.Fatal("missing model file should fail")
	}

	cfg.Mode = "oracle"
	if _, err := NewOpponent(cfg); !errors.Is(err, engine.ErrUnknownMode) {
		t.Fatalf("unknown mode err = %v", err)
	}
}
