// Package textplay runs a game on plain line input and output, for terminals
// where the full screen interface is unwanted.
package textplay

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"othello-local/analysis"
	"othello-local/engine"
	"othello-local/engine/local"
	"othello-local/engine/proposer"
	"othello-local/othello"
	"othello-local/types"
)

// Options tune a text game.
type Options struct {
	Heatmap bool             // print move scores before each prompt
	Ollama  *analysis.Client // reviews undone moves and finished games; may be nil
	Session *engine.Session  // tally to record the result in; may be nil
}

// syncWriter serialises writes from the opponent goroutine and the prompt.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Run plays one game of cfg against opponent, reading the human's moves from
// in. It returns when the game ends, the human quits, input runs out or ctx is
// cancelled.
func Run(ctx context.Context, cfg engine.GameConfig, opponent engine.MoveProposer, in io.Reader, out io.Writer, opts Options) error {
	w := &syncWriter{w: out}
	human := proposer.NewHuman(in, w)

	eng := local.NewEngine(cfg, opponent)
	defer eng.Close()

	changed := make(chan struct{}, 1)
	notify := func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	eng.OnMove(func(x, y, color int, _ *types.BoardState) {
		if x < 0 {
			fmt.Fprintf(w, "%s passes\n", othello.Cell(color))
		} else {
			fmt.Fprintf(w, "%s plays %s\n", othello.Cell(color), othello.Pos{Row: y, Col: x})
		}
		notify()
	})
	eng.OnGameEnd(func(string) { notify() })

	if err := eng.Connect(); err != nil {
		return err
	}

	for {
		over, err := waitTurn(ctx, eng, changed)
		if err != nil {
			return err
		}
		board, turn := eng.Board()
		if over {
			finish(ctx, w, eng, board, opts)
			return nil
		}

		fmt.Fprint(w, "\n"+analysis.BoardString(board))
		if opts.Heatmap {
			fmt.Fprintf(w, "Heatmap: %s\n", heatmapLine(analysis.ScoreMoves(board, turn)))
		}

		pos, err := human.ProposeMove(ctx, board, turn)
		switch {
		case errors.Is(err, proposer.ErrQuit):
			log.Info().Msg("text-game-quit")
			return nil
		case errors.Is(err, proposer.ErrUndo):
			undo(ctx, w, eng, opts.Ollama)
			continue
		case err != nil:
			return err
		}

		if err := eng.PlayMove(pos.Col, pos.Row); err != nil {
			fmt.Fprintf(w, "%v\n", err)
		}
	}
}

// waitTurn blocks until the human is to move or the game is over.
func waitTurn(ctx context.Context, eng *local.Engine, changed <-chan struct{}) (bool, error) {
	for {
		if eng.GetBoardState().Finished() {
			return true, nil
		}
		if eng.IsMyTurn() {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-changed:
		}
	}
}

func undo(ctx context.Context, w io.Writer, eng *local.Engine, reviewer *analysis.Client) {
	info, err := eng.Undo()
	if err != nil {
		fmt.Fprintf(w, "%v\n", err)
		return
	}
	fmt.Fprintf(w, "Took back %s at %s.\n\n", info.Player, info.Pos)
	fmt.Fprintln(w, reviewer.ExplainUndo(ctx, info.Before, info.After, info.Player, info.Pos))
}

func finish(ctx context.Context, w io.Writer, eng *local.Engine, board *othello.Board, opts Options) {
	state := eng.GetBoardState()
	fmt.Fprint(w, "\n"+analysis.BoardString(board))
	fmt.Fprintf(w, "Game over: %s\n", state.Outcome)
	if opts.Session != nil {
		opts.Session.Record(state.Black, state.White)
		fmt.Fprintf(w, "Session: %s\n", opts.Session)
	}
	if opts.Ollama != nil {
		summary, err := opts.Ollama.SummarizeGame(ctx, board, eng.Transcript())
		if err != nil {
			log.Info().Err(err).Msg("game-summary-skipped")
			return
		}
		fmt.Fprintf(w, "\n%s\n", summary)
	}
}

func heatmapLine(scores []analysis.MoveScore) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%s %.1f", s.Pos, s.Score)
	}
	return strings.Join(parts, ", ")
}
