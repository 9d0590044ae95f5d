package textplay

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"othello-local/engine"
	"othello-local/engine/proposer"
	"othello-local/othello"
)

func TestMain(m *testing.M) {
	log.Logger = zerolog.Nop()
	os.Exit(m.Run())
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

func config(size int, mode engine.Mode) engine.GameConfig {
	cfg := engine.DefaultConfig()
	cfg.BoardSize = size
	cfg.Mode = mode
	cfg.EngineDelay = 0
	return cfg
}

func run(t *testing.T, cfg engine.GameConfig, opponent engine.MoveProposer, input string, opts Options) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var out bytes.Buffer
	if err := Run(ctx, cfg, opponent, strings.NewReader(input), &out, opts); err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	return out.String()
}

func TestPlayAndQuit(t *testing.T) {
	out := run(t, config(8, engine.ModeRandom), firstMove{}, "d3\nquit\n", Options{})
	for _, want := range []string{"Black> ", "Black plays d3", "White plays c3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Game over") {
		t.Errorf("game should not be over:\n%s", out)
	}
}

func TestIllegalInputIsRetried(t *testing.T) {
	out := run(t, config(8, engine.ModeHuman), nil, "a1\nzz\nd3\nq\n", Options{})
	if !strings.Contains(out, "a1 is not a legal move") {
		t.Errorf("expected a1 to be rejected:\n%s", out)
	}
	if !strings.Contains(out, "Black plays d3") || !strings.Contains(out, "White> ") {
		t.Errorf("expected d3 then White to move:\n%s", out)
	}
}

func TestUndoShowsReview(t *testing.T) {
	out := run(t, config(8, engine.ModeHuman), nil, "undo\nd3\nundo\nq\n", Options{})
	for _, want := range []string{
		"nothing to undo",
		"Took back Black at d3",
		"Black played d3",
		"Opponent mobility: 4 -> 3 moves",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHeatmapLine(t *testing.T) {
	cfg := config(8, engine.ModeHuman)
	out := run(t, cfg, nil, "q\n", Options{Heatmap: true})
	if !strings.Contains(out, "Heatmap: d3 2.2, c4 2.2, f5 2.2, e6 2.2") {
		t.Errorf("heatmap missing:\n%s", out)
	}
}

func TestEndOfInput(t *testing.T) {
	out := run(t, config(8, engine.ModeRandom), firstMove{}, "", Options{})
	if !strings.Contains(out, "Black> ") {
		t.Errorf("expected a prompt:\n%s", out)
	}
}

func TestFullGameRecordsSession(t *testing.T) {
	var squares []string
	for r := 1; r <= 4; r++ {
		for c := 'a'; c <= 'd'; c++ {
			squares = append(squares, string(c)+string(rune('0'+r)))
		}
	}
	var input strings.Builder
	for i := 0; i < 20; i++ {
		input.WriteString(strings.Join(squares, "\n") + "\n")
	}

	session := engine.NewSession()
	out := run(t, config(4, engine.ModeRandom), firstMove{}, input.String(), Options{Session: session})
	if !strings.Contains(out, "Game over: ") {
		t.Fatalf("game did not finish:\n%s", out)
	}
	if session.Games() != 1 {
		t.Fatalf("session recorded %d games", session.Games())
	}
	if !strings.Contains(out, "Session: "+session.String()) {
		t.Errorf("session line missing:\n%s", out)
	}
}
