package sgf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"othello-local/othello"
)

func writeTempSGF(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseHeader(t *testing.T) {
	content := "(;GM[2]FF[4]SZ[6]PB[Alice]PW[Bob]DT[2026-01-05]GN[abc]RE[B+4]\n;B[cb];W[bb])\n"
	info, err := ParseHeader(content)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if info.BoardSize != 6 || info.PlayerBlack != "Alice" || info.PlayerWhite != "Bob" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Date != "2026-01-05" || info.GameName != "abc" || info.Result != "B+4" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.MoveCount != 2 {
		t.Fatalf("MoveCount = %d, want 2", info.MoveCount)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	tests := []struct {
		content string
		want    error
	}{
		{"not sgf", ErrMalformed},
		{"(;GM[1]SZ[19])", ErrWrongGame},
		{"(;GM[2]SZ[7])", othello.ErrInvalidSize},
		{"(;GM[2]SZ[x])", othello.ErrInvalidSize},
	}
	for _, tt := range tests {
		if _, err := ParseHeader(tt.content); !errors.Is(err, tt.want) {
			t.Errorf("ParseHeader(%q) err = %v, want %v", tt.content, err, tt.want)
		}
	}
}

func TestReplay(t *testing.T) {
	g, err := Replay("(;GM[2]FF[4]SZ[8];B[dc];W[cc])")
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if g.MoveCount() != 2 || g.Turn() != othello.Black {
		t.Fatalf("moves=%d turn=%s", g.MoveCount(), g.Turn())
	}
	b := g.Board()
	if b.At(2, 2) != othello.White || b.At(3, 3) != othello.White || b.At(2, 3) != othello.Black {
		t.Fatalf("unexpected board:\n%s", b)
	}
}

func TestReplayRejectsIllegalMove(t *testing.T) {
	_, err := Replay("(;GM[2]SZ[8];B[dc];W[cc];B[ec])")
	if !errors.Is(err, othello.ErrInvalidMove) {
		t.Fatalf("err = %v, want ErrInvalidMove", err)
	}
	_, err = Replay("(;GM[2]SZ[8];W[ec])")
	if !errors.Is(err, othello.ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	_, err = Replay("(;GM[2]SZ[8];B[zz])")
	if !errors.Is(err, othello.ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestReplayWithSetupAndPass(t *testing.T) {
	// Black takes a1-c1 and White has nothing left to play against, so
	// White's recorded pass is accepted and Black moves again.
	content := "(;GM[2]FF[4]SZ[8]\n;AB[aa][ah]AW[ba][bh]PL[B]\n;B[ca];W[];B[ch])"
	tr, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tr.SetupBlack) != 2 || len(tr.SetupWhite) != 2 || tr.ToPlay != othello.Black {
		t.Fatalf("setup = %+v", tr)
	}
	if len(tr.Moves) != 3 || !tr.Moves[1].Pass {
		t.Fatalf("moves = %v", tr.Moves)
	}
	g, err := tr.Replay()
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !g.Over() || g.Outcome() != "Black wins 6-0" {
		t.Fatalf("state=%s outcome=%q", g.State(), g.Outcome())
	}
}

func TestReplayRejectsFalsePass(t *testing.T) {
	_, err := Replay("(;GM[2]SZ[8];B[])")
	if !errors.Is(err, othello.ErrInvalidMove) {
		t.Fatalf("err = %v, want ErrInvalidMove", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	rec := NewGameRecord(8, "Player", "Random")
	rec.SetMoves([]Move{bm(2, 3), wm(2, 2)})
	path := writeTempSGF(t, dir, "game.sgf", rec.String())

	tr, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if tr.Info.GameName != rec.GameName || len(tr.Moves) != 2 {
		t.Fatalf("loaded %+v", tr)
	}
	if tr.Moves[0] != bm(2, 3) || tr.Moves[1] != wm(2, 2) {
		t.Fatalf("moves = %v", tr.Moves)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.sgf")); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestWriterThenReader(t *testing.T) {
	g, _ := othello.NewGame(6)
	rec := NewGameRecord(6, "Player", "Random")
	var moves []Move
	for !g.Over() {
		m := g.ValidMoves()[0]
		player := g.Turn()
		if err := g.Play(m.Row, m.Col); err != nil {
			t.Fatal(err)
		}
		moves = append(moves, Move{Color: player, Pos: m})
		if who, passed := g.Passed(); passed {
			moves = append(moves, PassMove(who))
		}
	}
	rec.SetMoves(moves)
	rec.SetScore(g.Score())

	replayed, err := Replay(rec.String())
	if err != nil {
		t.Fatalf("Replay: %v\n%s", err, rec.String())
	}
	if !replayed.Board().Equal(g.Board()) || !replayed.Over() {
		t.Fatalf("replayed game differs:\n%s\nwant\n%s", replayed.Board(), g.Board())
	}
	info, _ := ParseHeader(rec.String())
	if info.Result != rec.Result {
		t.Fatalf("result %q, want %q", info.Result, rec.Result)
	}
}

func TestUnterminatedValue(t *testing.T) {
	if _, err := Parse("(;GM[2]SZ[8];B[dc"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}
