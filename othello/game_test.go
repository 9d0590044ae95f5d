package othello

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func playMoves(t *testing.T, g *Game, moves []Pos) {
	t.Helper()
	for i, m := range moves {
		if err := g.Play(m.Row, m.Col); err != nil {
			t.Fatalf("move %d (%v) failed: %v", i, m, err)
		}
	}
}

func TestNewGameInitialState(t *testing.T) {
	g, err := NewGame(8)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if g.State() != BlackToMove || g.Turn() != Black {
		t.Fatalf("state = %s, want black to move", g.State())
	}
	if g.MoveCount() != 0 {
		t.Fatalf("moves = %d, want 0", g.MoveCount())
	}
	if _, _, ok := g.LastMove(); ok {
		t.Fatal("new game should have no last move")
	}
	if _, ok := g.Winner(); ok {
		t.Fatal("winner should not be decided")
	}
	if len(g.ValidMoves()) != 4 {
		t.Fatalf("valid moves = %v, want 4", g.ValidMoves())
	}
}

func TestGoldenOpening(t *testing.T) {
	g, _ := NewGame(8)
	playMoves(t, g, []Pos{{2, 3}, {2, 2}})

	want := mustParse(t, `
		. . . . . . . .
		. . . . . . . .
		. . W B . . . .
		. . . W B . . .
		. . . B W . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .`)
	if !g.Board().Equal(want) {
		t.Fatalf("board after d3 c3:\n%s\nwant:\n%s", g.Board(), want)
	}
	if g.Turn() != Black {
		t.Fatalf("turn = %s, want Black", g.Turn())
	}
	wantMoves := []Pos{{2, 1}, {3, 2}, {4, 5}, {5, 4}}
	if got := g.ValidMoves(); !reflect.DeepEqual(got, wantMoves) {
		t.Fatalf("black moves = %v, want %v", got, wantMoves)
	}

	// e3 closes no ray for Black here: the executor refuses it and the
	// position stays exactly as it was.
	err := g.Play(2, 4)
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("Play(2,4) err = %v, want ErrInvalidMove", err)
	}
	if !g.Board().Equal(want) {
		t.Fatalf("rejected move mutated the board:\n%s", g.Board())
	}
	black, white := g.Score()
	if black != 3 || white != 3 {
		t.Fatalf("score = %d-%d, want 3-3", black, white)
	}
	if g.MoveCount() != 2 || g.Turn() != Black {
		t.Fatalf("moves=%d turn=%s after rejection", g.MoveCount(), g.Turn())
	}
}

func TestTurnAlternates(t *testing.T) {
	g, _ := NewGame(8)
	if err := g.Play(2, 3); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if g.Turn() != White {
		t.Fatalf("turn = %s, want White", g.Turn())
	}
	if _, passed := g.Passed(); passed {
		t.Fatal("no pass expected")
	}
	pos, by, ok := g.LastMove()
	if !ok || pos != (Pos{2, 3}) || by != Black {
		t.Fatalf("LastMove = %v %s %v", pos, by, ok)
	}
	if got := g.LastFlipped(); !reflect.DeepEqual(got, []Pos{{3, 3}}) {
		t.Fatalf("LastFlipped = %v", got)
	}
}

func TestPlayAsRejectsWrongPlayer(t *testing.T) {
	g, _ := NewGame(8)
	if err := g.PlayAs(White, 2, 4); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	if err := g.PlayAs(Black, 2, 3); err != nil {
		t.Fatalf("PlayAs(Black): %v", err)
	}
}

func TestPlayOutOfBounds(t *testing.T) {
	g, _ := NewGame(8)
	for _, p := range []Pos{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		if err := g.Play(p.Row, p.Col); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Play(%v) err = %v, want ErrOutOfBounds", p, err)
		}
	}
}

func TestPassWhenNoMoves(t *testing.T) {
	// Black's only discs sit on the edge behind the white ones, so Black
	// cannot move while White can.
	b := mustParse(t, `
		W B . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .`)
	if HasValidMoves(b, Black) {
		t.Fatal("black should have no moves")
	}
	g, err := NewGameFrom(b, Black)
	if err != nil {
		t.Fatalf("NewGameFrom: %v", err)
	}
	if g.Turn() != White {
		t.Fatalf("turn = %s, want White", g.Turn())
	}
	if who, passed := g.Passed(); !passed || who != Black {
		t.Fatalf("Passed = %s,%v, want Black,true", who, passed)
	}
}

func TestPassAfterMoveKeepsTurn(t *testing.T) {
	b := mustParse(t, `
		B W . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		B W . . . . . .`)
	g, _ := NewGameFrom(b, Black)

	if err := g.Play(0, 2); err != nil {
		t.Fatalf("Play(0,2): %v", err)
	}
	if g.Turn() != Black {
		t.Fatalf("white cannot move, turn = %s, want Black", g.Turn())
	}
	if who, passed := g.Passed(); !passed || who != White {
		t.Fatalf("Passed = %s,%v, want White,true", who, passed)
	}

	if err := g.Play(7, 2); err != nil {
		t.Fatalf("Play(7,2): %v", err)
	}
	if !g.Over() {
		t.Fatalf("state = %s, want game over", g.State())
	}
	winner, ok := g.Winner()
	if !ok || winner != Black {
		t.Fatalf("Winner = %s,%v", winner, ok)
	}
	if got := g.Outcome(); got != "Black wins 6-0" {
		t.Fatalf("Outcome = %q", got)
	}
	if CountEmpty(g.Board()) != 58 {
		t.Fatalf("game should end with empty squares left")
	}
	if err := g.Play(1, 1); !errors.Is(err, ErrGameOver) {
		t.Fatalf("Play after end err = %v, want ErrGameOver", err)
	}
}

func TestTerminalPositionIsGameOver(t *testing.T) {
	b := mustParse(t, `
		B B . .
		. . . .
		. . . .
		. . W W`)
	g, err := NewGameFrom(b, White)
	if err != nil {
		t.Fatalf("NewGameFrom: %v", err)
	}
	if !g.Over() || g.Turn() != Empty {
		t.Fatalf("state = %s, want game over", g.State())
	}
	if g.ValidMoves() != nil {
		t.Fatal("no moves after game over")
	}
	if got := g.Outcome(); got != "Draw 2-2" {
		t.Fatalf("Outcome = %q", got)
	}
}

func TestFullGameTerminates(t *testing.T) {
	for _, size := range []int{4, 6, 8} {
		g, _ := NewGame(size)
		for steps := 0; !g.Over(); steps++ {
			if steps > size*size {
				t.Fatalf("size %d: game did not end", size)
			}
			moves := g.ValidMoves()
			if len(moves) == 0 {
				t.Fatalf("size %d: %s with no valid moves", size, g.State())
			}
			m := moves[len(moves)/2]
			if err := g.Play(m.Row, m.Col); err != nil {
				t.Fatalf("size %d: Play(%v): %v", size, m, err)
			}
		}
		if !IsTerminal(g.Board()) {
			t.Fatalf("size %d: game over on a non-terminal board", size)
		}
		black, white := g.Score()
		if black+white+CountEmpty(g.Board()) != size*size {
			t.Fatalf("size %d: disc accounting broken", size)
		}
	}
}

func TestNewGameFromClonesBoard(t *testing.T) {
	b := MustNewBoard(8)
	g, _ := NewGameFrom(b, Black)
	playMoves(t, g, []Pos{{2, 3}})
	if b.At(2, 3) != Empty {
		t.Fatal("game mutated the board it was created from")
	}
	if _, err := NewGameFrom(b, Empty); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("NewGameFrom(Empty) err = %v", err)
	}
}
