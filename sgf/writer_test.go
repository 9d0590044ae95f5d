package sgf

import (
	"strings"
	"testing"

	"othello-local/othello"
)

func TestSgfCoord(t *testing.T) {
	tests := []struct {
		pos  othello.Pos
		want string
	}{
		{othello.Pos{Row: 0, Col: 0}, "aa"},
		{othello.Pos{Row: 2, Col: 3}, "dc"},
		{othello.Pos{Row: 7, Col: 7}, "hh"},
		{othello.Pos{Row: 25, Col: 0}, "az"},
	}
	for _, tt := range tests {
		if got := sgfCoord(tt.pos); got != tt.want {
			t.Errorf("sgfCoord(%v) = %q, want %q", tt.pos, got, tt.want)
		}
	}
}

func TestNewGameRecord(t *testing.T) {
	rec := NewGameRecord(8, "Player", "Random")
	out := rec.String()

	for _, want := range []string{
		"(;GM[2]FF[4]CA[UTF-8]",
		"AP[othello-local:1.0]",
		"SZ[8]",
		"PB[Player]",
		"PW[Random]",
		"RE[?]",
		"GN[" + rec.GameName + "]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q in %q", want, out)
		}
	}
	if len(rec.GameName) != 36 {
		t.Errorf("game name %q is not a uuid", rec.GameName)
	}
	if other := NewGameRecord(8, "a", "b"); other.GameName == rec.GameName {
		t.Error("records should get distinct game names")
	}
	if !strings.HasSuffix(out, ")\n") {
		t.Errorf("record should be closed: %q", out)
	}
}

func TestSetMoves(t *testing.T) {
	rec := NewGameRecord(8, "Player", "Random")
	moves := []Move{bm(2, 3), wm(2, 2), PassMove(othello.Black)}
	rec.SetMoves(moves)
	moves[0] = bm(3, 2)
	if !strings.Contains(rec.String(), ";B[dc];W[cc];B[])") {
		t.Fatalf("moves not rendered: %q", rec.String())
	}
	rec.SetMoves([]Move{bm(3, 2)})
	if !strings.Contains(rec.String(), ";B[cd])") {
		t.Fatalf("SetMoves not rendered: %q", rec.String())
	}
}

func TestSetScore(t *testing.T) {
	rec := NewGameRecord(8, "a", "b")
	tests := []struct {
		black, white int
		want         string
	}{
		{40, 24, "B+16"},
		{10, 54, "W+44"},
		{32, 32, "0"},
	}
	for _, tt := range tests {
		rec.SetScore(tt.black, tt.white)
		if rec.Result != tt.want {
			t.Errorf("SetScore(%d,%d) = %q, want %q", tt.black, tt.white, rec.Result, tt.want)
		}
	}
	rec.SetScore(31, 33)
	if !strings.Contains(rec.String(), "RE[W+2]") {
		t.Fatalf("result not rendered: %q", rec.String())
	}
}

func TestSetSetupPosition(t *testing.T) {
	rec := NewGameRecord(4, "a", "b")
	rec.SetSetupPosition(othello.MustNewBoard(4), othello.White)
	out := rec.String()
	if !strings.Contains(out, ";AB[cb][bc]AW[bb][cc]PL[W]") {
		t.Fatalf("setup node missing: %q", out)
	}
}

func TestEscapedNames(t *testing.T) {
	rec := NewGameRecord(8, `we]ird\name`, "b")
	if !strings.Contains(rec.String(), `PB[we\]ird\\name]`) {
		t.Fatalf("name not escaped: %q", rec.String())
	}
	info, err := ParseHeader(rec.String())
	if err != nil {
		t.Fatal(err)
	}
	if info.PlayerBlack != `we]ird\name` {
		t.Fatalf("round trip name = %q", info.PlayerBlack)
	}
}
