// Package sgf implements SGF FF[4] transcripts for Othello (GM[2]) and the
// in-memory move tree used for undo and redo.
package sgf

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"othello-local/othello"
)

// AppName is written to the AP property.
const AppName = "othello-local:1.0"

// GameRecord tracks a game in progress and renders it as SGF.
type GameRecord struct {
	BoardSize   int
	PlayerBlack string
	PlayerWhite string
	Date        string
	GameName    string
	Result      string
	moves       []Move
	setupBlack  []othello.Pos // AB for games started from a loaded position
	setupWhite  []othello.Pos // AW
	toPlay      othello.Cell  // PL, set with the setup position
}

// NewGameRecord creates a record for a new game. Each record gets a fresh
// game name so transcripts of one session can be told apart.
func NewGameRecord(boardSize int, playerBlack, playerWhite string) *GameRecord {
	return &GameRecord{
		BoardSize:   boardSize,
		PlayerBlack: playerBlack,
		PlayerWhite: playerWhite,
		Date:        time.Now().Format("2006-01-02"),
		GameName:    uuid.NewString(),
		Result:      "?",
	}
}

func colorLetter(c othello.Cell) string {
	if c == othello.White {
		return "W"
	}
	return "B"
}

// sgfCoord converts a board position to an SGF letter pair, column first.
// (row 2, col 3) -> "dc".
func sgfCoord(p othello.Pos) string {
	return string(rune('a'+p.Col)) + string(rune('a'+p.Row))
}

// SetMoves replaces the move list, e.g. with a game tree path after undo.
func (r *GameRecord) SetMoves(moves []Move) {
	r.moves = append([]Move(nil), moves...)
}

// SetSetupPosition records a non-standard starting position as AB/AW/PL.
func (r *GameRecord) SetSetupPosition(b *othello.Board, toPlay othello.Cell) {
	r.setupBlack = nil
	r.setupWhite = nil
	for row := 0; row < b.Size(); row++ {
		for col := 0; col < b.Size(); col++ {
			switch b.At(row, col) {
			case othello.Black:
				r.setupBlack = append(r.setupBlack, othello.Pos{Row: row, Col: col})
			case othello.White:
				r.setupWhite = append(r.setupWhite, othello.Pos{Row: row, Col: col})
			}
		}
	}
	r.toPlay = toPlay
}

// SetScore sets RE from final disc counts.
func (r *GameRecord) SetScore(black, white int) {
	switch {
	case black > white:
		r.Result = fmt.Sprintf("B+%d", black-white)
	case white > black:
		r.Result = fmt.Sprintf("W+%d", white-black)
	default:
		r.Result = "0"
	}
}

// String renders the complete SGF transcript.
func (r *GameRecord) String() string {
	var b strings.Builder

	// Root node
	b.WriteString("(;GM[2]FF[4]CA[UTF-8]")
	b.WriteString(fmt.Sprintf("AP[%s]", AppName))
	b.WriteString(fmt.Sprintf("SZ[%d]", r.BoardSize))
	b.WriteString(fmt.Sprintf("PB[%s]", escape(r.PlayerBlack)))
	b.WriteString(fmt.Sprintf("PW[%s]", escape(r.PlayerWhite)))
	b.WriteString(fmt.Sprintf("DT[%s]", r.Date))
	if r.GameName != "" {
		b.WriteString(fmt.Sprintf("GN[%s]", escape(r.GameName)))
	}
	b.WriteString(fmt.Sprintf("RE[%s]", r.Result))
	b.WriteString("\n")

	// Setup node
	if len(r.setupBlack) > 0 || len(r.setupWhite) > 0 {
		b.WriteString(";")
		if len(r.setupBlack) > 0 {
			b.WriteString("AB")
			for _, p := range r.setupBlack {
				b.WriteString(fmt.Sprintf("[%s]", sgfCoord(p)))
			}
		}
		if len(r.setupWhite) > 0 {
			b.WriteString("AW")
			for _, p := range r.setupWhite {
				b.WriteString(fmt.Sprintf("[%s]", sgfCoord(p)))
			}
		}
		if r.toPlay.Valid() {
			b.WriteString(fmt.Sprintf("PL[%s]", colorLetter(r.toPlay)))
		}
		b.WriteString("\n")
	}

	for _, m := range r.moves {
		b.WriteString(m.String())
	}

	b.WriteString(")\n")
	return b.String()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "]", `\]`)
}
