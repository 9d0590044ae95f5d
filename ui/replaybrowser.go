package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/rivo/tview"

	"othello-local/analysis"
	"othello-local/othello"
	"othello-local/sgf"
)

// ReplayBrowserUI steps through the moves of a game, showing the position
// after each one with a review of the move.
type ReplayBrowserUI struct {
	flex      *tview.Flex
	moveList  *tview.List
	preview   *tview.Box
	review    *tview.TextView
	hint      *tview.TextView
	info      *sgf.GameInfo
	moves     []sgf.Move
	positions []*othello.Board // positions[i] is the board before moves[i]
	selected  int
	onDone    func()
}

// NewReplayBrowser creates an empty replay browser.
func NewReplayBrowser(onDone func()) *ReplayBrowserUI {
	rb := &ReplayBrowserUI{onDone: onDone}

	rb.moveList = tview.NewList()
	rb.moveList.SetBorder(true)
	rb.moveList.SetTitle(" Moves ")
	rb.moveList.ShowSecondaryText(false)
	rb.moveList.SetHighlightFullLine(true)
	rb.moveList.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	rb.moveList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	rb.preview = tview.NewBox()
	rb.preview.SetBorder(true)
	rb.preview.SetTitle(" Position ")
	rb.preview.SetDrawFunc(rb.drawPreview)

	rb.review = tview.NewTextView()
	rb.review.SetBorder(true)
	rb.review.SetTitle(" Review ")
	rb.review.SetWordWrap(true)

	rb.hint = tview.NewTextView()
	rb.hint.SetDynamicColors(true)
	rb.hint.SetText("  [dimgray]↑↓[-] step  [dimgray]q[-] back")

	rb.moveList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		rb.selected = index
		rb.showReview()
	})
	rb.moveList.SetInputCapture(rb.handleInput)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(rb.preview, 0, 1, false).
		AddItem(rb.review, 0, 1, false)
	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(rb.moveList, 24, 0, true).
		AddItem(right, 0, 1, false)

	rb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(rb.hint, 1, 0, false)
	return rb
}

// Flex returns the flex container for this UI.
func (rb *ReplayBrowserUI) Flex() *tview.Flex {
	return rb.flex
}

// Load replays an SGF transcript and lists its moves, selecting the last one.
func (rb *ReplayBrowserUI) Load(content string) error {
	tr, err := sgf.Parse(content)
	if err != nil {
		return err
	}
	start, toPlay, err := tr.StartBoard()
	if err != nil {
		return err
	}
	g, err := othello.NewGameFrom(start, toPlay)
	if err != nil {
		return err
	}

	positions := []*othello.Board{g.Board()}
	for i, m := range tr.Moves {
		if err := sgf.ReplayMoves(g, []sgf.Move{m}); err != nil {
			return errors.WithMessagef(err, "move %d", i+1)
		}
		positions = append(positions, g.Board())
	}

	rb.info = &tr.Info
	rb.moves = tr.Moves
	rb.positions = positions
	rb.selected = 0

	rb.moveList.Clear()
	if len(rb.moves) == 0 {
		rb.moveList.AddItem("[dimgray]No moves yet[-]", "", 0, nil)
		rb.review.SetText("")
		return nil
	}
	for i, m := range rb.moves {
		coord := "pass"
		if !m.Pass {
			coord = m.Pos.String()
		}
		rb.moveList.AddItem(fmt.Sprintf("%3d. %s %s", i+1, m.Color, coord), "", 0, nil)
	}
	rb.moveList.SetCurrentItem(len(rb.moves) - 1)
	rb.selected = len(rb.moves) - 1
	rb.showReview()
	return nil
}

func (rb *ReplayBrowserUI) showReview() {
	if rb.selected < 0 || rb.selected >= len(rb.moves) {
		return
	}
	m := rb.moves[rb.selected]
	if m.Pass {
		rb.review.SetText(fmt.Sprintf("%s had no legal move and passed.", m.Color))
		return
	}
	rb.review.SetText(analysis.ReviewMove(rb.positions[rb.selected], rb.positions[rb.selected+1], m.Color, m.Pos))
	rb.review.ScrollToBeginning()
}

func (rb *ReplayBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
		if rb.onDone != nil {
			rb.onDone()
		}
		return nil
	}
	return event
}

// drawPreview renders the position after the selected move.
func (rb *ReplayBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if len(rb.positions) == 0 {
		return x, y, width, height
	}
	idx := 0
	if len(rb.moves) > 0 && rb.selected >= 0 && rb.selected < len(rb.moves) {
		idx = rb.selected + 1
	}
	board := rb.positions[idx]
	size := board.Size()
	startX, startY := x+2, y+1
	if width < size*2+4 || height < size+4 {
		return x, y, width, height
	}

	emptyStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
	blackStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(232)).Background(tcell.PaletteColor(250))
	whiteStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(255)).Bold(true)
	lastStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(109)).Bold(true)

	var last *othello.Pos
	if idx > 0 && !rb.moves[idx-1].Pass {
		last = &rb.moves[idx-1].Pos
	}
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			ch, style := '·', emptyStyle
			switch board.At(r, c) {
			case othello.Black:
				ch, style = '●', blackStyle
			case othello.White:
				ch, style = '○', whiteStyle
			}
			if last != nil && last.Row == r && last.Col == c {
				style = lastStyle
			}
			screen.SetContent(startX+c*2, startY+r, ch, nil, style)
		}
	}

	black, white := othello.CountDiscs(board)
	infoY := startY + size + 1
	infoStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))
	drawText(screen, startX, infoY, fmt.Sprintf("Black %d  White %d", black, white), infoStyle)
	if rb.info != nil {
		dimStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))
		drawText(screen, startX, infoY+1, fmt.Sprintf("B: %s  W: %s", rb.info.PlayerBlack, rb.info.PlayerWhite), dimStyle)
		if rb.info.Result != "" && rb.info.Result != "?" {
			drawText(screen, startX, infoY+2, "Result: "+rb.info.Result, tcell.StyleDefault.Foreground(tcell.PaletteColor(109)))
		}
	}
	return x, y, width, height
}
