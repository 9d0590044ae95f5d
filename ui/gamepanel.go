package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"othello-local/othello"
	"othello-local/sgf"
	"othello-local/types"
)

// GameInfoPanel displays game information and move history alongside the board.
type GameInfoPanel struct {
	box        *tview.TextView
	boardState *types.BoardState
	moves      []sgf.Move
	mode       string
	tally      string
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetBoardState updates the panel with current board state.
func (p *GameInfoPanel) SetBoardState(state *types.BoardState) {
	p.boardState = state
	p.refresh()
}

// SetMoves sets the move list shown under the game info.
func (p *GameInfoPanel) SetMoves(moves []sgf.Move) {
	p.moves = moves
	p.refresh()
}

// SetMode sets the opponent description.
func (p *GameInfoPanel) SetMode(mode string) {
	p.mode = mode
	p.refresh()
}

// SetTally sets the session win tally line.
func (p *GameInfoPanel) SetTally(tally string) {
	p.tally = tally
	p.refresh()
}

// refresh updates the panel text.
func (p *GameInfoPanel) refresh() {
	if p.boardState == nil || p.boardState.Width() == 0 {
		p.box.SetText("")
		return
	}
	state := p.boardState
	var sb strings.Builder

	sb.WriteString("[white::b]Game Info[-:-:-]\n")
	sb.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	if p.mode != "" {
		fmt.Fprintf(&sb, "[white]Mode:[-:-:-] %s\n", p.mode)
	}
	fmt.Fprintf(&sb, "[white]Board:[-:-:-] %dx%d\n", state.Width(), state.Height())
	fmt.Fprintf(&sb, "[white]Move:[-:-:-] %d\n", state.MoveNumber)
	fmt.Fprintf(&sb, "[white]Black:[-:-:-] %d  [white]White:[-:-:-] %d\n", state.Black, state.White)
	if !state.Finished() {
		fmt.Fprintf(&sb, "[white]To move:[-:-:-] %s\n", othello.Cell(state.PlayerToMove))
	}
	if p.tally != "" {
		fmt.Fprintf(&sb, "\n[white::b]Session[-:-:-]\n[dimgray]%s[-]\n", p.tally)
	}

	if len(p.moves) > 0 {
		sb.WriteString("\n[white::b]Moves[-:-:-]\n")
		sb.WriteString("[dimgray]──────────────────────[-:-:-]\n")

		// Show the last moves that fit
		maxVisible := 12
		start := 0
		if len(p.moves) > maxVisible {
			start = len(p.moves) - maxVisible
		}
		for i := start; i < len(p.moves); i++ {
			m := p.moves[i]
			colorStr := "[white]B[-]"
			if m.Color == othello.White {
				colorStr = "[dimgray]W[-]"
			}
			coord := "pass"
			if !m.Pass {
				coord = m.Pos.String()
			}
			marker := " "
			if i == len(p.moves)-1 {
				marker = "[white]>[-]"
			}
			fmt.Fprintf(&sb, "%s[dimgray]%3d.[-] %s %s\n", marker, i+1, colorStr, coord)
		}
		if start > 0 {
			fmt.Fprintf(&sb, "[dimgray]  ··· %d earlier[-]\n", start)
		}
	}

	p.box.SetText(sb.String())
}

// AnalysisView shows heuristic reviews and language model answers.
type AnalysisView struct {
	*tview.TextView
}

// NewAnalysisView creates an empty analysis view.
func NewAnalysisView() *AnalysisView {
	v := &AnalysisView{TextView: tview.NewTextView()}
	v.SetBorder(true)
	v.SetTitle(" Analysis ")
	v.SetTitleAlign(tview.AlignLeft)
	v.SetWrap(true)
	v.SetWordWrap(true)
	v.SetBorderPadding(0, 0, 1, 1)
	return v
}

// Show replaces the content under a new title.
func (v *AnalysisView) Show(title, text string) {
	v.SetTitle(" " + title + " ")
	v.SetText(text)
	v.ScrollToBeginning()
}

// CreateGameLayout creates the main game layout with board, side panel and
// analysis view.
func CreateGameLayout(board *BoardUI, hint *tview.TextView, analysisView *AnalysisView) *tview.Flex {
	mainFlex := tview.NewFlex()
	RebuildNormalLayout(mainFlex, board, hint, analysisView)
	return mainFlex
}

// CreateCenteredForm creates a centered container for the setup screen.
func CreateCenteredForm(form tview.Primitive, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)        // Left spacer
	centered.AddItem(form, maxWidth, 0, true) // Form with max width
	centered.AddItem(nil, 0, 1, false)        // Right spacer

	return centered
}

// RebuildNormalLayout restores the normal game layout with board, info panel,
// analysis view and hint.
func RebuildNormalLayout(gameFrame *tview.Flex, board *BoardUI, hint *tview.TextView, analysisView *AnalysisView) {
	gameFrame.Clear()

	infoPanel := NewGameInfoPanel()
	if board.infoPanel != nil {
		infoPanel.mode = board.infoPanel.mode
	}
	board.infoPanel = infoPanel
	board.refreshHint()

	// board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false)

	// board area over analysis, status bar at the bottom
	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 2, true)
	gameFrame.AddItem(analysisView, 0, 1, false)
	gameFrame.AddItem(hint, 4, 0, false)
}

// SetMode shows the opponent description in the info panel.
func (g *BoardUI) SetMode(mode string) {
	if g.infoPanel != nil {
		g.infoPanel.SetMode(mode)
	}
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *BoardUI) {
	gameFrame.Clear()

	boardWidth := 20 // default for 8x8
	boardHeight := 10
	if board.BoardState != nil && board.BoardState.Width() > 0 {
		boardWidth = board.BoardState.Width()*2 + 4 // 2 chars per cell + coordinates
		boardHeight = board.BoardState.Height() + 2 // + coordinates
	}

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false) // top spacer

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)               // left spacer
	centerRow.AddItem(board.Box, boardWidth, 0, true) // board (fixed width)
	centerRow.AddItem(nil, 0, 1, false)               // right spacer

	gameFrame.AddItem(centerRow, boardHeight, 0, true) // center row (fixed height)
	gameFrame.AddItem(nil, 0, 1, false)                // bottom spacer
}
