// Package ui specifies custom controls for tview to assist in playing Othello in the terminal.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"othello-local/analysis"
	"othello-local/config"
	"othello-local/engine"
	"othello-local/othello"
	"othello-local/sgf"
	"othello-local/types"
)

// Indexes into BoardUI.styles.
const (
	styleBoard = iota
	styleBlack
	styleWhite
	styleBoardAlt
	styleLine
	styleCursorFG
	styleLastPlayedBG
	styleCursorBG
	styleValidMove
	styleFlippedBG
)

// ErrNoGame is returned by board actions before a game is connected.
var ErrNoGame = errors.New("no game in progress")

// moveLister is implemented by engines that keep the move list.
type moveLister interface {
	Moves() []sgf.Move
}

type BoardUI struct {
	Box        *tview.Box
	BoardState *types.BoardState
	hint       *tview.TextView
	cfg        *config.Config
	finished   bool
	selX       int
	selY       int
	status     string
	app        *tview.Application
	eng        engine.GameEngine
	session    *engine.Session
	styles     []tcell.Color
	infoPanel  *GameInfoPanel
	focusMode  bool
	heatmap    bool
	heat       map[othello.Pos]analysis.MoveScore
	heatLo     float64
	heatHi     float64
	onGameEnd  func(outcome string)
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *BoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *BoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

// IsFocusMode returns true if focus mode is enabled.
func (g *BoardUI) IsFocusMode() bool {
	return g.focusMode
}

// ToggleHeatmap switches the move score overlay and returns the new state.
func (g *BoardUI) ToggleHeatmap() bool {
	g.heatmap = !g.heatmap
	g.updateHeat()
	g.refreshHint()
	return g.heatmap
}

// SetHeatmap sets the move score overlay.
func (g *BoardUI) SetHeatmap(enabled bool) {
	g.heatmap = enabled
	g.updateHeat()
}

func (g *BoardUI) SelectedTile() *types.BoardPos {
	if g.selX == -1 && g.selY == -1 {
		return nil
	}
	return &types.BoardPos{X: g.selX, Y: g.selY}
}

func (g *BoardUI) MoveSelection(h, v int) {
	if g.BoardState.Finished() {
		g.ResetSelection()
		return
	}
	if g.SelectedTile() == nil {
		g.selX = g.BoardState.LastMove.X
		g.selY = g.BoardState.LastMove.Y
		if g.SelectedTile() == nil {
			// No move yet, start at the first legal square
			if len(g.BoardState.ValidMoves) > 0 {
				g.selX, g.selY = g.BoardState.ValidMoves[0].X, g.BoardState.ValidMoves[0].Y
			} else {
				g.selX = g.BoardState.Width() / 2
				g.selY = g.BoardState.Height() / 2
			}
		}
		return
	}
	if g.selX+h < 0 || g.selX+h >= g.BoardState.Width() {
		return
	}
	if g.selY+v < 0 || g.selY+v >= g.BoardState.Height() {
		return
	}
	g.selX += h
	g.selY += v
}

func (g *BoardUI) ResetSelection() {
	g.selX = -1
	g.selY = -1
}

func NewBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *BoardUI {
	board := &BoardUI{
		Box:        tview.NewBox(),
		BoardState: &types.BoardState{},
		hint:       hint,
		app:        app,
		selX:       -1,
		selY:       -1,
		heatmap:    c.Game.Heatmap,
	}
	board.SetConfig(c)
	board.Box.SetDrawFunc(board.draw)
	return board
}

func (g *BoardUI) draw(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
	state := g.BoardState
	if state == nil || state.Width() == 0 {
		return x, y, 1, 1
	}
	theme := g.cfg.Theme
	myTurn := g.eng != nil && !g.finished && g.eng.IsMyTurn()

	// 2 characters per cell for square appearance
	boardW, boardH := state.Width()*2, state.Height()
	for by := 0; by < state.Height(); by++ {
		for bx := 0; bx < state.Width(); bx++ {
			bg := g.styles[styleBoard]
			if (bx+by)%2 == 1 {
				bg = g.styles[styleBoardAlt]
			}
			fg := g.styles[styleLine]
			cell := [2]rune{theme.Symbols.BoardSquare, ' '}

			switch othello.Cell(state.Board[by][bx]) {
			case othello.Black:
				cell[0], fg = theme.Symbols.BlackDisc, g.styles[styleBlack]
			case othello.White:
				cell[0], fg = theme.Symbols.WhiteDisc, g.styles[styleWhite]
			default:
				pos := othello.Pos{Row: by, Col: bx}
				if score, ok := g.heat[pos]; ok {
					r, gr, b := analysis.HeatColor(score.Score, g.heatLo, g.heatHi)
					bg = tcell.NewRGBColor(r, gr, b)
					fg = tcell.ColorBlack
					label := fmt.Sprintf("%-2d", int(score.Score+0.5))
					cell = [2]rune{rune(label[0]), rune(label[1])}
				} else if myTurn && theme.ShowValidMoves && state.IsValid(bx, by) {
					cell[0], fg = theme.Symbols.ValidMove, g.styles[styleValidMove]
				}
			}

			if theme.DrawFlippedBackground && state.WasFlipped(bx, by) {
				bg = g.styles[styleFlippedBG]
			}
			if bx == g.selX && by == g.selY {
				if theme.DrawCursorBackground {
					bg = g.styles[styleCursorBG]
				} else if state.Board[by][bx] == 0 {
					cell[0], fg = theme.Symbols.Cursor, g.styles[styleCursorFG]
				}
			} else if bx == state.LastMove.X && by == state.LastMove.Y && theme.DrawLastPlayedBackground {
				bg = g.styles[styleLastPlayedBG]
			}

			style := tcell.StyleDefault.Background(bg).Foreground(fg)
			screen.SetContent(x+4+bx*2, y+by, cell[0], nil, style)
			screen.SetContent(x+4+bx*2+1, y+by, cell[1], nil, style)
		}
	}
	drawCoordinates(screen, x, y, g)
	// Add offset for coordinate display
	return x, y, boardW + 4, boardH + 2
}

// SetSession sets the tally finished games are recorded in.
func (g *BoardUI) SetSession(s *engine.Session) {
	g.session = s
}

// OnGameEnd registers a hook run on the UI goroutine after a game ends.
func (g *BoardUI) OnGameEnd(fn func(outcome string)) {
	g.onGameEnd = fn
}

// ConnectEngine connects the board to a game engine.
func (g *BoardUI) ConnectEngine(e engine.GameEngine) error {
	g.Close()
	g.finished = false
	g.status = ""
	g.eng = e
	g.ResetSelection()

	// Callbacks may run on the opponent goroutine; state is re-read on the UI
	// goroutine so that queued updates never apply out of order.
	e.OnMove(func(x, y, color int, _ *types.BoardState) {
		go g.app.QueueUpdateDraw(func() {
			if g.eng == e {
				g.refresh()
			}
		})
	})
	e.OnGameEnd(func(outcome string) {
		go g.app.QueueUpdateDraw(func() {
			if g.eng != e {
				return
			}
			g.finished = true
			g.ResetSelection()
			g.refresh()
			if g.session != nil {
				g.session.Record(g.BoardState.Black, g.BoardState.White)
			}
			if g.onGameEnd != nil {
				g.onGameEnd(outcome)
			}
			g.refreshHint()
		})
	})

	if err := e.Connect(); err != nil {
		g.eng = nil
		return err
	}
	g.refresh()
	return nil
}

// Redraw refreshes the status and info panel text.
func (g *BoardUI) Redraw() {
	g.refreshHint()
}

// Engine returns the connected engine, or nil.
func (g *BoardUI) Engine() engine.GameEngine {
	return g.eng
}

// refresh pulls the current state from the engine.
func (g *BoardUI) refresh() {
	if g.eng == nil {
		return
	}
	g.BoardState = g.eng.GetBoardState()
	g.finished = g.BoardState.Finished()
	g.updateHeat()
	g.refreshHint()
}

func (g *BoardUI) updateHeat() {
	g.heat = nil
	if !g.heatmap || g.eng == nil || g.finished || !g.eng.IsMyTurn() {
		return
	}
	b, err := othello.FromRows(g.BoardState.Board)
	if err != nil {
		return
	}
	scores := analysis.ScoreMoves(b, othello.Cell(g.BoardState.PlayerToMove))
	g.heat = make(map[othello.Pos]analysis.MoveScore, len(scores))
	for _, s := range scores {
		g.heat[s.Pos] = s
	}
	g.heatLo, g.heatHi = analysis.Range(scores)
}

// CurrentBoard returns the displayed position and the colour to move.
func (g *BoardUI) CurrentBoard() (*othello.Board, othello.Cell, error) {
	b, err := othello.FromRows(g.BoardState.Board)
	if err != nil {
		return nil, othello.Empty, err
	}
	return b, othello.Cell(g.BoardState.PlayerToMove), nil
}

// PlayMove plays a move at the given coordinates.
func (g *BoardUI) PlayMove(x, y int) {
	if g.finished || g.eng == nil || !g.eng.IsMyTurn() {
		return
	}
	if err := g.eng.PlayMove(x, y); err != nil {
		g.status = fmt.Sprintf("%s: %v", othello.Pos{Row: y, Col: x}, err)
		log.Debug().Err(err).Int("x", x).Int("y", y).Msg("move-rejected")
	} else {
		g.status = ""
	}
	g.refresh()
}

// Undo takes back the last human move.
func (g *BoardUI) Undo() (*engine.UndoInfo, error) {
	if g.eng == nil {
		return nil, ErrNoGame
	}
	info, err := g.eng.Undo()
	if err != nil {
		g.status = err.Error()
	} else {
		g.status = fmt.Sprintf("Took back %s", info.Pos)
	}
	g.refresh()
	return info, err
}

// Redo replays the next move of the current line.
func (g *BoardUI) Redo() {
	if g.eng == nil {
		return
	}
	if err := g.eng.Redo(); err != nil {
		g.status = err.Error()
	} else {
		g.status = ""
	}
	g.refresh()
}

// Moves returns the moves played so far, if the engine keeps them.
func (g *BoardUI) Moves() []sgf.Move {
	if l, ok := g.eng.(moveLister); ok {
		return l.Moves()
	}
	return nil
}

// Close disconnects the engine.
func (g *BoardUI) Close() {
	if g.eng == nil {
		return
	}
	g.eng.Close()
}

func (g *BoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),        // 0
		tcell.PaletteColor(c.Theme.Colors.BlackColor),        // 1
		tcell.PaletteColor(c.Theme.Colors.WhiteColor),        // 2
		tcell.PaletteColor(c.Theme.Colors.BoardColorAlt),     // 3
		tcell.PaletteColor(c.Theme.Colors.LineColor),         // 4
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG),     // 5
		tcell.PaletteColor(c.Theme.Colors.LastPlayedColorBG), // 6
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG),     // 7
		tcell.PaletteColor(c.Theme.Colors.ValidMoveColor),    // 8
		tcell.PaletteColor(c.Theme.Colors.FlippedColorBG),    // 9
	}
	g.cfg = c
}

func (g *BoardUI) refreshHint() {
	if g.infoPanel != nil {
		g.infoPanel.SetBoardState(g.BoardState)
		g.infoPanel.SetMoves(g.Moves())
		if g.session != nil {
			g.infoPanel.SetTally(g.session.String())
		}
	}

	// Focus mode shows minimal hint
	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}

	var statusLine, turnLine, controlsLine string

	if g.finished {
		statusLine = "───────── Game Complete ─────────\n\n"
		turnLine = fmt.Sprintf("  Result: %s\n", g.BoardState.Outcome)
		controlsLine = "\n  u undo · n new game · q menu"
	} else {
		switch {
		case g.status != "":
			statusLine = "  " + g.status + "\n"
		case g.BoardState.Passed != 0:
			statusLine = fmt.Sprintf("  ○ %s had no move and passed\n", othello.Cell(g.BoardState.Passed))
		}

		if g.eng != nil && g.eng.IsMyTurn() {
			turnLine = fmt.Sprintf("  ● Your move (%s)\n", othello.Cell(g.eng.GetPlayerColor()))
		} else {
			turnLine = "  ◌ Thinking...\n"
		}

		heat := "off"
		if g.heatmap {
			heat = "on"
		}
		controlsLine = fmt.Sprintf(`
  hjkl/↑↓←→ move  ⏎ play  u undo  r redo
  m heatmap (%s)  a analyse  f focus  q quit`, heat)
	}

	g.hint.SetText(fmt.Sprintf("%s%s%s", statusLine, turnLine, controlsLine))
}

// IsFinished returns true if the game is over.
func (g *BoardUI) IsFinished() bool {
	return g.finished
}

func drawCoordinates(s tcell.Screen, x, y int, ui *BoardUI) {
	hCoord := int('a')
	w, h := ui.BoardState.Width(), ui.BoardState.Height()
	if ui.cfg.Theme.FullWidthLetters {
		hCoord = int('ａ')
	}

	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(ui.styles[styleCursorBG])
	lpHighlight := tcell.StyleDefault.Background(ui.styles[styleLastPlayedBG])

	for ix := 0; ix < w; ix++ {
		_style := style
		if ix == ui.selX {
			_style = highlight
		} else if ix == ui.BoardState.LastMove.X {
			_style = lpHighlight
		}
		s.SetContent(x+4+(ix*2), y+h+1, rune(hCoord+ix), nil, _style)
		s.SetContent(x+4+(ix*2)+1, y+h+1, ' ', nil, _style)
	}

	// Rows are numbered from the top, matching the move notation
	for iy := 0; iy < h; iy++ {
		_style := style
		if iy == ui.selY {
			_style = highlight
		} else if iy == ui.BoardState.LastMove.Y {
			_style = lpHighlight
		}
		displayNum := iy + 1
		tensRune := ' '
		if displayNum >= 10 {
			tensRune = rune('0' + displayNum/10)
		}
		s.SetContent(x+1, y+iy, tensRune, nil, _style)
		s.SetContent(x+2, y+iy, rune('0'+(displayNum%10)), nil, _style)
	}
}
