package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"othello-local/config"
)

// ColorConfigUI provides a colour configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()

	selectedBoard int
	selectedAlt   int
	editingAlt    bool // true = editing the alternate square colour
}

type namedColor struct {
	code int
	name string
}

// Felt tones for the board squares.
var boardColors = []namedColor{
	{28, "Felt Green"},
	{22, "Dark Green"},
	{29, "Sea Green"},
	{23, "Teal"},
	{30, "Dark Cyan"},
	{64, "Olive"},
	{65, "Moss"},
	{71, "Fern"},
	{35, "Jade"},
	{24, "Deep Blue"},
	{17, "Navy"},
	{94, "Walnut"},
	{130, "Rust"},
	{236, "Charcoal"},
	{240, "Slate"},
}

// NewColorConfig creates a new colour configuration screen.
func NewColorConfig(cfg *config.Config, onDone func()) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:           cfg,
		onDone:        onDone,
		selectedBoard: cfg.Theme.Colors.BoardColor,
		selectedAlt:   cfg.Theme.Colors.BoardColorAlt,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	cc.populateColorList()

	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index < 0 || index >= len(boardColors) {
			return
		}
		if cc.editingAlt {
			cc.selectedAlt = boardColors[index].code
		} else {
			cc.selectedBoard = boardColors[index].code
		}
	})

	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index < 0 || index >= len(boardColors) {
			return
		}
		if !cc.editingAlt {
			// Pick the alternate square next
			cc.cfg.Theme.Colors.BoardColor = cc.selectedBoard
			cc.editingAlt = true
			cc.populateColorList()
			return
		}
		cc.cfg.Theme.Colors.BoardColorAlt = cc.selectedAlt
		if err := cc.cfg.Save(); err != nil {
			log.Err(err).Msg("config-save-failed")
		}
		cc.editingAlt = false
		cc.populateColorList()
		onDone()
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	// Layout: list on left, preview on right
	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 30, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

// populateColorList fills the list and selects the colour being edited.
func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()
	current := cc.selectedBoard
	if cc.editingAlt {
		cc.colorList.SetTitle(" Alternate Squares (Tab: main) ")
		current = cc.selectedAlt
	} else {
		cc.colorList.SetTitle(" Board Squares (Tab: alternate) ")
	}

	for i, c := range boardColors {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range boardColors {
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	const size = 6
	if width < 20 || height < size+4 {
		return x, y, width, height
	}
	colors := cc.cfg.Theme.Colors
	symbols := cc.cfg.Theme.Symbols
	discs := map[[2]int]rune{
		{2, 2}: 'W', {3, 3}: 'W', {2, 3}: 'B', {3, 2}: 'B',
		{1, 3}: 'B', {2, 4}: 'W',
	}

	startX, startY := x+2, y+1
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			bg := tcell.PaletteColor(cc.selectedBoard)
			if (row+col)%2 == 1 {
				bg = tcell.PaletteColor(cc.selectedAlt)
			}
			style := tcell.StyleDefault.Background(bg).Foreground(tcell.PaletteColor(colors.LineColor))
			ch := symbols.BoardSquare
			switch discs[[2]int{row, col}] {
			case 'B':
				ch, style = symbols.BlackDisc, style.Foreground(tcell.PaletteColor(colors.BlackColor))
			case 'W':
				ch, style = symbols.WhiteDisc, style.Foreground(tcell.PaletteColor(colors.WhiteColor))
			}
			screen.SetContent(startX+col*2, startY+row, ch, nil, style)
			screen.SetContent(startX+col*2+1, startY+row, ' ', nil, style)
		}
	}

	info := fmt.Sprintf("Board: %d  Alternate: %d", cc.selectedBoard, cc.selectedAlt)
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+size+1, ch, nil, tcell.StyleDefault)
		}
	}
	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the colour list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches between the main and the alternate square colour.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingAlt = !cc.editingAlt
	cc.populateColorList()
}
