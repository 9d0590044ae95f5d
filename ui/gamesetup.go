package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"othello-local/engine"
	"othello-local/othello"
)

// setupField is a focusable control on the setup card.
type setupField interface {
	SetFocused(bool)
	HandleKey(*tcell.EventKey) bool
}

// GameSetupUI is the new game card.
type GameSetupUI struct {
	*MenuCard
	game     engine.GameConfig
	size     *Slider
	mode     *RadioSelect
	color    *RadioSelect
	model    *TextInput
	delay    *Slider
	buttons  []*MenuButton
	fields   []setupField
	focus    int
	err      string
	onStart  func(engine.GameConfig)
	onCancel func()
}

// NewGameSetup creates the setup card, preset from defaults.
func NewGameSetup(defaults engine.GameConfig, onStart func(engine.GameConfig), onCancel func(), onColors func()) *GameSetupUI {
	s := &GameSetupUI{
		MenuCard: NewMenuCard("O T H E L L O"),
		game:     defaults,
		onStart:  onStart,
		onCancel: onCancel,
	}

	s.size = NewSlider("Board size", othello.MinSize, othello.MaxSize, 2, defaults.BoardSize,
		func(v int) string { return fmt.Sprintf("%dx%d", v, v) },
		func(v int) { s.game.BoardSize = v })

	modeOptions := make([]RadioOption, len(engine.Modes))
	initialMode := 0
	for i, m := range engine.Modes {
		modeOptions[i] = RadioOption{Label: modeLabel(m), Description: modeDescription(m)}
		if m == defaults.Mode {
			initialMode = i
		}
	}
	s.mode = NewRadioSelect("Opponent", modeOptions, initialMode, func(i int) {
		s.game.Mode = engine.Modes[i]
	})

	initialColor := 0
	if defaults.PlayerColor == int(othello.White) {
		initialColor = 1
	}
	s.color = NewRadioSelect("Your colour", []RadioOption{
		{Label: "Black", Description: "moves first"},
		{Label: "White", Description: "moves second"},
	}, initialColor, func(i int) {
		s.game.PlayerColor = int(othello.Black)
		if i == 1 {
			s.game.PlayerColor = int(othello.White)
		}
	})

	s.model = NewTextInput("Model file", defaults.ModelPath, 24, func(text string) {
		s.game.ModelPath = strings.TrimSpace(text)
	})

	s.delay = NewSlider("Think delay", 0, 1000, 100, defaults.EngineDelay,
		func(v int) string { return fmt.Sprintf("%dms", v) },
		func(v int) { s.game.EngineDelay = v })

	s.buttons = []*MenuButton{
		NewMenuButton("Start", true, s.start),
		NewMenuButton("Colours", false, func() {
			if onColors != nil {
				onColors()
			}
		}),
		NewMenuButton("Quit", false, onCancel),
	}

	s.fields = []setupField{s.size, s.mode, s.color, s.model, s.delay}
	for _, b := range s.buttons {
		s.fields = append(s.fields, b)
	}
	s.fields[0].SetFocused(true)
	return s
}

func modeLabel(m engine.Mode) string {
	switch m {
	case engine.ModeTrained:
		return "Trained policy"
	case engine.ModeHuman:
		return "Two players"
	default:
		return "Random"
	}
}

func modeDescription(m engine.Mode) string {
	switch m {
	case engine.ModeTrained:
		return "random without a model file"
	case engine.ModeHuman:
		return "same keyboard"
	default:
		return "any legal move"
	}
}

// Config returns the game currently described by the card.
func (s *GameSetupUI) Config() engine.GameConfig {
	return s.game
}

// SetError shows msg under the fields until the next start attempt.
func (s *GameSetupUI) SetError(msg string) {
	s.err = msg
}

func (s *GameSetupUI) start() {
	s.err = ""
	s.onStart(s.game)
}

func (s *GameSetupUI) moveFocus(delta int) {
	s.fields[s.focus].SetFocused(false)
	s.focus = (s.focus + delta + len(s.fields)) % len(s.fields)
	s.fields[s.focus].SetFocused(true)
}

// Draw renders the card and its fields.
func (s *GameSetupUI) Draw(screen tcell.Screen) {
	s.MenuCard.Draw(screen)
	x, y, width, height := s.GetInnerRect()
	if width < 40 || height < 24 {
		drawText(screen, x, y, "Window too small", tcell.StyleDefault)
		return
	}

	left, row := x+3, y+6
	row += s.size.Draw(screen, left, row, width) + 1
	row += s.mode.Draw(screen, left, row, width) + 1
	row += s.color.Draw(screen, left, row, width) + 1
	if s.game.Mode == engine.ModeTrained {
		s.model.Draw(screen, left, row, width)
	} else {
		drawFieldLabel(screen, left, row, "Model file", s.fields[s.focus] == setupField(s.model))
		drawText(screen, left+18, row, "(trained policy only)", cardStyle(MenuColors.Hint))
	}
	row += 2
	row += s.delay.Draw(screen, left, row, width) + 1

	if s.err != "" {
		drawText(screen, left, row, s.err, cardStyle(MenuColors.Error))
	}
	row += 2

	col := left
	for _, b := range s.buttons {
		col += b.Draw(screen, col, row) + 2
	}

	drawText(screen, left, y+height-2, "Tab/↑↓ fields · ←→ adjust · ⏎ select · Esc quit", cardStyle(MenuColors.Hint))
}

// InputHandler routes keys to the focused field.
func (s *GameSetupUI) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return s.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		switch event.Key() {
		case tcell.KeyTab:
			s.moveFocus(1)
			return
		case tcell.KeyBacktab:
			s.moveFocus(-1)
			return
		case tcell.KeyEscape:
			if s.onCancel != nil {
				s.onCancel()
			}
			return
		}
		field := s.fields[s.focus]
		if field == setupField(s.model) && s.game.Mode != engine.ModeTrained {
			field = nil
		}
		if field != nil && field.HandleKey(event) {
			return
		}
		switch event.Key() {
		case tcell.KeyUp:
			s.moveFocus(-1)
		case tcell.KeyDown, tcell.KeyEnter:
			s.moveFocus(1)
		}
	})
}
