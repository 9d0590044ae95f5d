package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MenuColors defines the Nord-inspired palette for the menu screens.
var MenuColors = struct {
	Border      tcell.Color
	BorderFocus tcell.Color
	CardBG      tcell.Color
	Title       tcell.Color
	TitleAccent tcell.Color
	Label       tcell.Color
	Hint        tcell.Color
	Selected    tcell.Color
	Unselected  tcell.Color
	ButtonFocus tcell.Color
	ButtonText  tcell.Color
	InputBG     tcell.Color
	Error       tcell.Color
}{
	Border:      tcell.PaletteColor(60),
	BorderFocus: tcell.PaletteColor(109),
	CardBG:      tcell.PaletteColor(236),
	Title:       tcell.PaletteColor(255),
	TitleAccent: tcell.PaletteColor(109),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(245),
	Selected:    tcell.PaletteColor(109),
	Unselected:  tcell.PaletteColor(245),
	ButtonFocus: tcell.PaletteColor(109),
	ButtonText:  tcell.PaletteColor(255),
	InputBG:     tcell.PaletteColor(238),
	Error:       tcell.PaletteColor(174),
}

func cardStyle(fg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fg).Background(MenuColors.CardBG)
}

// drawText writes text from (x, y) and returns the column after it.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

// drawFieldLabel draws the focus cursor and a "◈ label" prefix.
func drawFieldLabel(screen tcell.Screen, x, y int, label string, focused bool) int {
	cursor := ' '
	if focused {
		cursor = '▸'
	}
	screen.SetContent(x, y, cursor, nil, cardStyle(MenuColors.Selected))
	screen.SetContent(x+2, y, '◈', nil, cardStyle(MenuColors.TitleAccent))
	return drawText(screen, x+4, y, label, cardStyle(MenuColors.Label))
}

// MenuCard is a card container with rounded borders and a title.
type MenuCard struct {
	*tview.Box
	title string
}

// NewMenuCard creates a new menu card with the given title.
func NewMenuCard(title string) *MenuCard {
	return &MenuCard{Box: tview.NewBox(), title: title}
}

// Draw renders the card. Content starts on the fifth inner row.
func (c *MenuCard) Draw(screen tcell.Screen) {
	c.Box.DrawForSubclass(screen, c)

	x, y, width, height := c.GetInnerRect()
	if width < 10 || height < 5 {
		return
	}

	borderColor := MenuColors.Border
	if c.HasFocus() {
		borderColor = MenuColors.BorderFocus
	}
	border := cardStyle(borderColor)
	bg := cardStyle(MenuColors.Label)

	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, bg)
		}
	}

	right, bottom := x+width-1, y+height-1
	for col := x + 1; col < right; col++ {
		screen.SetContent(col, y, '─', nil, border)
		screen.SetContent(col, bottom, '─', nil, border)
	}
	for row := y + 1; row < bottom; row++ {
		screen.SetContent(x, row, '│', nil, border)
		screen.SetContent(right, row, '│', nil, border)
	}
	screen.SetContent(x, y, '╭', nil, border)
	screen.SetContent(right, y, '╮', nil, border)
	screen.SetContent(x, bottom, '╰', nil, border)
	screen.SetContent(right, bottom, '╯', nil, border)

	if c.title != "" {
		titleX := x + (width-len([]rune(c.title))-3)/2
		screen.SetContent(titleX, y+2, '◉', nil, cardStyle(MenuColors.TitleAccent))
		drawText(screen, titleX+3, y+2, c.title, cardStyle(MenuColors.Title).Bold(true))
		c.drawDivider(screen, y+4, border)
	}
}

func (c *MenuCard) drawDivider(screen tcell.Screen, divY int, style tcell.Style) {
	x, _, width, _ := c.GetInnerRect()
	screen.SetContent(x, divY, '├', nil, style)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, divY, '─', nil, style)
	}
	screen.SetContent(x+width-1, divY, '┤', nil, style)
}

// MenuButton is a button drawn inside a card.
type MenuButton struct {
	label    string
	primary  bool
	focused  bool
	onSelect func()
}

// NewMenuButton creates a new menu button.
func NewMenuButton(label string, primary bool, onSelect func()) *MenuButton {
	return &MenuButton{label: label, primary: primary, onSelect: onSelect}
}

func (b *MenuButton) SetFocused(focused bool) {
	b.focused = focused
}

// HandleKey runs the button on Enter.
func (b *MenuButton) HandleKey(event *tcell.EventKey) bool {
	if event.Key() != tcell.KeyEnter {
		return false
	}
	if b.onSelect != nil {
		b.onSelect()
	}
	return true
}

func (b *MenuButton) text() string {
	if b.primary {
		return "▶ " + b.label
	}
	return b.label
}

// Width returns the button width including padding.
func (b *MenuButton) Width() int {
	return len([]rune(b.text())) + 2
}

// Draw renders the button at (x, y) and returns its width.
func (b *MenuButton) Draw(screen tcell.Screen, x, y int) int {
	if b.focused {
		style := tcell.StyleDefault.Foreground(MenuColors.ButtonText).Background(MenuColors.ButtonFocus)
		for i := 0; i < b.Width(); i++ {
			screen.SetContent(x+i, y, ' ', nil, style)
		}
		drawText(screen, x+1, y, b.text(), style)
	} else {
		screen.SetContent(x, y, '[', nil, cardStyle(MenuColors.Border))
		end := drawText(screen, x+1, y, b.text(), cardStyle(MenuColors.Hint))
		screen.SetContent(end, y, ']', nil, cardStyle(MenuColors.Border))
	}
	return b.Width()
}

// RadioOption is one choice of a RadioSelect.
type RadioOption struct {
	Label       string
	Description string
}

// RadioSelect is a vertical group of exclusive options.
type RadioSelect struct {
	label    string
	options  []RadioOption
	selected int
	focused  bool
	onChange func(int)
}

// NewRadioSelect creates a new radio select component.
func NewRadioSelect(label string, options []RadioOption, initial int, onChange func(int)) *RadioSelect {
	return &RadioSelect{label: label, options: options, selected: initial, onChange: onChange}
}

func (r *RadioSelect) SetFocused(focused bool) {
	r.focused = focused
}

// HandleKey moves the selection with the up and down keys. At either end the
// key is left unhandled so focus can move on.
func (r *RadioSelect) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyUp:
		if r.selected == 0 {
			return false
		}
		r.SetSelected(r.selected - 1)
		return true
	case tcell.KeyDown:
		if r.selected == len(r.options)-1 {
			return false
		}
		r.SetSelected(r.selected + 1)
		return true
	}
	return false
}

// Draw renders the group and returns the number of rows used.
func (r *RadioSelect) Draw(screen tcell.Screen, x, y, width int) int {
	drawFieldLabel(screen, x, y, r.label, r.focused)
	for i, opt := range r.options {
		row := y + 1 + i
		style := cardStyle(MenuColors.Unselected)
		bullet := '○'
		if i == r.selected {
			style = cardStyle(MenuColors.Selected)
			bullet = '●'
		}
		screen.SetContent(x+4, row, bullet, nil, style)
		end := drawText(screen, x+6, row, opt.Label, style)
		if opt.Description != "" {
			drawText(screen, end+1, row, opt.Description, cardStyle(MenuColors.Hint))
		}
	}
	return len(r.options) + 1
}

// Selected returns the currently selected index.
func (r *RadioSelect) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *RadioSelect) SetSelected(index int) {
	if index < 0 || index >= len(r.options) {
		return
	}
	r.selected = index
	if r.onChange != nil {
		r.onChange(r.selected)
	}
}

// Slider selects an integer between min and max in fixed steps.
type Slider struct {
	label    string
	min      int
	max      int
	step     int
	value    int
	format   func(int) string
	focused  bool
	onChange func(int)
}

// NewSlider creates a slider. format renders the value; nil prints it as is.
func NewSlider(label string, min, max, step, initial int, format func(int) string, onChange func(int)) *Slider {
	if format == nil {
		format = func(v int) string { return fmt.Sprint(v) }
	}
	return &Slider{label: label, min: min, max: max, step: step, value: initial, format: format, onChange: onChange}
}

func (s *Slider) SetFocused(focused bool) {
	s.focused = focused
}

// HandleKey moves the value with the left and right keys.
func (s *Slider) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		s.SetValue(s.value - s.step)
		return true
	case tcell.KeyRight:
		s.SetValue(s.value + s.step)
		return true
	}
	return false
}

// Draw renders the slider on one row.
func (s *Slider) Draw(screen tcell.Screen, x, y, width int) int {
	col := drawFieldLabel(screen, x, y, s.label, s.focused) + 3

	arrow := cardStyle(MenuColors.Unselected)
	if s.focused {
		arrow = cardStyle(MenuColors.Selected)
	}
	screen.SetContent(col, y, '◀', nil, arrow)
	col += 2

	steps := (s.max-s.min)/s.step + 1
	filled := (s.value-s.min)/s.step + 1
	for i := 0; i < steps; i++ {
		if i < filled {
			screen.SetContent(col, y, '█', nil, cardStyle(MenuColors.Selected))
		} else {
			screen.SetContent(col, y, '░', nil, cardStyle(MenuColors.Unselected))
		}
		col++
	}
	col = drawText(screen, col+1, y, s.format(s.value), cardStyle(MenuColors.Label))
	screen.SetContent(col+1, y, '▶', nil, arrow)
	return 1
}

// Value returns the current slider value.
func (s *Slider) Value() int {
	return s.value
}

// SetValue sets the value if it lies within the range.
func (s *Slider) SetValue(v int) {
	if v < s.min || v > s.max {
		return
	}
	s.value = v
	if s.onChange != nil {
		s.onChange(s.value)
	}
}

// TextInput is a single line text field.
type TextInput struct {
	label    string
	text     []rune
	cursor   int
	width    int
	focused  bool
	onChange func(string)
}

// NewTextInput creates a field showing width characters.
func NewTextInput(label, initial string, width int, onChange func(string)) *TextInput {
	t := &TextInput{label: label, text: []rune(initial), width: width, onChange: onChange}
	t.cursor = len(t.text)
	return t
}

func (t *TextInput) SetFocused(focused bool) {
	t.focused = focused
}

// HandleKey edits the text. Printable runes are inserted at the cursor.
func (t *TextInput) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		if t.cursor > 0 {
			t.cursor--
		}
	case tcell.KeyRight:
		if t.cursor < len(t.text) {
			t.cursor++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		t.cursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		t.cursor = len(t.text)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if t.cursor == 0 {
			return true
		}
		t.text = append(t.text[:t.cursor-1], t.text[t.cursor:]...)
		t.cursor--
		t.changed()
	case tcell.KeyDelete:
		if t.cursor == len(t.text) {
			return true
		}
		t.text = append(t.text[:t.cursor], t.text[t.cursor+1:]...)
		t.changed()
	case tcell.KeyRune:
		t.text = append(t.text[:t.cursor], append([]rune{event.Rune()}, t.text[t.cursor:]...)...)
		t.cursor++
		t.changed()
	default:
		return false
	}
	return true
}

func (t *TextInput) changed() {
	if t.onChange != nil {
		t.onChange(string(t.text))
	}
}

// Draw renders the field on one row, scrolled to keep the cursor visible.
func (t *TextInput) Draw(screen tcell.Screen, x, y, width int) int {
	col := drawFieldLabel(screen, x, y, t.label, t.focused) + 3
	input := tcell.StyleDefault.Foreground(MenuColors.Label).Background(MenuColors.InputBG)
	cursor := tcell.StyleDefault.Foreground(MenuColors.CardBG).Background(MenuColors.Selected)

	offset := 0
	if t.cursor >= t.width {
		offset = t.cursor - t.width + 1
	}
	screen.SetContent(col, y, '[', nil, cardStyle(MenuColors.Label))
	col++
	for i := 0; i < t.width; i++ {
		ch := ' '
		if offset+i < len(t.text) {
			ch = t.text[offset+i]
		}
		style := input
		if t.focused && offset+i == t.cursor {
			style = cursor
		}
		screen.SetContent(col+i, y, ch, nil, style)
	}
	screen.SetContent(col+t.width, y, ']', nil, cardStyle(MenuColors.Label))
	return 1
}

// Text returns the current text.
func (t *TextInput) Text() string {
	return string(t.text)
}
