package sgf

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"othello-local/othello"
)

var (
	// ErrMalformed is returned for content that is not an SGF game.
	ErrMalformed = errors.New("malformed sgf")
	// ErrWrongGame is returned for SGF games other than Othello.
	ErrWrongGame = errors.New("not an othello game")
)

// GameInfo holds metadata parsed from an SGF header.
type GameInfo struct {
	BoardSize   int
	PlayerBlack string
	PlayerWhite string
	Date        string
	GameName    string
	Result      string
	MoveCount   int
}

// Transcript is a parsed game: header, optional setup position and moves.
type Transcript struct {
	Info       GameInfo
	SetupBlack []othello.Pos
	SetupWhite []othello.Pos
	ToPlay     othello.Cell // Empty when PL is absent
	Moves      []Move
}

// ParseHeader extracts metadata from the root node of an SGF string.
func ParseHeader(content string) (*GameInfo, error) {
	if !strings.Contains(content, "(;") {
		return nil, ErrMalformed
	}
	props := parseProperties(content)
	if gm, ok := props["GM"]; ok && gm != "2" {
		return nil, errors.WithMessagef(ErrWrongGame, "GM[%s]", gm)
	}

	boardSize := othello.DefaultSize
	if v, ok := props["SZ"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || !othello.ValidSize(n) {
			return nil, errors.WithMessagef(othello.ErrInvalidSize, "SZ[%s]", v)
		}
		boardSize = n
	}

	return &GameInfo{
		BoardSize:   boardSize,
		PlayerBlack: props["PB"],
		PlayerWhite: props["PW"],
		Date:        props["DT"],
		GameName:    props["GN"],
		Result:      props["RE"],
		MoveCount:   countMoves(content),
	}, nil
}

// Parse reads a complete transcript. Coordinates are range-checked but moves
// are not validated; Replay does that.
func Parse(content string) (*Transcript, error) {
	info, err := ParseHeader(content)
	if err != nil {
		return nil, err
	}
	t := &Transcript{Info: *info}

	for _, node := range append([]string{rootNode(content)}, parseNodes(content)...) {
		if err := t.applySetup(node); err != nil {
			return nil, err
		}
	}

	for _, node := range parseNodes(content) {
		m, ok, err := parseMoveNode(node, info.BoardSize)
		if err != nil {
			return nil, err
		}
		if ok {
			t.Moves = append(t.Moves, m)
		}
	}
	return t, nil
}

// LoadFile reads and parses an SGF file.
func LoadFile(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading sgf")
	}
	t, err := Parse(string(data))
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", path)
	}
	return t, nil
}

// Replay parses content and plays it out.
func Replay(content string) (*othello.Game, error) {
	t, err := Parse(content)
	if err != nil {
		return nil, err
	}
	return t.Replay()
}

// StartBoard returns the position the transcript starts from: the setup
// position when one is given, otherwise the standard opening.
func (t *Transcript) StartBoard() (*othello.Board, othello.Cell, error) {
	if len(t.SetupBlack) == 0 && len(t.SetupWhite) == 0 {
		b, err := othello.NewBoard(t.Info.BoardSize)
		return b, othello.Black, err
	}
	b, err := othello.NewEmptyBoard(t.Info.BoardSize)
	if err != nil {
		return nil, othello.Empty, err
	}
	for _, p := range t.SetupBlack {
		if err := b.Set(p.Row, p.Col, othello.Black); err != nil {
			return nil, othello.Empty, err
		}
	}
	for _, p := range t.SetupWhite {
		if err := b.Set(p.Row, p.Col, othello.White); err != nil {
			return nil, othello.Empty, err
		}
	}
	toPlay := t.ToPlay
	if !toPlay.Valid() {
		toPlay = othello.Black
	}
	return b, toPlay, nil
}

// Replay plays every move through the game engine and returns the final game.
func (t *Transcript) Replay() (*othello.Game, error) {
	b, toPlay, err := t.StartBoard()
	if err != nil {
		return nil, err
	}
	g, err := othello.NewGameFrom(b, toPlay)
	if err != nil {
		return nil, err
	}
	if err := ReplayMoves(g, t.Moves); err != nil {
		return nil, err
	}
	return g, nil
}

// ReplayMoves applies moves to g in order. Passes are checked rather than
// played: the game passes on its own, so a recorded pass is only accepted when
// that colour is not the one to move.
func ReplayMoves(g *othello.Game, moves []Move) error {
	for i, m := range moves {
		if m.Pass {
			if g.Turn() == m.Color && !g.Over() {
				return errors.WithMessagef(othello.ErrInvalidMove, "move %d: %s passed with legal moves", i+1, m.Color)
			}
			continue
		}
		if err := g.PlayAs(m.Color, m.Pos.Row, m.Pos.Col); err != nil {
			return errors.WithMessagef(err, "move %d", i+1)
		}
	}
	return nil
}

// rootNode returns the property text of the root node.
func rootNode(content string) string {
	start := strings.Index(content, "(;")
	if start == -1 {
		return ""
	}
	start += 2
	end := len(content)
	for i := start; i < len(content); i++ {
		if content[i] == '[' {
			i = skipValue(content, i)
			continue
		}
		if content[i] == ';' || content[i] == ')' {
			end = i
			break
		}
	}
	return content[start:end]
}

// parseProperties extracts KEY[value] pairs from the root node of an SGF string.
func parseProperties(content string) map[string]string {
	props := make(map[string]string)
	extractProps(rootNode(content), func(key, val string) {
		props[key] = val // last value wins for simple props
	})
	return props
}

// extractProps parses KEY[value] pairs from a node string, calling fn for
// every value (AB[aa][bb] calls it twice).
func extractProps(node string, fn func(key, val string)) {
	i := 0
	for i < len(node) {
		for i < len(node) && (node[i] == ' ' || node[i] == '\n' || node[i] == '\r' || node[i] == '\t' || node[i] == ';') {
			i++
		}
		if i >= len(node) {
			break
		}

		// Read property identifier (uppercase letters)
		keyStart := i
		for i < len(node) && node[i] >= 'A' && node[i] <= 'Z' {
			i++
		}
		if i == keyStart {
			i++
			continue
		}
		key := node[keyStart:i]

		for i < len(node) && node[i] == '[' {
			end := skipValue(node, i)
			fn(key, unescape(node[i+1:end]))
			i = end + 1
		}
	}
}

// skipValue returns the index of the ']' closing the value opened at i.
func skipValue(s string, i int) int {
	i++
	for i < len(s) && s[i] != ']' {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		i++
	}
	return i
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// countMoves counts the number of move nodes (;B[...] or ;W[...]) in the SGF.
func countMoves(content string) int {
	count := 0
	for _, node := range parseNodes(content) {
		node = strings.TrimSpace(node)
		if len(node) > 2 && (node[1] == 'B' || node[1] == 'W') && node[2] == '[' {
			count++
		}
	}
	return count
}

// parseNodes returns all node strings after the root node.
func parseNodes(content string) []string {
	var nodes []string

	start := strings.Index(content, "(;")
	if start == -1 {
		return nodes
	}
	i := start + 2 + len(rootNode(content))

	for i < len(content) {
		if content[i] != ';' {
			i++
			continue
		}
		nodeStart := i
		i++
		for i < len(content) && content[i] != ';' && content[i] != ')' {
			if content[i] == '[' {
				i = skipValue(content, i)
			}
			i++
		}
		if i > len(content) {
			i = len(content) // unterminated value
		}
		nodes = append(nodes, content[nodeStart:i])
	}

	return nodes
}

// parseMoveNode extracts a move from a node like ";B[dc]". ok is false for
// nodes that carry no move.
func parseMoveNode(node string, size int) (Move, bool, error) {
	node = strings.TrimSpace(node)
	if len(node) < 3 || node[0] != ';' || node[2] != '[' {
		return Move{}, false, nil
	}

	var color othello.Cell
	switch node[1] {
	case 'B':
		color = othello.Black
	case 'W':
		color = othello.White
	default:
		return Move{}, false, nil
	}

	end := skipValue(node, 2)
	if end >= len(node) {
		return Move{}, false, errors.WithMessagef(ErrMalformed, "unterminated node %q", node)
	}
	coord := node[3:end]
	if coord == "" || (coord == "tt" && size <= 19) {
		return PassMove(color), true, nil
	}
	p, err := parseCoord(coord, size)
	if err != nil {
		return Move{}, false, err
	}
	return Move{Color: color, Pos: p}, true, nil
}

func parseCoord(coord string, size int) (othello.Pos, error) {
	if len(coord) != 2 {
		return othello.Pos{}, errors.WithMessagef(ErrMalformed, "coordinate %q", coord)
	}
	p := othello.Pos{Row: int(coord[1]) - 'a', Col: int(coord[0]) - 'a'}
	if p.Row < 0 || p.Row >= size || p.Col < 0 || p.Col >= size {
		return othello.Pos{}, errors.WithMessagef(othello.ErrOutOfBounds, "coordinate %q", coord)
	}
	return p, nil
}

// applySetup reads AB/AW/PL from a node.
func (t *Transcript) applySetup(node string) error {
	var err error
	extractProps(node, func(key, val string) {
		if err != nil {
			return
		}
		switch key {
		case "AB", "AW":
			var p othello.Pos
			p, err = parseCoord(val, t.Info.BoardSize)
			if key == "AB" {
				t.SetupBlack = append(t.SetupBlack, p)
			} else {
				t.SetupWhite = append(t.SetupWhite, p)
			}
		case "PL":
			switch strings.ToUpper(val) {
			case "B":
				t.ToPlay = othello.Black
			case "W":
				t.ToPlay = othello.White
			}
		}
	})
	return err
}
