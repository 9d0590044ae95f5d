package sgf

import (
	"fmt"

	"othello-local/othello"
)

// Move is one node of an Othello transcript: a disc placed by Color, or a
// pass when Pass is set.
type Move struct {
	Color othello.Cell
	Pos   othello.Pos
	Pass  bool
}

// PassMove returns the pass node for color.
func PassMove(color othello.Cell) Move {
	return Move{Color: color, Pass: true}
}

// String renders the move as an SGF node: ";B[dc]" or ";W[]".
func (m Move) String() string {
	if m.Pass {
		return fmt.Sprintf(";%s[]", colorLetter(m.Color))
	}
	return fmt.Sprintf(";%s[%s]", colorLetter(m.Color), sgfCoord(m.Pos))
}

// GameNode represents a single position in the game tree.
type GameNode struct {
	Move     Move // zero for root
	Parent   *GameNode
	Children []*GameNode // First child = main line
}

// GameTree tracks an in-memory tree of moves so undone lines can be redone.
type GameTree struct {
	Root    *GameNode
	Current *GameNode
}

// NewGameTree creates a new game tree with an empty root node.
func NewGameTree() *GameTree {
	root := &GameNode{}
	return &GameTree{Root: root, Current: root}
}

// AddMove adds a child move to the current node and advances to it.
// If a child with the same move already exists, navigates to it instead of creating a duplicate.
// A new line becomes the first child so Redo follows the most recent play.
func (t *GameTree) AddMove(move Move) *GameNode {
	for _, child := range t.Current.Children {
		if child.Move == move {
			t.Current = child
			return child
		}
	}
	node := &GameNode{
		Move:   move,
		Parent: t.Current,
	}
	t.Current.Children = append([]*GameNode{node}, t.Current.Children...)
	t.Current = node
	return node
}

// Back moves current to its parent. Returns false if already at root.
func (t *GameTree) Back() bool {
	if t.Current == t.Root {
		return false
	}
	t.Current = t.Current.Parent
	return true
}

// Forward moves current to children[idx]. Returns false if no such child.
func (t *GameTree) Forward(idx int) bool {
	if idx < 0 || idx >= len(t.Current.Children) {
		return false
	}
	t.Current = t.Current.Children[idx]
	return true
}

// PathFromRoot returns the moves from root to current (excluding the root).
func (t *GameTree) PathFromRoot() []Move {
	var path []Move
	node := t.Current
	for node != t.Root {
		path = append(path, node.Move)
		node = node.Parent
	}
	// Reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Depth returns the number of moves between root and current.
func (t *GameTree) Depth() int {
	n := 0
	for node := t.Current; node != t.Root; node = node.Parent {
		n++
	}
	return n
}

// HasChildren returns true if the current node has any children.
func (t *GameTree) HasChildren() bool {
	return len(t.Current.Children) > 0
}
