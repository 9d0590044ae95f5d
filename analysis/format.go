package analysis

import (
	"fmt"
	"strings"

	"othello-local/othello"
)

// BoardString renders b with row and column indices and the disc count, the
// layout used in prompts and by the text mode.
func BoardString(b *othello.Board) string {
	var sb strings.Builder
	size := b.Size()

	sb.WriteString("  ")
	for c := 0; c < size; c++ {
		sb.WriteByte(' ')
		sb.WriteByte(byte('a' + c))
	}
	sb.WriteString("\n")

	for r := 0; r < size; r++ {
		fmt.Fprintf(&sb, "%2d", r+1)
		for c := 0; c < size; c++ {
			sb.WriteByte(' ')
			switch b.At(r, c) {
			case othello.Black:
				sb.WriteByte('B')
			case othello.White:
				sb.WriteByte('W')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteString("\n")
	}

	black, white := othello.CountDiscs(b)
	fmt.Fprintf(&sb, "\nScore: Black %d - White %d\n", black, white)
	return sb.String()
}

func movesList(moves []othello.Pos) string {
	if len(moves) == 0 {
		return "none"
	}
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}
