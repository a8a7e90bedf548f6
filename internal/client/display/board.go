// FILE: othello/internal/client/display/board.go
package display

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

const boardSize = 8

// RenderPosition draws a position string ("64 cells + side") with colored
// disks. Cells in legal are marked with a dot in the turn's color.
func RenderPosition(w io.Writer, position string, legal []string) error {
	cells, turn, ok := strings.Cut(position, " ")
	if !ok || len(cells) != boardSize*boardSize {
		return fmt.Errorf("malformed position %q", position)
	}

	files := Cyan + "  a b c d e f g h" + Reset
	fmt.Fprintln(w, files)
	for r := 0; r < boardSize; r++ {
		fmt.Fprintf(w, "%s%d%s ", Cyan, r+1, Reset)
		for c := 0; c < boardSize; c++ {
			cell := string([]byte{byte('a' + c), byte('1' + r)})
			switch cells[r*boardSize+c] {
			case 'X':
				fmt.Fprintf(w, "%sX%s ", Red, Reset)
			case 'O':
				fmt.Fprintf(w, "%sO%s ", Blue, Reset)
			default:
				if slices.Contains(legal, cell) {
					fmt.Fprintf(w, "%s*%s ", turnColor(turn), Reset)
				} else {
					fmt.Fprint(w, ". ")
				}
			}
		}
		fmt.Fprintf(w, "%s%d%s\n", Cyan, r+1, Reset)
	}
	fmt.Fprintln(w, files)
	return nil
}

// RenderBoard prints the server ASCII board as is, disks colored
func RenderBoard(w io.Writer, asciiBoard string) {
	for _, line := range strings.Split(asciiBoard, "\n") {
		line = strings.ReplaceAll(line, "X", Red+"X"+Reset)
		line = strings.ReplaceAll(line, "O", Blue+"O"+Reset)
		fmt.Fprintln(w, line)
	}
}

func turnColor(turn string) string {
	if turn == "w" {
		return Blue
	}
	return Red
}

// ColorForTurn returns colored turn indicator
func ColorForTurn(turn string) string {
	if turn == "w" {
		return Blue + "White" + Reset
	}
	return Red + "Black" + Reset
}
