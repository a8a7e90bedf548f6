// FILE: othello/internal/server/board/position.go
package board

import (
	"fmt"
	"strings"

	"othello/internal/server/core"
)

// StartingPosition is New() with Black to move
var StartingPosition = EncodePosition(New(), core.ColorBlack)

const (
	blackCell = 'X'
	whiteCell = 'O'
	emptyCell = '-'
)

// EncodePosition writes the 64 cells row-major followed by the side to move,
// e.g. "---...XO...--- b"
func EncodePosition(b Board, turn core.Color) string {
	var sb strings.Builder
	sb.Grow(Size*Size + 2)
	for idx := 0; idx < Size*Size; idx++ {
		switch b.At(pointAt(idx)) {
		case core.ColorBlack:
			sb.WriteByte(blackCell)
		case core.ColorWhite:
			sb.WriteByte(whiteCell)
		default:
			sb.WriteByte(emptyCell)
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(turn.String())
	return sb.String()
}

// ParsePosition reads the EncodePosition format
func ParsePosition(s string) (Board, core.Color, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Board{}, core.ColorEmpty, fmt.Errorf("%w: expected 2 parts, got %d", ErrInvalidPosition, len(parts))
	}
	if len(parts[0]) != Size*Size {
		return Board{}, core.ColorEmpty, fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidPosition, Size*Size, len(parts[0]))
	}

	var b Board
	for idx := 0; idx < Size*Size; idx++ {
		bit := pointAt(idx).bit()
		switch parts[0][idx] {
		case blackCell, 'x', 'B', 'b':
			b.black |= bit
		case whiteCell, 'o', 'W', 'w':
			b.white |= bit
		case emptyCell, '.':
		default:
			return Board{}, core.ColorEmpty, fmt.Errorf("%w: bad cell %q at %s", ErrInvalidPosition, parts[0][idx], pointAt(idx))
		}
	}

	turn, err := core.ParseColor(parts[1])
	if err != nil {
		return Board{}, core.ColorEmpty, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	return b, turn, nil
}

// ToASCII creates an ASCII representation of the board
func (b Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for c := 0; c < Size; c++ {
			switch b.At(Point{r, c}) {
			case core.ColorBlack:
				sb.WriteString("X ")
			case core.ColorWhite:
				sb.WriteString("O ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

func (b Board) String() string {
	return b.ToASCII()
}
