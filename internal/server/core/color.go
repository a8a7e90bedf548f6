// FILE: othello/internal/server/core/color.go
package core

import "fmt"

// Color is the content of a board cell and, for Black and White, a side
type Color byte

const (
	ColorEmpty Color = iota
	ColorBlack
	ColorWhite
)

func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "b"
	case ColorWhite:
		return "w"
	default:
		return "-"
	}
}

// Name returns the capitalised color name for display
func (c Color) Name() string {
	switch c {
	case ColorBlack:
		return "Black"
	case ColorWhite:
		return "White"
	default:
		return "Empty"
	}
}

// Valid reports whether c can be a side to move
func (c Color) Valid() bool {
	return c == ColorBlack || c == ColorWhite
}

// Opponent swaps Black and White. Empty has no opponent and stays Empty;
// callers that accept a side from outside must check Valid first.
func (c Color) Opponent() Color {
	switch c {
	case ColorBlack:
		return ColorWhite
	case ColorWhite:
		return ColorBlack
	default:
		return ColorEmpty
	}
}

// ParseColor accepts "b", "w", "black" or "white"
func ParseColor(s string) (Color, error) {
	switch s {
	case "b", "black", "B", "Black":
		return ColorBlack, nil
	case "w", "white", "W", "White":
		return ColorWhite, nil
	default:
		return ColorEmpty, fmt.Errorf("invalid color: %q", s)
	}
}
