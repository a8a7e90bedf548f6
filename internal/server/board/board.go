// FILE: othello/internal/server/board/board.go
package board

import (
	"errors"
	"fmt"
	"math/bits"

	"othello/internal/server/core"
)

// Size is the number of rows and columns
const Size = 8

var (
	ErrIllegalMove     = errors.New("illegal move")
	ErrInvalidColor    = errors.New("invalid color: empty is not a side")
	ErrOutOfBounds     = errors.New("cell out of bounds")
	ErrInvalidPosition = errors.New("invalid position")
)

const (
	colA = uint64(0x0101010101010101)
	colH = uint64(0x8080808080808080)
)

// Board is an 8x8 position stored as one bitboard per side.
// Bit row*8+col is set when the cell holds a disk of that side.
// Board is a value: every transition returns a new Board.
type Board struct {
	black uint64
	white uint64
}

// New returns the standard starting position
func New() Board {
	var b Board
	b.black = Point{3, 3}.bit() | Point{4, 4}.bit()
	b.white = Point{3, 4}.bit() | Point{4, 3}.bit()
	return b
}

// Empty returns a board with no disks
func Empty() Board {
	return Board{}
}

// sides returns the disks of c and of its opponent
func (b Board) sides(c core.Color) (own, opp uint64) {
	if c == core.ColorWhite {
		return b.white, b.black
	}
	return b.black, b.white
}

func fromSides(c core.Color, own, opp uint64) Board {
	if c == core.ColorWhite {
		return Board{black: opp, white: own}
	}
	return Board{black: own, white: opp}
}

// At returns the content of p. Cells outside the board read as Empty.
func (b Board) At(p Point) core.Color {
	if !p.Valid() {
		return core.ColorEmpty
	}
	bit := p.bit()
	switch {
	case b.black&bit != 0:
		return core.ColorBlack
	case b.white&bit != 0:
		return core.ColorWhite
	default:
		return core.ColorEmpty
	}
}

// With returns a copy of b with p set to c, for building positions
func (b Board) With(p Point, c core.Color) (Board, error) {
	if !p.Valid() {
		return b, fmt.Errorf("%w: %d,%d", ErrOutOfBounds, p.Row, p.Col)
	}
	bit := p.bit()
	b.black &^= bit
	b.white &^= bit
	switch c {
	case core.ColorBlack:
		b.black |= bit
	case core.ColorWhite:
		b.white |= bit
	}
	return b, nil
}

// Score counts the disks of c
func (b Board) Score(c core.Color) (int, error) {
	if !c.Valid() {
		return 0, ErrInvalidColor
	}
	own, _ := b.sides(c)
	return bits.OnesCount64(own), nil
}

// Discs counts the disks of c without validating it; Empty counts empty cells
func (b Board) Discs(c core.Color) int {
	switch c {
	case core.ColorBlack:
		return bits.OnesCount64(b.black)
	case core.ColorWhite:
		return bits.OnesCount64(b.white)
	default:
		return b.Empties()
	}
}

// Empties counts the empty cells
func (b Board) Empties() int {
	return Size*Size - bits.OnesCount64(b.black|b.white)
}

// LegalMoves lists the moves available to c in row-major order.
// An empty result means c must pass.
func (b Board) LegalMoves(c core.Color) ([]Move, error) {
	if !c.Valid() {
		return nil, ErrInvalidColor
	}
	own, opp := b.sides(c)
	mask := moveMask(own, opp)
	moves := make([]Move, 0, bits.OnesCount64(mask))
	for mask != 0 {
		idx := bits.TrailingZeros64(mask)
		mask &= mask - 1
		moves = append(moves, b.resolve(pointAt(idx), c))
	}
	return moves, nil
}

// HasLegalMove reports whether c can place a disk. Empty never can.
func (b Board) HasLegalMove(c core.Color) bool {
	if !c.Valid() {
		return false
	}
	own, opp := b.sides(c)
	return moveMask(own, opp) != 0
}

// Mobility counts the legal moves of c
func (b Board) Mobility(c core.Color) int {
	if !c.Valid() {
		return 0
	}
	own, opp := b.sides(c)
	return bits.OnesCount64(moveMask(own, opp))
}

// MoveAt resolves placing c at p into a Move with its flip lines
func (b Board) MoveAt(p Point, c core.Color) (Move, error) {
	if !c.Valid() {
		return Move{}, ErrInvalidColor
	}
	if !p.Valid() {
		return Move{}, fmt.Errorf("%w: %d,%d", ErrOutOfBounds, p.Row, p.Col)
	}
	m := b.resolve(p, c)
	if m.Flipped == 0 {
		return Move{}, fmt.Errorf("%w: %s for %s", ErrIllegalMove, p, c.Name())
	}
	return m, nil
}

// Apply places c at m and flips every disk on its flip lines.
// m must be exactly the move LegalMoves or MoveAt resolves for that cell.
func (b Board) Apply(m Move, c core.Color) (Board, error) {
	if !c.Valid() {
		return b, ErrInvalidColor
	}
	if !m.Valid() {
		return b, fmt.Errorf("%w: %d,%d", ErrOutOfBounds, m.Row, m.Col)
	}
	want := b.resolve(m.Point, c)
	if want.Flipped == 0 || want.Flipped != m.Flipped {
		return b, fmt.Errorf("%w: %s for %s", ErrIllegalMove, m.Point, c.Name())
	}
	return b.Successor(want, c), nil
}

// Successor applies m without re-checking legality.
// Search code uses it for moves just taken from LegalMoves(c).
func (b Board) Successor(m Move, c core.Color) Board {
	own, opp := b.sides(c)
	own |= m.bit() | m.Flipped
	opp &^= m.Flipped
	return fromSides(c, own, opp)
}

// Revert undoes m previously applied for c
func (b Board) Revert(m Move, c core.Color) (Board, error) {
	if !c.Valid() {
		return b, ErrInvalidColor
	}
	if !m.Valid() {
		return b, fmt.Errorf("%w: %d,%d", ErrOutOfBounds, m.Row, m.Col)
	}
	own, opp := b.sides(c)
	bit := m.bit()
	if m.Flipped == 0 || own&bit == 0 || own&m.Flipped != m.Flipped {
		return b, fmt.Errorf("%w: %s was not played by %s", ErrIllegalMove, m.Point, c.Name())
	}
	own &^= bit | m.Flipped
	opp |= m.Flipped
	return fromSides(c, own, opp), nil
}

// IsTerminal reports whether neither side has a legal move
func (b Board) IsTerminal() bool {
	return moveMask(b.black, b.white) == 0 && moveMask(b.white, b.black) == 0
}

// Outcome compares disk counts: the side with more disks, or Empty on a tie.
// It is only a game result on a terminal board.
func (b Board) Outcome() core.Color {
	black := bits.OnesCount64(b.black)
	white := bits.OnesCount64(b.white)
	switch {
	case black > white:
		return core.ColorBlack
	case white > black:
		return core.ColorWhite
	default:
		return core.ColorEmpty
	}
}

// resolve collects the flip lines of placing c at p. A zero Flipped
// means the placement is not legal.
func (b Board) resolve(p Point, c core.Color) Move {
	own, opp := b.sides(c)
	m := Move{Point: p}
	start := p.bit()
	if (own|opp)&start != 0 {
		return m
	}
	for d := Direction(0); d < directionCount; d++ {
		var line uint64
		n := 0
		x := shift(start, d)
		for x&opp != 0 {
			line |= x
			n++
			x = shift(x, d)
		}
		if n > 0 && x&own != 0 {
			m.Flipped |= line
			m.Lines[d] = uint8(n)
		}
	}
	return m
}

// moveMask returns every empty cell that caps a run of opp disks from own
func moveMask(own, opp uint64) uint64 {
	empty := ^(own | opp)
	var moves uint64
	for d := Direction(0); d < directionCount; d++ {
		x := shift(own, d) & opp
		// A run holds at most six disks
		for i := 0; i < 5; i++ {
			x |= shift(x, d) & opp
		}
		moves |= shift(x, d) & empty
	}
	return moves
}

// shift moves every bit one cell in direction d, dropping bits that leave the board
func shift(x uint64, d Direction) uint64 {
	switch d {
	case North:
		return x >> 8
	case South:
		return x << 8
	case East:
		return (x << 1) &^ colA
	case West:
		return (x >> 1) &^ colH
	case NorthEast:
		return (x >> 7) &^ colA
	case NorthWest:
		return (x >> 9) &^ colH
	case SouthEast:
		return (x << 9) &^ colA
	case SouthWest:
		return (x << 7) &^ colH
	default:
		return 0
	}
}
