// FILE: othello/internal/server/board/move.go
package board

import (
	"fmt"
	"math/bits"
	"strings"
)

// PassMove is the notation recorded when a side has no legal move
const PassMove = "pass"

// Point is a cell coordinate, row 0 at the top
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Valid reports whether p lies on the board
func (p Point) Valid() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// String returns the cell in a1..h8 notation, column letter first
func (p Point) String() string {
	if !p.Valid() {
		return "??"
	}
	return string([]byte{byte('a' + p.Col), byte('1' + p.Row)})
}

func (p Point) index() int {
	return p.Row*Size + p.Col
}

func (p Point) bit() uint64 {
	return 1 << uint(p.index())
}

func pointAt(idx int) Point {
	return Point{Row: idx / Size, Col: idx % Size}
}

// ParsePoint reads a cell in a1..h8 notation, case-insensitive
func ParsePoint(s string) (Point, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Point{}, fmt.Errorf("invalid cell %q: expected a1..h8", s)
	}
	return Point{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}, nil
}

// Direction indexes the eight neighbours of a cell
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	directionCount
)

// Move is a placement and the disks it flips.
// Lines holds the length of the flip line along each direction.
type Move struct {
	Point
	Flipped uint64
	Lines   [directionCount]uint8
}

// Flips lists the flipped cells in row-major order
func (m Move) Flips() []Point {
	points := make([]Point, 0, bits.OnesCount64(m.Flipped))
	mask := m.Flipped
	for mask != 0 {
		idx := bits.TrailingZeros64(mask)
		mask &= mask - 1
		points = append(points, pointAt(idx))
	}
	return points
}

// FlipCount returns the number of flipped disks
func (m Move) FlipCount() int {
	return bits.OnesCount64(m.Flipped)
}

func (m Move) String() string {
	return m.Point.String()
}
